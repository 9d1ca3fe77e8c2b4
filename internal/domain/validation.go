package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation errors. Each one is an ErrInvalidRecord.
var (
	ErrRequiredField       = fmt.Errorf("%w: required field missing", ErrInvalidRecord)
	ErrFieldTooLong        = fmt.Errorf("%w: field too long", ErrInvalidRecord)
	ErrForbiddenCharacters = fmt.Errorf("%w: field contains forbidden characters", ErrInvalidRecord)
	ErrInvalidPlateNumber  = fmt.Errorf("%w: invalid plate number", ErrInvalidRecord)
	ErrInvalidLicenseNo    = fmt.Errorf("%w: invalid license number", ErrInvalidRecord)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email format", ErrInvalidRecord)
	ErrInvalidPhone        = fmt.Errorf("%w: invalid phone number", ErrInvalidRecord)
	ErrInvalidEnum         = fmt.Errorf("%w: value not allowed", ErrInvalidRecord)
	ErrInvalidFineAmount   = fmt.Errorf("%w: invalid fine amount", ErrInvalidRecord)
	ErrInvalidPoints       = fmt.Errorf("%w: invalid points", ErrInvalidRecord)
	ErrInvalidDateRange    = fmt.Errorf("%w: invalid date range", ErrInvalidRecord)
)

// Validation constants
const (
	MaxTextLength  = 255
	MaxNoteLength  = 2000
	MaxFineAmount  = "100000000" // 100 million VND
	MinFineAmount  = "1000"
	MaxPoints      = 12
	MinVehicleYear = 1900
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// 29A-123.45, 51F-12345, 30LD-123.45
	plateRegex = regexp.MustCompile(`^[0-9]{2}[A-Z]{1,2}[0-9]?-[0-9]{3}\.?[0-9]{2}$`)

	licenseNumberRegex = regexp.MustCompile(`^[0-9]{12}$`)

	phoneRegex = regexp.MustCompile(`^(\+84|0)[0-9]{9,10}$`)
)

// ValidateRequired rejects blank values.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrRequiredField, field)
	}
	return nil
}

// ValidateText validates a required free-text field.
func ValidateText(field, value string) error {
	if err := ValidateRequired(field, value); err != nil {
		return err
	}
	return ValidateOptionalText(field, value, MaxTextLength)
}

// ValidateOptionalText validates a free-text field that may be empty.
func ValidateOptionalText(field, value string, maxLen int) error {
	value = strings.TrimSpace(value)

	if len(value) > maxLen {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrFieldTooLong, field, maxLen)
	}

	// Check for SQL injection attempts
	dangerous := []string{"--", "/*", "*/", ";"}
	for _, pattern := range dangerous {
		if strings.Contains(value, pattern) {
			return fmt.Errorf("%w: %s", ErrForbiddenCharacters, field)
		}
	}

	return nil
}

// ValidateCity requires a non-empty city.
func ValidateCity(city *string) error {
	if city == nil {
		return fmt.Errorf("%w: city", ErrRequiredField)
	}
	return ValidateText("city", *city)
}

// ValidatePlateNumber validates a registration plate.
func ValidatePlateNumber(plate string) error {
	plate = strings.ToUpper(strings.TrimSpace(plate))

	if !plateRegex.MatchString(plate) {
		return fmt.Errorf("%w: %q", ErrInvalidPlateNumber, plate)
	}

	return nil
}

// ValidateLicenseNumber validates a 12-digit driver license number.
func ValidateLicenseNumber(number string) error {
	if !licenseNumberRegex.MatchString(strings.TrimSpace(number)) {
		return fmt.Errorf("%w: must be 12 digits", ErrInvalidLicenseNo)
	}
	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePhone validates a Vietnamese phone number.
func ValidatePhone(phone string) error {
	phone = strings.NewReplacer(" ", "", ".", "", "-", "").Replace(phone)

	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}

	return nil
}

// ValidateEnum checks that value is one of allowed.
func ValidateEnum[S ~string](field string, value S, allowed ...S) error {
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("%w: %s %q", ErrInvalidEnum, field, value)
	}
	return nil
}

// ValidateFineAmount validates a violation fine.
func ValidateFineAmount(amount decimal.Decimal) error {
	minAmount, _ := decimal.NewFromString(MinFineAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum fine is %s", ErrInvalidFineAmount, MinFineAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxFineAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum fine is %s", ErrInvalidFineAmount, MaxFineAmount)
	}

	return nil
}

// ValidatePoints validates a demerit point count.
func ValidatePoints(points int) error {
	if points < 0 || points > MaxPoints {
		return fmt.Errorf("%w: must be between 0 and %d", ErrInvalidPoints, MaxPoints)
	}
	return nil
}

// ValidateDateOrder requires from to be set and strictly before to.
func ValidateDateOrder(fromField string, from time.Time, toField string, to time.Time) error {
	if from.IsZero() {
		return fmt.Errorf("%w: %s", ErrRequiredField, fromField)
	}
	if to.IsZero() {
		return fmt.Errorf("%w: %s", ErrRequiredField, toField)
	}
	if !from.Before(to) {
		return fmt.Errorf("%w: %s must be before %s", ErrInvalidDateRange, fromField, toField)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
