package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ViolationStatus is the payment state of a violation.
type ViolationStatus string

const (
	ViolationPending   ViolationStatus = "pending"
	ViolationPaid      ViolationStatus = "paid"
	ViolationDisputed  ViolationStatus = "disputed"
	ViolationCancelled ViolationStatus = "cancelled"
)

// ViolationType is the kind of traffic offence.
type ViolationType string

const (
	ViolationSpeeding       ViolationType = "speeding"
	ViolationRedLight       ViolationType = "red_light"
	ViolationNoHelmet       ViolationType = "no_helmet"
	ViolationDrunkDriving   ViolationType = "drunk_driving"
	ViolationIllegalParking ViolationType = "illegal_parking"
	ViolationOther          ViolationType = "other"
)

// Violation is a recorded traffic offence.
type Violation struct {
	ID            string
	PlateNumber   string
	LicenseNumber string
	ViolationType ViolationType
	Description   string
	Location      string
	City          *string
	FineAmount    decimal.Decimal
	Points        int
	Status        ViolationStatus
	ViolationDate time.Time
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (v *Violation) LocationTag() (string, bool) { return cityTag(v.City) }
func (v *Violation) RecordID() string            { return v.ID }
func (v *Violation) SetRecordID(id string)       { v.ID = id }
func (v *Violation) RecordStatus() string        { return string(v.Status) }
func (v *Violation) FineValue() decimal.Decimal  { return v.FineAmount }

func (v *Violation) Timestamps() (time.Time, time.Time) { return v.CreatedAt, v.UpdatedAt }

func (v *Violation) SetTimestamps(createdAt, updatedAt time.Time) {
	v.CreatedAt, v.UpdatedAt = createdAt, updatedAt
}

// Validate checks the violation fields. A paid violation must carry its
// payment time and no other status may.
func (v *Violation) Validate() error {
	v.PlateNumber = strings.ToUpper(strings.TrimSpace(v.PlateNumber))
	if err := ValidatePlateNumber(v.PlateNumber); err != nil {
		return err
	}
	if v.LicenseNumber != "" {
		if err := ValidateLicenseNumber(v.LicenseNumber); err != nil {
			return err
		}
	}
	if err := ValidateEnum("violationType", v.ViolationType,
		ViolationSpeeding, ViolationRedLight, ViolationNoHelmet,
		ViolationDrunkDriving, ViolationIllegalParking, ViolationOther); err != nil {
		return err
	}
	if err := ValidateOptionalText("description", v.Description, MaxNoteLength); err != nil {
		return err
	}
	if err := ValidateText("location", v.Location); err != nil {
		return err
	}
	if err := ValidateCity(v.City); err != nil {
		return err
	}
	if err := ValidateFineAmount(v.FineAmount); err != nil {
		return err
	}
	if err := ValidatePoints(v.Points); err != nil {
		return err
	}
	if err := ValidateEnum("status", v.Status, ViolationPending, ViolationPaid, ViolationDisputed, ViolationCancelled); err != nil {
		return err
	}
	if v.ViolationDate.IsZero() {
		return fmt.Errorf("%w: violationDate", ErrRequiredField)
	}
	switch {
	case v.Status == ViolationPaid && v.PaidAt == nil:
		return fmt.Errorf("%w: paidAt", ErrRequiredField)
	case v.Status != ViolationPaid && v.PaidAt != nil:
		return fmt.Errorf("%w: paidAt is only allowed on paid violations", ErrInvalidRecord)
	case v.PaidAt != nil && v.PaidAt.Before(v.ViolationDate):
		return fmt.Errorf("%w: paidAt must not precede violationDate", ErrInvalidDateRange)
	}
	return nil
}

// ViolationSchema describes how violations are searched, filtered and sorted.
var ViolationSchema = Schema[*Violation]{
	SearchFields: []string{"plateNumber", "licenseNumber", "location", "description"},
	FilterFields: []string{"status", "violationType", "city"},
	SortFields:   []string{"plateNumber", "violationType", "location", "city", "fineAmount", "points", "status", "violationDate", "paidAt", "createdAt"},
	Value: func(v *Violation, field string) any {
		switch field {
		case "id":
			return v.ID
		case "plateNumber":
			return v.PlateNumber
		case "licenseNumber":
			return v.LicenseNumber
		case "violationType":
			return string(v.ViolationType)
		case "description":
			return v.Description
		case "location":
			return v.Location
		case "city":
			return v.City
		case "fineAmount":
			return v.FineAmount
		case "points":
			return v.Points
		case "status":
			return string(v.Status)
		case "violationDate":
			return v.ViolationDate
		case "paidAt":
			return v.PaidAt
		case "createdAt":
			return v.CreatedAt
		}
		return nil
	},
}
