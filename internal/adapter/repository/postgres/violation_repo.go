package postgres

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/trafficadmin/internal/domain"
)

var violationTable = table[*domain.Violation]{
	name: "violations",
	columns: []string{
		"id", "plate_number", "license_number", "violation_type", "description",
		"location", "city", "fine_amount", "points", "status", "violation_date",
		"paid_at", "created_at", "updated_at",
	},
	values: func(v *domain.Violation) []any {
		return []any{
			v.ID, v.PlateNumber, v.LicenseNumber, string(v.ViolationType), v.Description,
			v.Location, v.City, decimalToNumeric(v.FineAmount), v.Points, string(v.Status), v.ViolationDate,
			timestamptz(v.PaidAt), v.CreatedAt, v.UpdatedAt,
		}
	},
	scan: func(row pgx.Row) (*domain.Violation, error) {
		var v domain.Violation
		var violationType, status string
		var fine pgtype.Numeric
		var paidAt pgtype.Timestamptz
		if err := row.Scan(
			&v.ID, &v.PlateNumber, &v.LicenseNumber, &violationType, &v.Description,
			&v.Location, &v.City, &fine, &v.Points, &status, &v.ViolationDate,
			&paidAt, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		v.ViolationType = domain.ViolationType(violationType)
		v.Status = domain.ViolationStatus(status)
		v.FineAmount = numericToDecimal(fine)
		v.PaidAt = timePtr(paidAt)
		return &v, nil
	},
}

// NewViolationRepository creates a violation repository.
func NewViolationRepository(db DB) *RecordRepository[*domain.Violation] {
	return newRecordRepository(db, violationTable)
}
