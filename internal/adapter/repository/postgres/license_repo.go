package postgres

import (
	"github.com/jackc/pgx/v5"

	"github.com/iho/trafficadmin/internal/domain"
)

var licenseTable = table[*domain.License]{
	name: "licenses",
	columns: []string{
		"id", "license_number", "holder_name", "holder_id_number", "class",
		"issue_date", "expiry_date", "status", "city", "issuing_authority",
		"points", "created_at", "updated_at",
	},
	values: func(l *domain.License) []any {
		return []any{
			l.ID, l.LicenseNumber, l.HolderName, l.HolderIDNumber, string(l.Class),
			l.IssueDate, l.ExpiryDate, string(l.Status), l.City, l.IssuingAuthority,
			l.Points, l.CreatedAt, l.UpdatedAt,
		}
	},
	scan: func(row pgx.Row) (*domain.License, error) {
		var l domain.License
		var class, status string
		if err := row.Scan(
			&l.ID, &l.LicenseNumber, &l.HolderName, &l.HolderIDNumber, &class,
			&l.IssueDate, &l.ExpiryDate, &status, &l.City, &l.IssuingAuthority,
			&l.Points, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		l.Class = domain.LicenseClass(class)
		l.Status = domain.LicenseStatus(status)
		return &l, nil
	},
}

// NewLicenseRepository creates a license repository.
func NewLicenseRepository(db DB) *RecordRepository[*domain.License] {
	return newRecordRepository(db, licenseTable)
}
