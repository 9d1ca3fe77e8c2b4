package postgres

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/trafficadmin/internal/domain"
)

var authorityTable = table[*domain.Authority]{
	name: "authorities",
	columns: []string{
		"id", "code", "name", "authority_type", "address", "city", "phone",
		"email", "head_name", "status", "established_date", "created_at", "updated_at",
	},
	values: func(a *domain.Authority) []any {
		return []any{
			a.ID, a.Code, a.Name, string(a.AuthorityType), a.Address, a.City, a.Phone,
			a.Email, a.HeadName, string(a.Status), nullableDate(a.EstablishedDate), a.CreatedAt, a.UpdatedAt,
		}
	},
	scan: func(row pgx.Row) (*domain.Authority, error) {
		var a domain.Authority
		var authorityType, status string
		var established pgtype.Date
		if err := row.Scan(
			&a.ID, &a.Code, &a.Name, &authorityType, &a.Address, &a.City, &a.Phone,
			&a.Email, &a.HeadName, &status, &established, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		a.AuthorityType = domain.AuthorityType(authorityType)
		a.Status = domain.AuthorityStatus(status)
		a.EstablishedDate = dateTimePtr(established)
		return &a, nil
	},
}

// NewAuthorityRepository creates an authority repository.
func NewAuthorityRepository(db DB) *RecordRepository[*domain.Authority] {
	return newRecordRepository(db, authorityTable)
}
