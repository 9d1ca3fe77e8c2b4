package postgres

import (
	"github.com/jackc/pgx/v5"

	"github.com/iho/trafficadmin/internal/domain"
)

var vehicleTable = table[*domain.Vehicle]{
	name: "vehicles",
	columns: []string{
		"id", "plate_number", "brand", "model", "year", "color", "vehicle_type",
		"owner_name", "registration_date", "status", "city", "created_at", "updated_at",
	},
	values: func(v *domain.Vehicle) []any {
		return []any{
			v.ID, v.PlateNumber, v.Brand, v.Model, v.Year, v.Color, string(v.VehicleType),
			v.OwnerName, v.RegistrationDate, string(v.Status), v.City, v.CreatedAt, v.UpdatedAt,
		}
	},
	scan: func(row pgx.Row) (*domain.Vehicle, error) {
		var v domain.Vehicle
		var vehicleType, status string
		if err := row.Scan(
			&v.ID, &v.PlateNumber, &v.Brand, &v.Model, &v.Year, &v.Color, &vehicleType,
			&v.OwnerName, &v.RegistrationDate, &status, &v.City, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		v.VehicleType = domain.VehicleType(vehicleType)
		v.Status = domain.VehicleStatus(status)
		return &v, nil
	},
}

// NewVehicleRepository creates a vehicle repository.
func NewVehicleRepository(db DB) *RecordRepository[*domain.Vehicle] {
	return newRecordRepository(db, vehicleTable)
}
