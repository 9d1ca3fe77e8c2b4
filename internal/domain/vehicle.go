package domain

import (
	"fmt"
	"strings"
	"time"
)

// VehicleStatus is the registration state of a vehicle.
type VehicleStatus string

const (
	VehicleActive   VehicleStatus = "active"
	VehicleInactive VehicleStatus = "inactive"
	VehicleStolen   VehicleStatus = "stolen"
)

// VehicleType is the category of a vehicle.
type VehicleType string

const (
	VehicleCar        VehicleType = "car"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleTruck      VehicleType = "truck"
	VehicleBus        VehicleType = "bus"
)

// Vehicle is a registered vehicle.
type Vehicle struct {
	ID               string
	PlateNumber      string
	Brand            string
	Model            string
	Year             int
	Color            string
	VehicleType      VehicleType
	OwnerName        string
	RegistrationDate time.Time
	Status           VehicleStatus
	City             *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (v *Vehicle) LocationTag() (string, bool) { return cityTag(v.City) }
func (v *Vehicle) RecordID() string            { return v.ID }
func (v *Vehicle) SetRecordID(id string)       { v.ID = id }
func (v *Vehicle) RecordStatus() string        { return string(v.Status) }

func (v *Vehicle) Timestamps() (time.Time, time.Time) { return v.CreatedAt, v.UpdatedAt }

func (v *Vehicle) SetTimestamps(createdAt, updatedAt time.Time) {
	v.CreatedAt, v.UpdatedAt = createdAt, updatedAt
}

// Validate checks the vehicle fields.
func (v *Vehicle) Validate() error {
	v.PlateNumber = strings.ToUpper(strings.TrimSpace(v.PlateNumber))
	if err := ValidatePlateNumber(v.PlateNumber); err != nil {
		return err
	}
	if err := ValidateText("brand", v.Brand); err != nil {
		return err
	}
	if err := ValidateText("model", v.Model); err != nil {
		return err
	}
	if v.Year < MinVehicleYear || v.Year > time.Now().Year()+1 {
		return fmt.Errorf("%w: year %d", ErrInvalidRecord, v.Year)
	}
	if err := ValidateOptionalText("color", v.Color, MaxTextLength); err != nil {
		return err
	}
	if err := ValidateEnum("vehicleType", v.VehicleType, VehicleCar, VehicleMotorcycle, VehicleTruck, VehicleBus); err != nil {
		return err
	}
	if err := ValidateText("ownerName", v.OwnerName); err != nil {
		return err
	}
	if v.RegistrationDate.IsZero() {
		return fmt.Errorf("%w: registrationDate", ErrRequiredField)
	}
	if err := ValidateEnum("status", v.Status, VehicleActive, VehicleInactive, VehicleStolen); err != nil {
		return err
	}
	return ValidateCity(v.City)
}

// VehicleSchema describes how vehicles are searched, filtered and sorted.
var VehicleSchema = Schema[*Vehicle]{
	SearchFields: []string{"plateNumber", "brand", "model", "ownerName"},
	FilterFields: []string{"status", "vehicleType", "brand", "city"},
	SortFields:   []string{"plateNumber", "brand", "model", "year", "vehicleType", "ownerName", "registrationDate", "status", "city", "createdAt"},
	Value: func(v *Vehicle, field string) any {
		switch field {
		case "id":
			return v.ID
		case "plateNumber":
			return v.PlateNumber
		case "brand":
			return v.Brand
		case "model":
			return v.Model
		case "year":
			return v.Year
		case "color":
			return v.Color
		case "vehicleType":
			return string(v.VehicleType)
		case "ownerName":
			return v.OwnerName
		case "registrationDate":
			return v.RegistrationDate
		case "status":
			return string(v.Status)
		case "city":
			return v.City
		case "createdAt":
			return v.CreatedAt
		}
		return nil
	},
}
