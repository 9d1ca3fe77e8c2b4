package domain

import (
	"fmt"
	"strings"
	"time"
)

// AuthorityType is the kind of traffic authority.
type AuthorityType string

const (
	AuthorityPolice              AuthorityType = "police"
	AuthorityTransportDepartment AuthorityType = "transport_department"
	AuthorityInspectionCenter    AuthorityType = "inspection_center"
)

// AuthorityStatus is the operating state of an authority.
type AuthorityStatus string

const (
	AuthorityActive   AuthorityStatus = "active"
	AuthorityInactive AuthorityStatus = "inactive"
)

// Authority is an office that issues licenses or records violations.
type Authority struct {
	ID              string
	Code            string
	Name            string
	AuthorityType   AuthorityType
	Address         string
	City            *string
	Phone           string
	Email           string
	HeadName        string
	Status          AuthorityStatus
	EstablishedDate *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (a *Authority) LocationTag() (string, bool) { return cityTag(a.City) }
func (a *Authority) RecordID() string            { return a.ID }
func (a *Authority) SetRecordID(id string)       { a.ID = id }
func (a *Authority) RecordStatus() string        { return string(a.Status) }

func (a *Authority) Timestamps() (time.Time, time.Time) { return a.CreatedAt, a.UpdatedAt }

func (a *Authority) SetTimestamps(createdAt, updatedAt time.Time) {
	a.CreatedAt, a.UpdatedAt = createdAt, updatedAt
}

// Validate checks the authority fields.
func (a *Authority) Validate() error {
	a.Code = strings.ToUpper(strings.TrimSpace(a.Code))
	if err := ValidateText("code", a.Code); err != nil {
		return err
	}
	if err := ValidateText("name", a.Name); err != nil {
		return err
	}
	if err := ValidateEnum("authorityType", a.AuthorityType,
		AuthorityPolice, AuthorityTransportDepartment, AuthorityInspectionCenter); err != nil {
		return err
	}
	if err := ValidateText("address", a.Address); err != nil {
		return err
	}
	if err := ValidateCity(a.City); err != nil {
		return err
	}
	if a.Phone != "" {
		if err := ValidatePhone(a.Phone); err != nil {
			return err
		}
	}
	if a.Email != "" {
		if err := ValidateEmail(a.Email); err != nil {
			return err
		}
	}
	if err := ValidateOptionalText("headName", a.HeadName, MaxTextLength); err != nil {
		return err
	}
	if err := ValidateEnum("status", a.Status, AuthorityActive, AuthorityInactive); err != nil {
		return err
	}
	if a.EstablishedDate != nil && a.EstablishedDate.After(time.Now()) {
		return fmt.Errorf("%w: establishedDate is in the future", ErrInvalidDateRange)
	}
	return nil
}

// AuthoritySchema describes how authorities are searched, filtered and sorted.
var AuthoritySchema = Schema[*Authority]{
	SearchFields: []string{"code", "name", "address", "headName"},
	FilterFields: []string{"status", "authorityType", "city"},
	SortFields:   []string{"code", "name", "authorityType", "city", "status", "establishedDate", "createdAt"},
	Value: func(a *Authority, field string) any {
		switch field {
		case "id":
			return a.ID
		case "code":
			return a.Code
		case "name":
			return a.Name
		case "authorityType":
			return string(a.AuthorityType)
		case "address":
			return a.Address
		case "city":
			return a.City
		case "phone":
			return a.Phone
		case "email":
			return a.Email
		case "headName":
			return a.HeadName
		case "status":
			return string(a.Status)
		case "establishedDate":
			return a.EstablishedDate
		case "createdAt":
			return a.CreatedAt
		}
		return nil
	},
}
