package domain

import (
	"fmt"
	"time"
)

// LicenseStatus is the lifecycle state of a driver license.
type LicenseStatus string

const (
	LicenseActive    LicenseStatus = "active"
	LicenseExpired   LicenseStatus = "expired"
	LicenseSuspended LicenseStatus = "suspended"
	LicenseRevoked   LicenseStatus = "revoked"
)

// LicenseClass is a Vietnamese driving license class.
type LicenseClass string

const (
	LicenseClassA1 LicenseClass = "A1"
	LicenseClassA2 LicenseClass = "A2"
	LicenseClassA3 LicenseClass = "A3"
	LicenseClassB1 LicenseClass = "B1"
	LicenseClassB2 LicenseClass = "B2"
	LicenseClassC  LicenseClass = "C"
	LicenseClassD  LicenseClass = "D"
	LicenseClassE  LicenseClass = "E"
	LicenseClassF  LicenseClass = "F"
)

// License is a driver license issued by a traffic authority.
type License struct {
	ID               string
	LicenseNumber    string
	HolderName       string
	HolderIDNumber   string
	Class            LicenseClass
	IssueDate        time.Time
	ExpiryDate       time.Time
	Status           LicenseStatus
	City             *string
	IssuingAuthority string
	Points           int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (l *License) LocationTag() (string, bool) { return cityTag(l.City) }
func (l *License) RecordID() string            { return l.ID }
func (l *License) SetRecordID(id string)       { l.ID = id }
func (l *License) RecordStatus() string        { return string(l.Status) }

func (l *License) Timestamps() (time.Time, time.Time) { return l.CreatedAt, l.UpdatedAt }

func (l *License) SetTimestamps(createdAt, updatedAt time.Time) {
	l.CreatedAt, l.UpdatedAt = createdAt, updatedAt
}

// Validate checks the license fields.
func (l *License) Validate() error {
	if err := ValidateLicenseNumber(l.LicenseNumber); err != nil {
		return err
	}
	if err := ValidateText("holderName", l.HolderName); err != nil {
		return err
	}
	if err := ValidateRequired("holderIdNumber", l.HolderIDNumber); err != nil {
		return err
	}
	if err := ValidateEnum("class", l.Class,
		LicenseClassA1, LicenseClassA2, LicenseClassA3, LicenseClassB1, LicenseClassB2,
		LicenseClassC, LicenseClassD, LicenseClassE, LicenseClassF); err != nil {
		return err
	}
	if err := ValidateEnum("status", l.Status, LicenseActive, LicenseExpired, LicenseSuspended, LicenseRevoked); err != nil {
		return err
	}
	if err := ValidateDateOrder("issueDate", l.IssueDate, "expiryDate", l.ExpiryDate); err != nil {
		return err
	}
	if err := ValidateCity(l.City); err != nil {
		return err
	}
	if err := ValidateOptionalText("issuingAuthority", l.IssuingAuthority, MaxTextLength); err != nil {
		return err
	}
	if err := ValidatePoints(l.Points); err != nil {
		return fmt.Errorf("points: %w", err)
	}
	return nil
}

// LicenseSchema describes how licenses are searched, filtered and sorted.
var LicenseSchema = Schema[*License]{
	SearchFields: []string{"licenseNumber", "holderName", "holderIdNumber"},
	FilterFields: []string{"status", "class", "city"},
	SortFields:   []string{"licenseNumber", "holderName", "class", "issueDate", "expiryDate", "status", "city", "points", "createdAt"},
	Value: func(l *License, field string) any {
		switch field {
		case "id":
			return l.ID
		case "licenseNumber":
			return l.LicenseNumber
		case "holderName":
			return l.HolderName
		case "holderIdNumber":
			return l.HolderIDNumber
		case "class":
			return string(l.Class)
		case "issueDate":
			return l.IssueDate
		case "expiryDate":
			return l.ExpiryDate
		case "status":
			return string(l.Status)
		case "city":
			return l.City
		case "issuingAuthority":
			return l.IssuingAuthority
		case "points":
			return l.Points
		case "createdAt":
			return l.CreatedAt
		}
		return nil
	},
}
