package dto

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/trafficadmin/internal/domain"
)

// Decoder returns a function that decodes a JSON body into Req and converts
// it with convert. Malformed bodies wrap domain.ErrInvalidRecord.
func Decoder[Req any, T any](convert func(*Req) T) func(io.Reader) (T, error) {
	return func(r io.Reader) (T, error) {
		var req Req
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			var zero T
			return zero, fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidRecord, err)
		}
		return convert(&req), nil
	}
}

// Licenses

// LicenseRequest is the body of a license create or update.
type LicenseRequest struct {
	LicenseNumber    string  `json:"licenseNumber"`
	HolderName       string  `json:"holderName"`
	HolderIDNumber   string  `json:"holderIdNumber"`
	Class            string  `json:"class"`
	IssueDate        Date    `json:"issueDate"`
	ExpiryDate       Date    `json:"expiryDate"`
	Status           string  `json:"status"`
	City             *string `json:"city"`
	IssuingAuthority string  `json:"issuingAuthority"`
	Points           *int    `json:"points"`
}

// ToDomain converts the request. Status defaults to active and points to
// the full balance.
func (r *LicenseRequest) ToDomain() *domain.License {
	l := &domain.License{
		LicenseNumber:    r.LicenseNumber,
		HolderName:       r.HolderName,
		HolderIDNumber:   r.HolderIDNumber,
		Class:            domain.LicenseClass(r.Class),
		IssueDate:        r.IssueDate.Time,
		ExpiryDate:       r.ExpiryDate.Time,
		Status:           domain.LicenseStatus(r.Status),
		City:             r.City,
		IssuingAuthority: r.IssuingAuthority,
		Points:           domain.MaxPoints,
	}
	if l.Status == "" {
		l.Status = domain.LicenseActive
	}
	if r.Points != nil {
		l.Points = *r.Points
	}
	return l
}

// LicenseResponse represents a license in API responses.
type LicenseResponse struct {
	ID               string    `json:"id"`
	LicenseNumber    string    `json:"licenseNumber"`
	HolderName       string    `json:"holderName"`
	HolderIDNumber   string    `json:"holderIdNumber"`
	Class            string    `json:"class"`
	IssueDate        Date      `json:"issueDate"`
	ExpiryDate       Date      `json:"expiryDate"`
	Status           string    `json:"status"`
	City             *string   `json:"city"`
	IssuingAuthority string    `json:"issuingAuthority"`
	Points           int       `json:"points"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// LicenseFromDomain converts domain license to response.
func LicenseFromDomain(l *domain.License) LicenseResponse {
	return LicenseResponse{
		ID:               l.ID,
		LicenseNumber:    l.LicenseNumber,
		HolderName:       l.HolderName,
		HolderIDNumber:   l.HolderIDNumber,
		Class:            string(l.Class),
		IssueDate:        NewDate(l.IssueDate),
		ExpiryDate:       NewDate(l.ExpiryDate),
		Status:           string(l.Status),
		City:             l.City,
		IssuingAuthority: l.IssuingAuthority,
		Points:           l.Points,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

// DecodeLicense decodes a LicenseRequest body.
var DecodeLicense = Decoder((*LicenseRequest).ToDomain)

// Vehicles

// VehicleRequest is the body of a vehicle create or update.
type VehicleRequest struct {
	PlateNumber      string  `json:"plateNumber"`
	Brand            string  `json:"brand"`
	Model            string  `json:"model"`
	Year             int     `json:"year"`
	Color            string  `json:"color"`
	VehicleType      string  `json:"vehicleType"`
	OwnerName        string  `json:"ownerName"`
	RegistrationDate Date    `json:"registrationDate"`
	Status           string  `json:"status"`
	City             *string `json:"city"`
}

// ToDomain converts the request. Status defaults to active.
func (r *VehicleRequest) ToDomain() *domain.Vehicle {
	v := &domain.Vehicle{
		PlateNumber:      r.PlateNumber,
		Brand:            r.Brand,
		Model:            r.Model,
		Year:             r.Year,
		Color:            r.Color,
		VehicleType:      domain.VehicleType(r.VehicleType),
		OwnerName:        r.OwnerName,
		RegistrationDate: r.RegistrationDate.Time,
		Status:           domain.VehicleStatus(r.Status),
		City:             r.City,
	}
	if v.Status == "" {
		v.Status = domain.VehicleActive
	}
	return v
}

// VehicleResponse represents a vehicle in API responses.
type VehicleResponse struct {
	ID               string    `json:"id"`
	PlateNumber      string    `json:"plateNumber"`
	Brand            string    `json:"brand"`
	Model            string    `json:"model"`
	Year             int       `json:"year"`
	Color            string    `json:"color"`
	VehicleType      string    `json:"vehicleType"`
	OwnerName        string    `json:"ownerName"`
	RegistrationDate Date      `json:"registrationDate"`
	Status           string    `json:"status"`
	City             *string   `json:"city"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// VehicleFromDomain converts domain vehicle to response.
func VehicleFromDomain(v *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:               v.ID,
		PlateNumber:      v.PlateNumber,
		Brand:            v.Brand,
		Model:            v.Model,
		Year:             v.Year,
		Color:            v.Color,
		VehicleType:      string(v.VehicleType),
		OwnerName:        v.OwnerName,
		RegistrationDate: NewDate(v.RegistrationDate),
		Status:           string(v.Status),
		City:             v.City,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

// DecodeVehicle decodes a VehicleRequest body.
var DecodeVehicle = Decoder((*VehicleRequest).ToDomain)

// Violations

// ViolationRequest is the body of a violation create or update.
type ViolationRequest struct {
	PlateNumber   string          `json:"plateNumber"`
	LicenseNumber string          `json:"licenseNumber"`
	ViolationType string          `json:"violationType"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	City          *string         `json:"city"`
	FineAmount    decimal.Decimal `json:"fineAmount"`
	Points        int             `json:"points"`
	Status        string          `json:"status"`
	ViolationDate time.Time       `json:"violationDate"`
	PaidAt        *time.Time      `json:"paidAt"`
}

// ToDomain converts the request. Status defaults to pending.
func (r *ViolationRequest) ToDomain() *domain.Violation {
	v := &domain.Violation{
		PlateNumber:   r.PlateNumber,
		LicenseNumber: r.LicenseNumber,
		ViolationType: domain.ViolationType(r.ViolationType),
		Description:   r.Description,
		Location:      r.Location,
		City:          r.City,
		FineAmount:    r.FineAmount,
		Points:        r.Points,
		Status:        domain.ViolationStatus(r.Status),
		ViolationDate: r.ViolationDate.UTC(),
		PaidAt:        r.PaidAt,
	}
	if v.Status == "" {
		v.Status = domain.ViolationPending
	}
	return v
}

// ViolationResponse represents a violation in API responses.
type ViolationResponse struct {
	ID            string          `json:"id"`
	PlateNumber   string          `json:"plateNumber"`
	LicenseNumber string          `json:"licenseNumber,omitempty"`
	ViolationType string          `json:"violationType"`
	Description   string          `json:"description,omitempty"`
	Location      string          `json:"location"`
	City          *string         `json:"city"`
	FineAmount    decimal.Decimal `json:"fineAmount"`
	Points        int             `json:"points"`
	Status        string          `json:"status"`
	ViolationDate time.Time       `json:"violationDate"`
	PaidAt        *time.Time      `json:"paidAt"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ViolationFromDomain converts domain violation to response.
func ViolationFromDomain(v *domain.Violation) ViolationResponse {
	return ViolationResponse{
		ID:            v.ID,
		PlateNumber:   v.PlateNumber,
		LicenseNumber: v.LicenseNumber,
		ViolationType: string(v.ViolationType),
		Description:   v.Description,
		Location:      v.Location,
		City:          v.City,
		FineAmount:    v.FineAmount,
		Points:        v.Points,
		Status:        string(v.Status),
		ViolationDate: v.ViolationDate,
		PaidAt:        v.PaidAt,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

// DecodeViolation decodes a ViolationRequest body.
var DecodeViolation = Decoder((*ViolationRequest).ToDomain)

// Authorities

// AuthorityRequest is the body of an authority create or update.
type AuthorityRequest struct {
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	AuthorityType   string  `json:"authorityType"`
	Address         string  `json:"address"`
	City            *string `json:"city"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	HeadName        string  `json:"headName"`
	Status          string  `json:"status"`
	EstablishedDate *Date   `json:"establishedDate"`
}

// ToDomain converts the request. Status defaults to active.
func (r *AuthorityRequest) ToDomain() *domain.Authority {
	a := &domain.Authority{
		Code:            r.Code,
		Name:            r.Name,
		AuthorityType:   domain.AuthorityType(r.AuthorityType),
		Address:         r.Address,
		City:            r.City,
		Phone:           r.Phone,
		Email:           r.Email,
		HeadName:        r.HeadName,
		Status:          domain.AuthorityStatus(r.Status),
		EstablishedDate: r.EstablishedDate.timePtr(),
	}
	if a.Status == "" {
		a.Status = domain.AuthorityActive
	}
	return a
}

// AuthorityResponse represents an authority in API responses.
type AuthorityResponse struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	AuthorityType   string    `json:"authorityType"`
	Address         string    `json:"address"`
	City            *string   `json:"city"`
	Phone           string    `json:"phone,omitempty"`
	Email           string    `json:"email,omitempty"`
	HeadName        string    `json:"headName,omitempty"`
	Status          string    `json:"status"`
	EstablishedDate *Date     `json:"establishedDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// AuthorityFromDomain converts domain authority to response.
func AuthorityFromDomain(a *domain.Authority) AuthorityResponse {
	return AuthorityResponse{
		ID:              a.ID,
		Code:            a.Code,
		Name:            a.Name,
		AuthorityType:   string(a.AuthorityType),
		Address:         a.Address,
		City:            a.City,
		Phone:           a.Phone,
		Email:           a.Email,
		HeadName:        a.HeadName,
		Status:          string(a.Status),
		EstablishedDate: DatePtr(a.EstablishedDate),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// DecodeAuthority decodes an AuthorityRequest body.
var DecodeAuthority = Decoder((*AuthorityRequest).ToDomain)

// StatsResponse summarizes the records visible to the caller.
type StatsResponse struct {
	Total     int              `json:"total"`
	ByStatus  map[string]int   `json:"byStatus"`
	FineTotal *decimal.Decimal `json:"fineTotal,omitempty"`
}

// StatsFromDomain converts record stats.
func StatsFromDomain(s domain.RecordStats) StatsResponse {
	byStatus := s.ByStatus
	if byStatus == nil {
		byStatus = map[string]int{}
	}
	return StatsResponse{Total: s.Total, ByStatus: byStatus, FineTotal: s.FineTotal}
}
