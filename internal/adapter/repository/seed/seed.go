// Package seed holds the demonstration records loaded into empty stores.
package seed

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/trafficadmin/internal/domain"
)

var epoch = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

func city(name string) *string { return &name }

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// stamp gives the n-th seeded record of a table its creation time so that
// insertion order is stable.
func stamp(n int) time.Time { return epoch.Add(time.Duration(n) * time.Minute) }

// Licenses returns the seeded driver licenses. One legacy record has no
// city and is only visible with the "all" scope.
func Licenses() []*domain.License {
	rows := []struct {
		number, holder, idNumber string
		class                    domain.LicenseClass
		issued                   time.Time
		status                   domain.LicenseStatus
		city                     *string
		authority                string
		points                   int
	}{
		{"010123456789", "Nguyễn Văn An", "001085001234", domain.LicenseClassB2, day(2019, 3, 12), domain.LicenseActive, city("Hà Nội"), "PC08 Hà Nội", 12},
		{"010123456790", "Trần Thị Bình", "001090004321", domain.LicenseClassA1, day(2015, 7, 1), domain.LicenseExpired, city("Hà Nội"), "PC08 Hà Nội", 12},
		{"790123456791", "Lê Hoàng Cường", "079088005678", domain.LicenseClassC, day(2020, 11, 20), domain.LicenseActive, city("Hồ Chí Minh"), "PC08 TP.HCM", 8},
		{"790123456792", "Phạm Minh Đức", "079092008765", domain.LicenseClassB1, day(2021, 2, 5), domain.LicenseSuspended, city("Ho Chi Minh"), "PC08 TP.HCM", 2},
		{"480123456793", "Võ Thị Hoa", "048095001122", domain.LicenseClassA2, day(2022, 6, 18), domain.LicenseActive, city("Đà Nẵng"), "PC08 Đà Nẵng", 12},
		{"310123456794", "Đặng Quốc Huy", "031087003344", domain.LicenseClassD, day(2018, 9, 9), domain.LicenseRevoked, city("Hải Phòng"), "PC08 Hải Phòng", 0},
		{"920123456795", "Bùi Thanh Lan", "092093005566", domain.LicenseClassB2, day(2023, 1, 30), domain.LicenseActive, city("Cần Thơ"), "PC08 Cần Thơ", 11},
		{"000123456796", "Hoàng Văn Nam", "001070007788", domain.LicenseClassE, day(2010, 4, 22), domain.LicenseExpired, nil, "Cục CSGT", 12},
	}

	out := make([]*domain.License, len(rows))
	for i, r := range rows {
		out[i] = &domain.License{
			ID:               fmt.Sprintf("lic-%03d", i+1),
			LicenseNumber:    r.number,
			HolderName:       r.holder,
			HolderIDNumber:   r.idNumber,
			Class:            r.class,
			IssueDate:        r.issued,
			ExpiryDate:       r.issued.AddDate(10, 0, 0),
			Status:           r.status,
			City:             r.city,
			IssuingAuthority: r.authority,
			Points:           r.points,
			CreatedAt:        stamp(i),
			UpdatedAt:        stamp(i),
		}
	}
	return out
}

// Vehicles returns the seeded vehicle registrations.
func Vehicles() []*domain.Vehicle {
	rows := []struct {
		plate, brand, model string
		year                int
		color               string
		kind                domain.VehicleType
		owner               string
		registered          time.Time
		status              domain.VehicleStatus
		city                *string
	}{
		{"30A-123.45", "Toyota", "Vios", 2019, "Trắng", domain.VehicleCar, "Nguyễn Văn An", day(2019, 5, 2), domain.VehicleActive, city("Hà Nội")},
		{"29B1-234.56", "Honda", "Wave Alpha", 2020, "Đỏ", domain.VehicleMotorcycle, "Trần Thị Bình", day(2020, 8, 14), domain.VehicleActive, city("Hanoi")},
		{"51G-678.90", "Hyundai", "Accent", 2021, "Đen", domain.VehicleCar, "Lê Hoàng Cường", day(2021, 1, 7), domain.VehicleActive, city("Hồ Chí Minh")},
		{"59C-111.22", "Isuzu", "QKR", 2017, "Xanh", domain.VehicleTruck, "Phạm Minh Đức", day(2017, 10, 3), domain.VehicleStolen, city("TP.HCM")},
		{"43A-333.44", "Mazda", "CX-5", 2022, "Xám", domain.VehicleCar, "Võ Thị Hoa", day(2022, 3, 25), domain.VehicleActive, city("Đà Nẵng")},
		{"15B-555.66", "Thaco", "Town", 2016, "Trắng", domain.VehicleBus, "Đặng Quốc Huy", day(2016, 12, 1), domain.VehicleInactive, city("Hải Phòng")},
		{"65A-777.88", "Kia", "Morning", 2018, "Vàng", domain.VehicleCar, "Bùi Thanh Lan", day(2018, 6, 11), domain.VehicleActive, city("Cần Thơ")},
	}

	out := make([]*domain.Vehicle, len(rows))
	for i, r := range rows {
		out[i] = &domain.Vehicle{
			ID:               fmt.Sprintf("veh-%03d", i+1),
			PlateNumber:      r.plate,
			Brand:            r.brand,
			Model:            r.model,
			Year:             r.year,
			Color:            r.color,
			VehicleType:      r.kind,
			OwnerName:        r.owner,
			RegistrationDate: r.registered,
			Status:           r.status,
			City:             r.city,
			CreatedAt:        stamp(i),
			UpdatedAt:        stamp(i),
		}
	}
	return out
}

// Violations returns the seeded traffic violations.
func Violations() []*domain.Violation {
	rows := []struct {
		plate, license string
		kind           domain.ViolationType
		description    string
		location       string
		city           *string
		fine           string
		points         int
		status         domain.ViolationStatus
		at             time.Time
		paidAfter      time.Duration
	}{
		{"30A-123.45", "010123456789", domain.ViolationSpeeding, "72 km/h trong khu dân cư", "Đường Láng", city("Hà Nội"), "4000000", 2, domain.ViolationPaid, day(2024, 2, 3), 72 * time.Hour},
		{"29B1-234.56", "010123456790", domain.ViolationNoHelmet, "", "Cầu Giấy", city("Hà Nội"), "400000", 0, domain.ViolationPending, day(2024, 3, 9), 0},
		{"51G-678.90", "790123456791", domain.ViolationRedLight, "Vượt đèn đỏ", "Ngã tư Hàng Xanh", city("Hồ Chí Minh"), "5000000", 4, domain.ViolationDisputed, day(2024, 2, 20), 0},
		{"59C-111.22", "790123456792", domain.ViolationDrunkDriving, "Nồng độ cồn vượt mức", "Quận 7", city("Hồ Chí Minh"), "35000000", 10, domain.ViolationPaid, day(2024, 1, 28), 240 * time.Hour},
		{"43A-333.44", "480123456793", domain.ViolationIllegalParking, "", "Bạch Đằng", city("Đà Nẵng"), "800000", 0, domain.ViolationCancelled, day(2024, 3, 1), 0},
		{"15B-555.66", "", domain.ViolationOther, "Chở quá số người quy định", "Lạch Tray", city("Hải Phòng"), "1200000", 2, domain.ViolationPending, day(2024, 3, 12), 0},
		{"65A-777.88", "920123456795", domain.ViolationSpeeding, "", "Cầu Cần Thơ", city("Cần Thơ"), "2000000", 1, domain.ViolationPending, day(2024, 4, 2), 0},
	}

	out := make([]*domain.Violation, len(rows))
	for i, r := range rows {
		v := &domain.Violation{
			ID:            fmt.Sprintf("vio-%03d", i+1),
			PlateNumber:   r.plate,
			LicenseNumber: r.license,
			ViolationType: r.kind,
			Description:   r.description,
			Location:      r.location,
			City:          r.city,
			FineAmount:    decimal.RequireFromString(r.fine),
			Points:        r.points,
			Status:        r.status,
			ViolationDate: r.at,
			CreatedAt:     stamp(i),
			UpdatedAt:     stamp(i),
		}
		if r.status == domain.ViolationPaid {
			paid := r.at.Add(r.paidAfter)
			v.PaidAt = &paid
		}
		out[i] = v
	}
	return out
}

// Authorities returns the seeded traffic authorities.
func Authorities() []*domain.Authority {
	rows := []struct {
		code, name string
		kind       domain.AuthorityType
		address    string
		city       *string
		phone      string
		email      string
		head       string
		status     domain.AuthorityStatus
		founded    *time.Time
	}{
		{"CSGT-HN", "Phòng CSGT Hà Nội", domain.AuthorityPolice, "86 Lý Thường Kiệt", city("Hà Nội"), "0243942 4243", "csgt@hanoi.gov.vn", "Đào Thanh Hải", domain.AuthorityActive, nil},
		{"SGTVT-HCM", "Sở GTVT TP.HCM", domain.AuthorityTransportDepartment, "63 Lý Tự Trọng", city("Hồ Chí Minh"), "02838290451", "sgtvt@tphcm.gov.vn", "Trần Quang Lâm", domain.AuthorityActive, nil},
		{"DK-4301D", "Trung tâm Đăng kiểm 43-01D", domain.AuthorityInspectionCenter, "Ngô Quyền", city("Đà Nẵng"), "0236.3831.234", "", "", domain.AuthorityActive, nil},
		{"CSGT-HP", "Phòng CSGT Hải Phòng", domain.AuthorityPolice, "2 Lê Đại Hành", city("Hải Phòng"), "0225-3842-111", "", "", domain.AuthorityInactive, nil},
		{"SGTVT-CT", "Sở GTVT Cần Thơ", domain.AuthorityTransportDepartment, "Trần Hưng Đạo", city("Cần Thơ"), "", "sgtvt@cantho.gov.vn", "", domain.AuthorityActive, nil},
	}

	established := day(1995, 8, 19)
	rows[0].founded = &established

	out := make([]*domain.Authority, len(rows))
	for i, r := range rows {
		out[i] = &domain.Authority{
			ID:              fmt.Sprintf("auth-%03d", i+1),
			Code:            r.code,
			Name:            r.name,
			AuthorityType:   r.kind,
			Address:         r.address,
			City:            r.city,
			Phone:           r.phone,
			Email:           r.email,
			HeadName:        r.head,
			Status:          r.status,
			EstablishedDate: r.founded,
			CreatedAt:       stamp(i),
			UpdatedAt:       stamp(i),
		}
	}
	return out
}
