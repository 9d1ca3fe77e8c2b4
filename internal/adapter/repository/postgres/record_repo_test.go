package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/trafficadmin/internal/domain"
)

var licenseColumns = []string{
	"id", "license_number", "holder_name", "holder_id_number", "class",
	"issue_date", "expiry_date", "status", "city", "issuing_authority",
	"points", "created_at", "updated_at",
}

func testLicense(id string) *domain.License {
	city := "Hà Nội"
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return &domain.License{
		ID:             id,
		LicenseNumber:  "012345678901",
		HolderName:     "Nguyen Van A",
		HolderIDNumber: "001090000001",
		Class:          domain.LicenseClassB2,
		IssueDate:      now.AddDate(-2, 0, 0),
		ExpiryDate:     now.AddDate(8, 0, 0),
		Status:         domain.LicenseActive,
		City:           &city,
		Points:         12,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func licenseRow(rows *pgxmock.Rows, l *domain.License) *pgxmock.Rows {
	return rows.AddRow(
		l.ID, l.LicenseNumber, l.HolderName, l.HolderIDNumber, string(l.Class),
		l.IssueDate, l.ExpiryDate, string(l.Status), l.City, l.IssuingAuthority,
		l.Points, l.CreatedAt, l.UpdatedAt,
	)
}

func TestTableSQL(t *testing.T) {
	insert := licenseTable.insertSQL()
	if !strings.HasPrefix(insert, "INSERT INTO licenses (id, license_number,") {
		t.Fatalf("unexpected insert: %s", insert)
	}
	if !strings.HasSuffix(insert, "$12, $13)") {
		t.Fatalf("expected 13 placeholders: %s", insert)
	}

	update := licenseTable.updateSQL()
	if strings.Contains(update, "created_at") {
		t.Fatalf("update must not touch created_at: %s", update)
	}
	if !strings.Contains(update, "updated_at = $12") || !strings.HasSuffix(update, "WHERE id = $1") {
		t.Fatalf("unexpected update: %s", update)
	}

	args := licenseTable.updateArgs(testLicense("l1"))
	if len(args) != 12 {
		t.Fatalf("expected 12 update args, got %d", len(args))
	}
	if args[0] != "l1" {
		t.Fatalf("expected id as first arg, got %v", args[0])
	}
}

func TestRecordRepositoryList(t *testing.T) {
	mockPool := newMockPool(t)
	first, second := testLicense("l1"), testLicense("l2")
	rows := licenseRow(licenseRow(pgxmock.NewRows(licenseColumns), first), second)
	mockPool.ExpectQuery(`SELECT id, license_number, .* FROM licenses ORDER BY created_at, id`).WillReturnRows(rows)

	repo := NewLicenseRepository(mockPool)
	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].ID != "l1" || items[1].ID != "l2" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].Class != domain.LicenseClassB2 || items[0].Status != domain.LicenseActive {
		t.Fatalf("enums not mapped: %+v", items[0])
	}

	assertExpectations(t, mockPool)
}

func TestRecordRepositoryGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectQuery(`FROM licenses WHERE id = \$1`).
			WithArgs("l1").
			WillReturnRows(licenseRow(pgxmock.NewRows(licenseColumns), testLicense("l1")))

		got, err := NewLicenseRepository(mockPool).GetByID(context.Background(), "l1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.LicenseNumber != "012345678901" {
			t.Fatalf("unexpected license: %+v", got)
		}
		assertExpectations(t, mockPool)
	})

	t.Run("missing", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectQuery(`FROM licenses WHERE id = \$1`).
			WithArgs("nope").
			WillReturnRows(pgxmock.NewRows(licenseColumns))

		_, err := NewLicenseRepository(mockPool).GetByID(context.Background(), "nope")
		if !errors.Is(err, domain.ErrRecordNotFound) {
			t.Fatalf("expected ErrRecordNotFound, got %v", err)
		}
	})
}

func TestRecordRepositoryCreate(t *testing.T) {
	t.Run("inserts", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectExec(`INSERT INTO licenses`).WillReturnResult(pgxmock.NewResult("INSERT", 1))

		if err := NewLicenseRepository(mockPool).Create(context.Background(), testLicense("l1")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertExpectations(t, mockPool)
	})

	t.Run("unique violation", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectExec(`INSERT INTO licenses`).
			WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "licenses_license_number_key"})

		err := NewLicenseRepository(mockPool).Create(context.Background(), testLicense("l1"))
		if !errors.Is(err, domain.ErrDuplicateRecord) {
			t.Fatalf("expected ErrDuplicateRecord, got %v", err)
		}
	})
}

func TestRecordRepositoryUpdate(t *testing.T) {
	t.Run("updates", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectExec(`UPDATE licenses SET`).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		if err := NewLicenseRepository(mockPool).Update(context.Background(), testLicense("l1")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertExpectations(t, mockPool)
	})

	t.Run("no rows", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectExec(`UPDATE licenses SET`).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := NewLicenseRepository(mockPool).Update(context.Background(), testLicense("l1"))
		if !errors.Is(err, domain.ErrRecordNotFound) {
			t.Fatalf("expected ErrRecordNotFound, got %v", err)
		}
	})
}

func TestRecordRepositoryDelete(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectExec(`DELETE FROM vehicles WHERE id = \$1`).WithArgs("v1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mockPool.ExpectExec(`DELETE FROM vehicles WHERE id = \$1`).WithArgs("v2").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewVehicleRepository(mockPool)
	if err := repo.Delete(context.Background(), "v1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(context.Background(), "v2"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestViolationValuesConvertFine(t *testing.T) {
	paid := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	v := &domain.Violation{ID: "x1", FineAmount: decimal.RequireFromString("1500000"), PaidAt: &paid}

	values := violationTable.values(v)
	fine := numericToDecimal(decimalToNumeric(v.FineAmount))
	if !fine.Equal(v.FineAmount) {
		t.Fatalf("fine round trip: got %s", fine)
	}
	if len(values) != len(violationTable.columns) {
		t.Fatalf("values and columns differ: %d vs %d", len(values), len(violationTable.columns))
	}
	if ts := timePtr(timestamptz(v.PaidAt)); ts == nil || !ts.Equal(paid) {
		t.Fatalf("paid_at round trip: got %v", ts)
	}
	if timePtr(timestamptz(nil)) != nil {
		t.Fatalf("expected nil paid_at")
	}
}

func TestTablesAlignValuesWithColumns(t *testing.T) {
	if n := len(vehicleTable.values(&domain.Vehicle{})); n != len(vehicleTable.columns) {
		t.Fatalf("vehicles: %d values for %d columns", n, len(vehicleTable.columns))
	}
	if n := len(authorityTable.values(&domain.Authority{})); n != len(authorityTable.columns) {
		t.Fatalf("authorities: %d values for %d columns", n, len(authorityTable.columns))
	}
	if n := len(licenseTable.values(&domain.License{})); n != len(licenseTable.columns) {
		t.Fatalf("licenses: %d values for %d columns", n, len(licenseTable.columns))
	}
}

func TestAuditRepositoryList(t *testing.T) {
	mockPool := newMockPool(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	created := start.Add(time.Hour)

	mockPool.ExpectQuery(`FROM audit_logs\s+WHERE 1=1 AND identity = \$1 AND resource_type = \$2 AND created_at >= \$3 ORDER BY created_at DESC, id DESC LIMIT \$4 OFFSET \$5`).
		WithArgs("0xsuper", "licenses", start, 10, 20).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "identity", "action", "resource_type", "resource_id", "request_id",
			"before_state", "after_state", "status", "error_message", "created_at",
		}).AddRow("a1", "0xsuper", "licenses.create", "licenses", "l1", "req-1",
			[]byte(nil), []byte(`{"status":"active"}`), "success", "", created))

	repo := NewAuditRepository(mockPool)
	logs, err := repo.List(context.Background(), domain.AuditFilter{
		Identity:     "0xSUPER",
		ResourceType: domain.ResourceLicenses,
		StartDate:    &start,
		Limit:        10,
		Offset:       20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
	if logs[0].Action != domain.AuditActionOf(domain.ResourceLicenses, domain.AuditVerbCreate) {
		t.Fatalf("unexpected action: %s", logs[0].Action)
	}
	if logs[0].AfterState["status"] != "active" {
		t.Fatalf("after state not decoded: %v", logs[0].AfterState)
	}

	assertExpectations(t, mockPool)
}

func TestAuditRepositoryCreateAssignsID(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectExec(`INSERT INTO audit_logs`).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	entry := &domain.AuditLog{Identity: "0xsuper", Action: domain.AuditActionSessionOpen, Status: domain.AuditStatusSuccess}
	if err := NewAuditRepository(mockPool).Create(context.Background(), entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.ID == "" {
		t.Fatalf("expected generated id")
	}

	assertExpectations(t, mockPool)
}
