//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/iho/trafficadmin/internal/adapter/repository/seed"
	"github.com/iho/trafficadmin/internal/domain"
	infrapg "github.com/iho/trafficadmin/internal/infrastructure/postgres"
)

// Run with: go test -tags=integration ./internal/adapter/repository/postgres/...
func newIntegrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("trafficadmin"),
		tcpostgres.WithUsername("trafficadmin"),
		tcpostgres.WithPassword("trafficadmin"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	if err := infrapg.RunMigrations(url, ""); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := infrapg.NewPool(ctx, url, 4, 1)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestIntegrationSeedAndQuery(t *testing.T) {
	pool := newIntegrationPool(t)
	ctx := context.Background()
	tm := NewTxManager(pool)

	licenses := NewLicenseRepository(pool)
	violations := NewViolationRepository(pool)
	authorities := NewAuthorityRepository(pool)

	if n, err := Seed(ctx, tm, licenses, seed.Licenses()); err != nil || n != len(seed.Licenses()) {
		t.Fatalf("seed licenses: n=%d err=%v", n, err)
	}
	if n, err := Seed(ctx, tm, licenses, seed.Licenses()); err != nil || n != 0 {
		t.Fatalf("second seed must be a no-op: n=%d err=%v", n, err)
	}
	if _, err := Seed(ctx, tm, violations, seed.Violations()); err != nil {
		t.Fatalf("seed violations: %v", err)
	}
	if _, err := Seed(ctx, tm, authorities, seed.Authorities()); err != nil {
		t.Fatalf("seed authorities: %v", err)
	}

	items, err := licenses.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != len(seed.Licenses()) || items[0].ID != "lic-001" {
		t.Fatalf("unexpected list order: %d items", len(items))
	}

	hanoi := domain.FilterByScope(domain.ScopeHanoi, domain.DefaultScopeCatalog(), items)
	if len(hanoi) != 2 {
		t.Fatalf("expected 2 Hanoi licenses, got %d", len(hanoi))
	}

	dup := seed.Licenses()[0]
	dup.ID = "lic-dup"
	if err := licenses.Create(ctx, dup); !errors.Is(err, domain.ErrDuplicateRecord) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	paid, err := violations.GetByID(ctx, "vio-001")
	if err != nil {
		t.Fatalf("get violation: %v", err)
	}
	if paid.PaidAt == nil || paid.FineAmount.String() != "4000000" {
		t.Fatalf("violation not round-tripped: %+v", paid)
	}

	audit := NewAuditRepository(pool)
	entry := &domain.AuditLog{
		Identity:   "0xsuper",
		Action:     domain.AuditActionOf(domain.ResourceLicenses, domain.AuditVerbDelete),
		AfterState: domain.JSON{"id": "lic-001"},
		Status:     domain.AuditStatusSuccess,
		CreatedAt:  time.Now().UTC(),
	}
	if err := audit.Create(ctx, entry); err != nil {
		t.Fatalf("audit create: %v", err)
	}
	logs, err := audit.List(ctx, domain.AuditFilter{Identity: "0xsuper", Limit: 10})
	if err != nil || len(logs) != 1 {
		t.Fatalf("audit list: %d logs, err=%v", len(logs), err)
	}
}
