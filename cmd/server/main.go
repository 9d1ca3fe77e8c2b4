package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/trafficadmin/internal/adapter/http"
	"github.com/iho/trafficadmin/internal/adapter/http/dto"
	"github.com/iho/trafficadmin/internal/adapter/http/handler"
	"github.com/iho/trafficadmin/internal/adapter/http/middleware"
	"github.com/iho/trafficadmin/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/trafficadmin/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/trafficadmin/internal/adapter/repository/redis"
	"github.com/iho/trafficadmin/internal/adapter/repository/seed"
	"github.com/iho/trafficadmin/internal/domain"
	"github.com/iho/trafficadmin/internal/infrastructure/auth"
	"github.com/iho/trafficadmin/internal/infrastructure/config"
	"github.com/iho/trafficadmin/internal/infrastructure/logger"
	"github.com/iho/trafficadmin/internal/infrastructure/metrics"
	"github.com/iho/trafficadmin/internal/infrastructure/postgres"
	"github.com/iho/trafficadmin/internal/infrastructure/redis"
	"github.com/iho/trafficadmin/internal/infrastructure/registry"
	"github.com/iho/trafficadmin/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	logger.SetGlobal(logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	app, err := newApplication(ctx, cfg, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		return err
	}
	defer app.Close()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      app.router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go app.limiter.RunCleanup(ctx, time.Minute)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// application is the wired server and the resources it owns.
type application struct {
	router  http.Handler
	limiter *middleware.RateLimiter
	closers []func()
}

// Close releases storage and cache connections.
func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// repositories is one storage backend.
type repositories struct {
	licenses    usecase.RecordRepository[*domain.License]
	vehicles    usecase.RecordRepository[*domain.Vehicle]
	violations  usecase.RecordRepository[*domain.Violation]
	authorities usecase.RecordRepository[*domain.Authority]
	audit       usecase.AuditRepository
}

func newApplication(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*application, error) {
	app := &application{}

	loaded, err := registry.Load(cfg.RegistryPath)
	if err != nil {
		return nil, err
	}
	log.Info().Int("identities", loaded.Registry.Len()).Msg("loaded identity registry")

	m := metrics.NewWithRegistry(reg)
	checks := map[string]handler.HealthCheck{}

	var repos repositories
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, pool.Close)
		checks["postgres"] = pool.Ping

		repos, err = postgresRepositories(ctx, cfg, pool)
		if err != nil {
			app.Close()
			return nil, err
		}
	default:
		repos = memoryRepositories(cfg.SeedData)
		log.Info().Bool("seeded", cfg.SeedData).Msg("using in-memory storage")
	}

	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
	)
	if cfg.RedisURL != "" {
		client, err := redis.NewClientWithConfig(ctx, redis.Config{
			URL:         cfg.RedisURL,
			PoolSize:    cfg.RedisPoolSize,
			DialTimeout: cfg.RedisDialTimeout,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.closers = append(app.closers, func() { _ = client.Close() })
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }

		cache = redisRepo.NewCache(client, redisRepo.DefaultCachePrefix)
		idempotencyStore = redisRepo.NewIdempotencyStore(client)
		log.Info().Msg("connected to redis")
	}

	idGen := postgresRepo.NewULIDGenerator()
	sessions := auth.NewJWTManager(cfg.SessionSecret, cfg.SessionTTL)

	// Initialize use cases
	accessUC := usecase.NewAccessUseCase(loaded.Registry, domain.UnknownIdentityPolicy(cfg.UnknownIdentityPolicy),
		sessions, repos.audit, idGen, m)
	auditUC := usecase.NewAuditUseCase(repos.audit)

	licenseUC := usecase.NewRecordUseCase(usecase.RecordDeps[*domain.License]{
		Resource: domain.ResourceLicenses, Schema: domain.LicenseSchema, Repo: repos.licenses,
		Catalog: loaded.Catalog, IDGen: idGen, Audit: repos.audit, Cache: cache, StatsTTL: cfg.StatsCacheTTL, Metrics: m,
	})
	vehicleUC := usecase.NewRecordUseCase(usecase.RecordDeps[*domain.Vehicle]{
		Resource: domain.ResourceVehicles, Schema: domain.VehicleSchema, Repo: repos.vehicles,
		Catalog: loaded.Catalog, IDGen: idGen, Audit: repos.audit, Cache: cache, StatsTTL: cfg.StatsCacheTTL, Metrics: m,
	})
	violationUC := usecase.NewRecordUseCase(usecase.RecordDeps[*domain.Violation]{
		Resource: domain.ResourceViolations, Schema: domain.ViolationSchema, Repo: repos.violations,
		Catalog: loaded.Catalog, IDGen: idGen, Audit: repos.audit, Cache: cache, StatsTTL: cfg.StatsCacheTTL, Metrics: m,
	})
	authorityUC := usecase.NewRecordUseCase(usecase.RecordDeps[*domain.Authority]{
		Resource: domain.ResourceAuthorities, Schema: domain.AuthoritySchema, Repo: repos.authorities,
		Catalog: loaded.Catalog, IDGen: idGen, Audit: repos.audit, Cache: cache, StatsTTL: cfg.StatsCacheTTL, Metrics: m,
	})

	app.limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	requestLogger := log.Logger.With().Str("component", "http").Logger()

	// Create router
	app.router = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		SessionHandler:   handler.NewSessionHandler(accessUC),
		AuditHandler:     handler.NewAuditHandler(auditUC, accessUC),
		HealthHandler:    handler.NewHealthHandler(checks),
		Licenses:         handler.NewRecordHandler[*domain.License](licenseUC, accessUC, dto.DecodeLicense, dto.LicenseFromDomain),
		Vehicles:         handler.NewRecordHandler[*domain.Vehicle](vehicleUC, accessUC, dto.DecodeVehicle, dto.VehicleFromDomain),
		Violations:       handler.NewRecordHandler[*domain.Violation](violationUC, accessUC, dto.DecodeViolation, dto.ViolationFromDomain),
		Authorities:      handler.NewRecordHandler[*domain.Authority](authorityUC, accessUC, dto.DecodeAuthority, dto.AuthorityFromDomain),
		Verifier:         accessUC,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      app.limiter,
		Metrics:          m,
		MetricsGatherer:  gatherer,
		Logger:           &requestLogger,
	})

	return app, nil
}

func memoryRepositories(seeded bool) repositories {
	if !seeded {
		return repositories{
			licenses:    memory.NewLicenseRepository(nil),
			vehicles:    memory.NewVehicleRepository(nil),
			violations:  memory.NewViolationRepository(nil),
			authorities: memory.NewAuthorityRepository(nil),
			audit:       memory.NewAuditRepository(),
		}
	}
	return repositories{
		licenses:    memory.NewLicenseRepository(seed.Licenses()),
		vehicles:    memory.NewVehicleRepository(seed.Vehicles()),
		violations:  memory.NewViolationRepository(seed.Violations()),
		authorities: memory.NewAuthorityRepository(seed.Authorities()),
		audit:       memory.NewAuditRepository(),
	}
}

func openPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	return pool, nil
}

func postgresRepositories(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (repositories, error) {
	licenses := postgresRepo.NewLicenseRepository(pool)
	vehicles := postgresRepo.NewVehicleRepository(pool)
	violations := postgresRepo.NewViolationRepository(pool)
	authorities := postgresRepo.NewAuthorityRepository(pool)

	if cfg.SeedData {
		txManager := postgresRepo.NewTxManager(pool)
		if err := seedPostgres(ctx, txManager, licenses, vehicles, violations, authorities); err != nil {
			return repositories{}, err
		}
	}

	return repositories{
		licenses:    licenses,
		vehicles:    vehicles,
		violations:  violations,
		authorities: authorities,
		audit:       postgresRepo.NewAuditRepository(pool),
	}, nil
}

func seedPostgres(
	ctx context.Context,
	txManager *postgresRepo.TxManager,
	licenses *postgresRepo.RecordRepository[*domain.License],
	vehicles *postgresRepo.RecordRepository[*domain.Vehicle],
	violations *postgresRepo.RecordRepository[*domain.Violation],
	authorities *postgresRepo.RecordRepository[*domain.Authority],
) error {
	if _, err := postgresRepo.Seed(ctx, txManager, licenses, seed.Licenses()); err != nil {
		return fmt.Errorf("failed to seed licenses: %w", err)
	}
	if _, err := postgresRepo.Seed(ctx, txManager, vehicles, seed.Vehicles()); err != nil {
		return fmt.Errorf("failed to seed vehicles: %w", err)
	}
	if _, err := postgresRepo.Seed(ctx, txManager, violations, seed.Violations()); err != nil {
		return fmt.Errorf("failed to seed violations: %w", err)
	}
	if _, err := postgresRepo.Seed(ctx, txManager, authorities, seed.Authorities()); err != nil {
		return fmt.Errorf("failed to seed authorities: %w", err)
	}
	return nil
}
