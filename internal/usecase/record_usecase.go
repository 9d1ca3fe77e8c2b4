package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iho/trafficadmin/internal/domain"
	"github.com/iho/trafficadmin/internal/infrastructure/metrics"
)

// Caller is the resolved party behind an operation.
type Caller struct {
	Identity   string
	Connected  bool
	Permission domain.Permission
	RequestID  string
}

func (c Caller) auditIdentity() string {
	if !c.Connected || c.Identity == "" {
		return systemIdentity
	}
	return domain.NormalizeIdentity(c.Identity)
}

// RecordDeps are the collaborators of a RecordUseCase. Audit, Cache and
// Metrics are optional.
type RecordDeps[T domain.Record] struct {
	Resource domain.Resource
	Schema   domain.Schema[T]
	Repo     RecordRepository[T]
	Catalog  domain.ScopeCatalog
	IDGen    IDGenerator
	Audit    AuditRepository
	Cache    Cache
	StatsTTL time.Duration
	Metrics  *metrics.Metrics
}

// RecordUseCase serves scoped listings and guarded writes for one resource.
type RecordUseCase[T domain.Record] struct {
	resource  domain.Resource
	schema    domain.Schema[T]
	repo      RecordRepository[T]
	catalog   domain.ScopeCatalog
	idGen     IDGenerator
	auditRepo AuditRepository
	cache     Cache
	statsTTL  time.Duration
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewRecordUseCase creates a new RecordUseCase.
func NewRecordUseCase[T domain.Record](deps RecordDeps[T]) *RecordUseCase[T] {
	if deps.Catalog == nil {
		deps.Catalog = domain.DefaultScopeCatalog()
	}
	if deps.StatsTTL <= 0 {
		deps.StatsTTL = DefaultStatsCacheTTL
	}

	return &RecordUseCase[T]{
		resource:  deps.Resource,
		schema:    deps.Schema,
		repo:      deps.Repo,
		catalog:   deps.Catalog,
		idGen:     deps.IDGen,
		auditRepo: deps.Audit,
		cache:     deps.Cache,
		statsTTL:  deps.StatsTTL,
		metrics:   deps.Metrics,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Resource returns the resource served by the use case.
func (uc *RecordUseCase[T]) Resource() domain.Resource {
	return uc.resource
}

// Schema returns the query schema of the resource.
func (uc *RecordUseCase[T]) Schema() domain.Schema[T] {
	return uc.schema
}

// List returns one page of the records visible to the caller.
// An empty scoped set is a successful, empty page.
func (uc *RecordUseCase[T]) List(ctx context.Context, caller Caller, req domain.QueryRequest) (domain.QueryResult[T], error) {
	if err := uc.authorize(caller.Permission, domain.ActionView); err != nil {
		return domain.QueryResult[T]{}, err
	}

	req = domain.NormalizeQuery(req)
	if err := uc.schema.Validate(req); err != nil {
		return domain.QueryResult[T]{}, err
	}

	scoped, err := uc.scopedSnapshot(ctx, caller.Permission)
	if err != nil {
		return domain.QueryResult[T]{}, err
	}

	result := domain.Query(scoped, req, uc.schema)

	if uc.metrics != nil {
		uc.metrics.QueriesServed.WithLabelValues(string(uc.resource), string(caller.Permission.LocationScope())).Inc()
		uc.metrics.QueryRows.WithLabelValues(string(uc.resource)).Observe(float64(result.Pagination.Total))
	}

	return result, nil
}

// Get returns a single record. A record outside the caller's scope is
// reported as not found.
func (uc *RecordUseCase[T]) Get(ctx context.Context, caller Caller, id string) (T, error) {
	var zero T
	if err := uc.authorize(caller.Permission, domain.ActionView); err != nil {
		return zero, err
	}

	record, err := uc.visible(ctx, caller.Permission, id)
	if err != nil {
		return zero, err
	}

	return record, nil
}

// Create stores a new record. The record must validate and, under a regional
// scope, be located inside it.
func (uc *RecordUseCase[T]) Create(ctx context.Context, caller Caller, record T) (T, error) {
	var zero T
	if err := uc.authorize(caller.Permission, domain.ActionEdit); err != nil {
		return zero, err
	}

	if err := record.Validate(); err != nil {
		return zero, err
	}

	if !domain.InScope(caller.Permission.LocationScope(), uc.catalog, record) {
		return zero, uc.outOfScope(caller.Permission)
	}

	now := uc.now()
	record.SetRecordID(uc.idGen.Generate())
	record.SetTimestamps(now, now)

	if err := uc.repo.Create(ctx, record); err != nil {
		uc.audit(ctx, caller, domain.AuditVerbCreate, record.RecordID(), nil, record, err)
		return zero, err
	}

	uc.afterWrite(ctx, caller, domain.AuditVerbCreate, record.RecordID(), nil, record)

	return record, nil
}

// Update replaces a record. Both the stored and the new version must be
// inside the caller's scope.
func (uc *RecordUseCase[T]) Update(ctx context.Context, caller Caller, id string, record T) (T, error) {
	var zero T
	if err := uc.authorize(caller.Permission, domain.ActionEdit); err != nil {
		return zero, err
	}

	existing, err := uc.visible(ctx, caller.Permission, id)
	if err != nil {
		return zero, err
	}

	if err := record.Validate(); err != nil {
		return zero, err
	}

	if !domain.InScope(caller.Permission.LocationScope(), uc.catalog, record) {
		return zero, uc.outOfScope(caller.Permission)
	}

	createdAt, _ := existing.Timestamps()
	record.SetRecordID(existing.RecordID())
	record.SetTimestamps(createdAt, uc.now())

	if err := uc.repo.Update(ctx, record); err != nil {
		uc.audit(ctx, caller, domain.AuditVerbUpdate, id, existing, record, err)
		return zero, err
	}

	uc.afterWrite(ctx, caller, domain.AuditVerbUpdate, id, existing, record)

	return record, nil
}

// Delete removes a record inside the caller's scope.
func (uc *RecordUseCase[T]) Delete(ctx context.Context, caller Caller, id string) error {
	if err := uc.authorize(caller.Permission, domain.ActionEdit); err != nil {
		return err
	}

	existing, err := uc.visible(ctx, caller.Permission, id)
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.audit(ctx, caller, domain.AuditVerbDelete, id, existing, nil, err)
		return err
	}

	uc.afterWrite(ctx, caller, domain.AuditVerbDelete, id, existing, nil)

	return nil
}

// Stats summarizes the records visible to the caller. Results are cached per
// resource and scope.
func (uc *RecordUseCase[T]) Stats(ctx context.Context, caller Caller) (domain.RecordStats, error) {
	if err := uc.authorize(caller.Permission, domain.ActionView); err != nil {
		return domain.RecordStats{}, err
	}

	scope := caller.Permission.LocationScope()
	key := uc.statsKey(scope)

	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, key); err == nil {
			var stats domain.RecordStats
			if err := json.Unmarshal(data, &stats); err == nil {
				uc.countCache("hit")
				return stats, nil
			}
		}
		uc.countCache("miss")
	}

	scoped, err := uc.scopedSnapshot(ctx, caller.Permission)
	if err != nil {
		return domain.RecordStats{}, err
	}

	stats := domain.ComputeStats(scoped)

	if uc.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := uc.cache.Set(ctx, key, data, uc.statsTTL); err != nil {
				log.Warn().Err(err).Str("resource", string(uc.resource)).Msg("failed to cache stats")
			}
		}
	}

	return stats, nil
}

func (uc *RecordUseCase[T]) authorize(p domain.Permission, action domain.Action) error {
	if p.Can(uc.resource, action) {
		return nil
	}

	capability := domain.CapabilityOf(uc.resource, action)
	if uc.metrics != nil {
		uc.metrics.AccessDenied.WithLabelValues(string(capability)).Inc()
	}

	return fmt.Errorf("%w: %s required", domain.ErrAccessDenied, capability)
}

func (uc *RecordUseCase[T]) outOfScope(p domain.Permission) error {
	if uc.metrics != nil {
		uc.metrics.AccessDenied.WithLabelValues("scope:" + string(p.LocationScope())).Inc()
	}
	return fmt.Errorf("%w: scope %s", domain.ErrOutOfScope, p.LocationScope())
}

func (uc *RecordUseCase[T]) scopedSnapshot(ctx context.Context, p domain.Permission) ([]T, error) {
	items, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", uc.resource, err)
	}

	scoped := domain.FilterByScope(p.LocationScope(), uc.catalog, items)

	if uc.metrics != nil && len(scoped) < len(items) {
		uc.metrics.ScopeFiltered.WithLabelValues(string(uc.resource), string(p.LocationScope())).
			Add(float64(len(items) - len(scoped)))
	}

	return scoped, nil
}

func (uc *RecordUseCase[T]) visible(ctx context.Context, p domain.Permission, id string) (T, error) {
	var zero T

	record, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}

	if !domain.InScope(p.LocationScope(), uc.catalog, record) {
		return zero, fmt.Errorf("%w: %s %s", domain.ErrRecordNotFound, uc.resource, id)
	}

	return record, nil
}

func (uc *RecordUseCase[T]) afterWrite(ctx context.Context, caller Caller, verb, id string, before, after any) {
	if uc.metrics != nil {
		uc.metrics.RecordWrites.WithLabelValues(string(uc.resource), verb).Inc()
	}

	uc.invalidateStats(ctx)
	uc.audit(ctx, caller, verb, id, before, after, nil)
}

func (uc *RecordUseCase[T]) invalidateStats(ctx context.Context) {
	if uc.cache == nil {
		return
	}

	scopes := uc.catalog.Scopes()
	keys := make([]string, 0, len(scopes)+1)
	for _, scope := range scopes {
		keys = append(keys, uc.statsKey(scope))
	}
	keys = append(keys, uc.statsKey(domain.ScopeNone))

	if err := uc.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Str("resource", string(uc.resource)).Msg("failed to invalidate stats cache")
	}
}

func (uc *RecordUseCase[T]) statsKey(scope domain.LocationScope) string {
	return "stats:" + string(uc.resource) + ":" + string(scope)
}

func (uc *RecordUseCase[T]) countCache(result string) {
	if uc.metrics != nil {
		uc.metrics.StatsCache.WithLabelValues(string(uc.resource), result).Inc()
	}
}

// audit records the outcome of a write. Audit failures never fail the write.
func (uc *RecordUseCase[T]) audit(ctx context.Context, caller Caller, verb, id string, before, after any, opErr error) {
	if uc.auditRepo == nil {
		return
	}

	entry := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		Identity:     caller.auditIdentity(),
		Action:       domain.AuditActionOf(uc.resource, verb),
		ResourceType: uc.resource,
		ResourceID:   id,
		RequestID:    caller.RequestID,
		Status:       domain.AuditStatusSuccess,
		CreatedAt:    uc.now(),
	}
	if before != nil {
		entry.BeforeState = domain.MarshalState(before)
	}
	if after != nil {
		entry.AfterState = domain.MarshalState(after)
	}
	if opErr != nil {
		entry.Status = domain.AuditStatusError
		entry.ErrorMessage = opErr.Error()
	}

	status := entry.Status
	if err := uc.auditRepo.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", string(entry.Action)).Str("resource_id", id).Msg("failed to write audit log")
		status = domain.AuditStatusFailure
	}

	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(string(entry.Action), string(status)).Inc()
	}
}
