// Package memory keeps records in process memory. It backs the console when
// no database is configured and serves as the fixture store in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iho/trafficadmin/internal/domain"
)

// RecordRepository is a concurrency-safe in-memory store for one record type.
type RecordRepository[T domain.Record] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string

	clone func(T) T
	key   func(T) string
}

func newRecordRepository[T domain.Record](clone func(T) T, key func(T) string, seed []T) *RecordRepository[T] {
	r := &RecordRepository[T]{
		items: make(map[string]T),
		clone: clone,
		key:   key,
	}
	for _, item := range seed {
		r.items[item.RecordID()] = clone(item)
		r.order = append(r.order, item.RecordID())
	}
	return r
}

// List returns copies of every record in insertion order.
func (r *RecordRepository[T]) List(_ context.Context) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.clone(r.items[id]))
	}
	return out, nil
}

// GetByID returns a copy of the record.
func (r *RecordRepository[T]) GetByID(_ context.Context, id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		var zero T
		return zero, domain.ErrRecordNotFound
	}
	return r.clone(item), nil
}

// Create stores a new record. Ids and natural keys must be unique.
func (r *RecordRepository[T]) Create(_ context.Context, record T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := record.RecordID()
	if _, exists := r.items[id]; exists {
		return fmt.Errorf("%w: id %s", domain.ErrDuplicateRecord, id)
	}
	if err := r.checkKey(record, ""); err != nil {
		return err
	}

	r.items[id] = r.clone(record)
	r.order = append(r.order, id)
	return nil
}

// Update replaces a stored record.
func (r *RecordRepository[T]) Update(_ context.Context, record T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := record.RecordID()
	if _, exists := r.items[id]; !exists {
		return domain.ErrRecordNotFound
	}
	if err := r.checkKey(record, id); err != nil {
		return err
	}

	r.items[id] = r.clone(record)
	return nil
}

// Delete removes a record.
func (r *RecordRepository[T]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return domain.ErrRecordNotFound
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of stored records.
func (r *RecordRepository[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// checkKey must be called with the lock held.
func (r *RecordRepository[T]) checkKey(record T, self string) error {
	if r.key == nil {
		return nil
	}
	key := r.key(record)
	if key == "" {
		return nil
	}
	for id, existing := range r.items {
		if id != self && r.key(existing) == key {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, key)
		}
	}
	return nil
}

// NewLicenseRepository creates a license store keyed by license number.
func NewLicenseRepository(seed []*domain.License) *RecordRepository[*domain.License] {
	return newRecordRepository(cloneLicense, func(l *domain.License) string { return l.LicenseNumber }, seed)
}

// NewVehicleRepository creates a vehicle store keyed by plate number.
func NewVehicleRepository(seed []*domain.Vehicle) *RecordRepository[*domain.Vehicle] {
	return newRecordRepository(cloneVehicle, func(v *domain.Vehicle) string { return strings.ToUpper(v.PlateNumber) }, seed)
}

// NewViolationRepository creates a violation store. Violations have no
// natural key.
func NewViolationRepository(seed []*domain.Violation) *RecordRepository[*domain.Violation] {
	return newRecordRepository(cloneViolation, nil, seed)
}

// NewAuthorityRepository creates an authority store keyed by code.
func NewAuthorityRepository(seed []*domain.Authority) *RecordRepository[*domain.Authority] {
	return newRecordRepository(cloneAuthority, func(a *domain.Authority) string { return strings.ToUpper(a.Code) }, seed)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneLicense(l *domain.License) *domain.License {
	c := *l
	c.City = cloneString(l.City)
	return &c
}

func cloneVehicle(v *domain.Vehicle) *domain.Vehicle {
	c := *v
	c.City = cloneString(v.City)
	return &c
}

func cloneViolation(v *domain.Violation) *domain.Violation {
	c := *v
	c.City = cloneString(v.City)
	c.PaidAt = cloneTime(v.PaidAt)
	return &c
}

func cloneAuthority(a *domain.Authority) *domain.Authority {
	c := *a
	c.City = cloneString(a.City)
	c.EstablishedDate = cloneTime(a.EstablishedDate)
	return &c
}

// AuditRepository keeps audit entries in memory, newest last.
type AuditRepository struct {
	mu   sync.RWMutex
	logs []domain.AuditLog
}

// NewAuditRepository creates an empty audit store.
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Create appends an entry.
func (r *AuditRepository) Create(_ context.Context, log *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *log)
	return nil
}

// List returns matching entries, newest first, paged by the filter.
func (r *AuditRepository) List(_ context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.AuditLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		if filter.Matches(&r.logs[i]) {
			entry := r.logs[i]
			matched = append(matched, &entry)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*domain.AuditLog{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, nil
}
