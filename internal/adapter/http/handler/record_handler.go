package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/trafficadmin/internal/adapter/http/dto"
	"github.com/iho/trafficadmin/internal/domain"
	"github.com/iho/trafficadmin/internal/usecase"
)

// RecordService defines the behavior needed by RecordHandler.
type RecordService[T domain.Record] interface {
	Resource() domain.Resource
	List(ctx context.Context, caller usecase.Caller, req domain.QueryRequest) (domain.QueryResult[T], error)
	Get(ctx context.Context, caller usecase.Caller, id string) (T, error)
	Create(ctx context.Context, caller usecase.Caller, record T) (T, error)
	Update(ctx context.Context, caller usecase.Caller, id string, record T) (T, error)
	Delete(ctx context.Context, caller usecase.Caller, id string) error
	Stats(ctx context.Context, caller usecase.Caller) (domain.RecordStats, error)
}

// RecordHandler serves the CRUD and listing endpoints of one resource.
type RecordHandler[T domain.Record, R any] struct {
	service  RecordService[T]
	resolver PermissionResolver
	decode   func(io.Reader) (T, error)
	encode   func(T) R
}

// NewRecordHandler creates a new RecordHandler. decode reads a request body
// into a record; encode renders a record for responses.
func NewRecordHandler[T domain.Record, R any](
	service RecordService[T],
	resolver PermissionResolver,
	decode func(io.Reader) (T, error),
	encode func(T) R,
) *RecordHandler[T, R] {
	return &RecordHandler[T, R]{
		service:  service,
		resolver: resolver,
		decode:   decode,
		encode:   encode,
	}
}

// Routes mounts the handler on r.
func (h *RecordHandler[T, R]) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/stats", h.Stats)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *RecordHandler[T, R]) op(name string) string {
	return string(h.service.Resource()) + "." + name
}

// List returns one page of the records visible to the caller.
func (h *RecordHandler[T, R]) List(w http.ResponseWriter, r *http.Request) {
	op := h.op("list")

	req, err := parseQueryRequest(r)
	if err != nil {
		respondError(w, op, err)
		return
	}

	result, err := h.service.List(r.Context(), callerFrom(r, h.resolver), req)
	if err != nil {
		respondError(w, op, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.PageFromDomain(result, h.encode), "")
}

// Get returns a single record.
func (h *RecordHandler[T, R]) Get(w http.ResponseWriter, r *http.Request) {
	op := h.op("get")

	record, err := h.service.Get(r.Context(), callerFrom(r, h.resolver), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, op, err)
		return
	}

	writeSuccess(w, http.StatusOK, h.encode(record), "")
}

// Create adds a record.
func (h *RecordHandler[T, R]) Create(w http.ResponseWriter, r *http.Request) {
	op := h.op("create")

	record, err := h.decode(r.Body)
	if err != nil {
		respondError(w, op, err)
		return
	}

	created, err := h.service.Create(r.Context(), callerFrom(r, h.resolver), record)
	if err != nil {
		respondError(w, op, err)
		return
	}

	writeSuccess(w, http.StatusCreated, h.encode(created), "created")
}

// Update replaces a record.
func (h *RecordHandler[T, R]) Update(w http.ResponseWriter, r *http.Request) {
	op := h.op("update")

	record, err := h.decode(r.Body)
	if err != nil {
		respondError(w, op, err)
		return
	}

	updated, err := h.service.Update(r.Context(), callerFrom(r, h.resolver), chi.URLParam(r, "id"), record)
	if err != nil {
		respondError(w, op, err)
		return
	}

	writeSuccess(w, http.StatusOK, h.encode(updated), "updated")
}

// Delete removes a record.
func (h *RecordHandler[T, R]) Delete(w http.ResponseWriter, r *http.Request) {
	op := h.op("delete")

	if err := h.service.Delete(r.Context(), callerFrom(r, h.resolver), chi.URLParam(r, "id")); err != nil {
		respondError(w, op, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, "deleted")
}

// Stats returns the aggregate counters of the caller's scope.
func (h *RecordHandler[T, R]) Stats(w http.ResponseWriter, r *http.Request) {
	op := h.op("stats")

	stats, err := h.service.Stats(r.Context(), callerFrom(r, h.resolver))
	if err != nil {
		respondError(w, op, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.StatsFromDomain(stats), "")
}
