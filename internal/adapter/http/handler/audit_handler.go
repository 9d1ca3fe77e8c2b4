package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/iho/trafficadmin/internal/adapter/http/dto"
	"github.com/iho/trafficadmin/internal/domain"
	"github.com/iho/trafficadmin/internal/usecase"
)

// AuditService defines the behavior needed by AuditHandler.
type AuditService interface {
	List(ctx context.Context, caller usecase.Caller, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// AuditHandler serves the audit trail.
type AuditHandler struct {
	auditUC  AuditService
	resolver PermissionResolver
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditUC AuditService, resolver PermissionResolver) *AuditHandler {
	return &AuditHandler{auditUC: auditUC, resolver: resolver}
}

// List returns audit entries matching the query parameters.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "audit-logs.list"

	filter, err := parseAuditFilter(r)
	if err != nil {
		respondError(w, op, err)
		return
	}

	logs, err := h.auditUC.List(r.Context(), callerFrom(r, h.resolver), filter)
	if err != nil {
		respondError(w, op, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.AuditLogsFromDomain(logs), "")
}

func parseAuditFilter(r *http.Request) (domain.AuditFilter, error) {
	q := r.URL.Query()

	filter := domain.AuditFilter{
		Identity:     q.Get("identity"),
		Action:       domain.AuditAction(q.Get("action")),
		ResourceType: domain.Resource(q.Get("resourceType")),
		ResourceID:   q.Get("resourceId"),
	}

	var err error
	if filter.Limit, err = parseIntQuery(r, "limit", 0); err != nil {
		return filter, err
	}
	if filter.Offset, err = parseIntQuery(r, "offset", 0); err != nil {
		return filter, err
	}
	if filter.StartDate, err = parseTimeQuery(r, "from"); err != nil {
		return filter, err
	}
	if filter.EndDate, err = parseTimeQuery(r, "to"); err != nil {
		return filter, err
	}

	return filter, nil
}

func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an RFC 3339 timestamp", domain.ErrInvalidQuery, key)
	}
	return &t, nil
}
