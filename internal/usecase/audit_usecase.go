package usecase

import (
	"context"
	"fmt"

	"github.com/iho/trafficadmin/internal/domain"
)

// AuditUseCase exposes the audit trail to administrators.
type AuditUseCase struct {
	auditRepo AuditRepository
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(auditRepo AuditRepository) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo}
}

// List returns audit entries, newest first. It requires settings.view.
func (uc *AuditUseCase) List(ctx context.Context, caller Caller, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if !caller.Permission.Has(domain.CapViewSettings) {
		return nil, fmt.Errorf("%w: %s required", domain.ErrAccessDenied, domain.CapViewSettings)
	}

	filter.Limit, filter.Offset, _ = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.auditRepo.List(ctx, filter)
}
