package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iho/trafficadmin/internal/domain"
	"github.com/iho/trafficadmin/internal/infrastructure/metrics"
)

// MaxIdentityLength bounds the identities accepted when opening a session.
const MaxIdentityLength = 128

// Session is an issued session token and the permission it resolves to.
type Session struct {
	Token      string
	ExpiresAt  time.Time
	Identity   string
	Permission domain.Permission
}

// AccessUseCase resolves identities into permissions, menus and profiles.
type AccessUseCase struct {
	registry  domain.Registry
	policy    domain.UnknownIdentityPolicy
	sessions  SessionManager
	menu      []domain.MenuItem
	auditRepo AuditRepository
	idGen     IDGenerator
	metrics   *metrics.Metrics
}

// NewAccessUseCase creates a new AccessUseCase. An invalid policy falls back
// to UnknownIdentityViewer.
func NewAccessUseCase(
	registry domain.Registry,
	policy domain.UnknownIdentityPolicy,
	sessions SessionManager,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccessUseCase {
	if !policy.IsValid() {
		policy = domain.UnknownIdentityViewer
	}

	return &AccessUseCase{
		registry:  registry,
		policy:    policy,
		sessions:  sessions,
		menu:      domain.DefaultMenu(),
		auditRepo: auditRepo,
		idGen:     idGen,
		metrics:   metrics,
	}
}

// OpenSession issues a session token for a connected identity.
func (uc *AccessUseCase) OpenSession(ctx context.Context, identity string) (*Session, error) {
	normalized := domain.NormalizeIdentity(identity)
	if normalized == "" {
		return nil, fmt.Errorf("%w: identity is required", domain.ErrInvalidIdentity)
	}
	if len(normalized) > MaxIdentityLength {
		return nil, fmt.Errorf("%w: identity exceeds %d characters", domain.ErrInvalidIdentity, MaxIdentityLength)
	}

	token, expiresAt, err := uc.sessions.Generate(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	perm := uc.Permission(normalized, true)

	if uc.metrics != nil {
		uc.metrics.SessionsOpened.WithLabelValues(string(perm.Role())).Inc()
	}

	if uc.auditRepo != nil && uc.idGen != nil {
		entry := &domain.AuditLog{
			ID:         uc.idGen.Generate(),
			Identity:   normalized,
			Action:     domain.AuditActionSessionOpen,
			AfterState: domain.JSON{"role": string(perm.Role()), "location_scope": string(perm.LocationScope())},
			Status:     domain.AuditStatusSuccess,
			CreatedAt:  time.Now().UTC(),
		}
		if err := uc.auditRepo.Create(ctx, entry); err != nil {
			log.Error().Err(err).Str("identity", normalized).Msg("failed to write audit log")
		}
	}

	return &Session{
		Token:      token,
		ExpiresAt:  expiresAt,
		Identity:   normalized,
		Permission: perm,
	}, nil
}

// Authenticate verifies a session token and returns its identity.
func (uc *AccessUseCase) Authenticate(token string) (string, error) {
	identity, err := uc.sessions.Verify(token)
	if err != nil {
		return "", err
	}
	return identity, nil
}

// Permission resolves an identity. It never fails.
func (uc *AccessUseCase) Permission(identity string, connected bool) domain.Permission {
	perm := domain.ResolveWithPolicy(identity, connected, uc.registry, uc.policy)

	if uc.metrics != nil {
		uc.metrics.PermissionRoles.WithLabelValues(string(perm.Role())).Inc()
	}

	return perm
}

// Menu returns the console sections reachable by the identity.
func (uc *AccessUseCase) Menu(identity string, connected bool) []domain.MenuItem {
	return domain.VisibleMenu(uc.Permission(identity, connected), uc.menu)
}

// Profile returns the registry entry of a connected identity.
func (uc *AccessUseCase) Profile(identity string, connected bool) (domain.RegistryEntry, error) {
	if !connected {
		return domain.RegistryEntry{}, fmt.Errorf("%w: no session", domain.ErrUnauthorized)
	}

	if uc.registry != nil {
		if entry, ok := uc.registry.Lookup(identity); ok {
			return entry, nil
		}
	}

	return domain.RegistryEntry{}, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, domain.NormalizeIdentity(identity))
}
