package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/trafficadmin/internal/adapter/http/dto"
	"github.com/iho/trafficadmin/internal/adapter/http/middleware"
	"github.com/iho/trafficadmin/internal/domain"
	"github.com/iho/trafficadmin/internal/usecase"
)

// AccessService defines the behavior needed by SessionHandler.
type AccessService interface {
	OpenSession(ctx context.Context, identity string) (*usecase.Session, error)
	Permission(identity string, connected bool) domain.Permission
	Menu(identity string, connected bool) []domain.MenuItem
	Profile(identity string, connected bool) (domain.RegistryEntry, error)
}

// SessionHandler handles sessions and the caller's own access view.
type SessionHandler struct {
	accessUC AccessService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(accessUC AccessService) *SessionHandler {
	return &SessionHandler{accessUC: accessUC}
}

// Open issues a session token for a wallet address.
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	const op = "sessions.open"

	var req dto.OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, http.StatusBadRequest, dto.CodeValidation, "invalid request body", op)
		return
	}

	session, err := h.accessUC.OpenSession(r.Context(), req.WalletAddress)
	if err != nil {
		respondError(w, op, err)
		return
	}

	writeSuccess(w, http.StatusCreated, dto.SessionResponse{
		Token:      session.Token,
		ExpiresAt:  session.ExpiresAt,
		Identity:   session.Identity,
		Permission: dto.PermissionFromDomain(session.Permission),
	}, "session opened")
}

// Permission returns the caller's resolved permission.
func (h *SessionHandler) Permission(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFromContext(r.Context())
	writeSuccess(w, http.StatusOK, dto.PermissionFromDomain(h.accessUC.Permission(s.Identity, s.Connected)), "")
}

// Menu returns the menu entries the caller may open.
func (h *SessionHandler) Menu(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFromContext(r.Context())
	writeSuccess(w, http.StatusOK, dto.MenuFromDomain(h.accessUC.Menu(s.Identity, s.Connected)), "")
}

// Profile returns the caller's registry entry.
func (h *SessionHandler) Profile(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFromContext(r.Context())

	entry, err := h.accessUC.Profile(s.Identity, s.Connected)
	if err != nil {
		respondError(w, "me.profile", err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.ProfileFromDomain(entry), "")
}
