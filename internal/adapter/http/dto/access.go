package dto

import (
	"time"

	"github.com/iho/trafficadmin/internal/domain"
)

// OpenSessionRequest opens a session for a connected wallet.
type OpenSessionRequest struct {
	WalletAddress string `json:"wallet_address"`
}

// PermissionResponse is a resolved permission.
type PermissionResponse struct {
	Role          string          `json:"role"`
	LocationScope string          `json:"locationScope"`
	Capabilities  []string        `json:"capabilities"`
	Flags         map[string]bool `json:"flags"`
}

// PermissionFromDomain converts a permission.
func PermissionFromDomain(p domain.Permission) PermissionResponse {
	caps := p.Capabilities()
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = string(c)
	}

	flags := make(map[string]bool)
	for c, ok := range p.Flags() {
		flags[string(c)] = ok
	}

	return PermissionResponse{
		Role:          string(p.Role()),
		LocationScope: string(p.LocationScope()),
		Capabilities:  names,
		Flags:         flags,
	}
}

// SessionResponse is returned when a session is opened.
type SessionResponse struct {
	Token      string             `json:"token"`
	ExpiresAt  time.Time          `json:"expires_at"`
	Identity   string             `json:"identity"`
	Permission PermissionResponse `json:"permission"`
}

// MenuItemResponse is one visible console section.
type MenuItemResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon,omitempty"`
}

// MenuFromDomain converts the visible menu.
func MenuFromDomain(items []domain.MenuItem) []MenuItemResponse {
	out := make([]MenuItemResponse, len(items))
	for i, item := range items {
		out[i] = MenuItemResponse{ID: item.ID, Label: item.Label, Path: item.Path, Icon: item.Icon}
	}
	return out
}

// ProfileResponse is the registry entry of the caller.
type ProfileResponse struct {
	Identity      string `json:"identity"`
	Role          string `json:"role"`
	LocationScope string `json:"locationScope"`
	DisplayName   string `json:"displayName"`
	Organization  string `json:"organization,omitempty"`
}

// ProfileFromDomain converts a registry entry.
func ProfileFromDomain(e domain.RegistryEntry) ProfileResponse {
	return ProfileResponse{
		Identity:      domain.NormalizeIdentity(e.Identity),
		Role:          string(e.Role),
		LocationScope: string(e.LocationScope),
		DisplayName:   e.DisplayName,
		Organization:  e.Organization,
	}
}

// AuditLogResponse represents an audit entry in API responses.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	Identity     string         `json:"identity"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resourceType,omitempty"`
	ResourceID   string         `json:"resourceId,omitempty"`
	RequestID    string         `json:"requestId,omitempty"`
	BeforeState  map[string]any `json:"beforeState,omitempty"`
	AfterState   map[string]any `json:"afterState,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// AuditLogsFromDomain converts audit entries.
func AuditLogsFromDomain(logs []*domain.AuditLog) []AuditLogResponse {
	out := make([]AuditLogResponse, len(logs))
	for i, l := range logs {
		out[i] = AuditLogResponse{
			ID:           l.ID,
			Identity:     l.Identity,
			Action:       string(l.Action),
			ResourceType: string(l.ResourceType),
			ResourceID:   l.ResourceID,
			RequestID:    l.RequestID,
			BeforeState:  l.BeforeState,
			AfterState:   l.AfterState,
			Status:       string(l.Status),
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		}
	}
	return out
}
