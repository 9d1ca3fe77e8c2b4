package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is an audit trail entry for a mutating operation.
type AuditLog struct {
	ID           string
	Identity     string      // Who performed the action
	Action       AuditAction // What action (licenses.create, vehicles.delete, etc.)
	ResourceType Resource    // Type of resource
	ResourceID   string      // ID of the resource
	RequestID    string      // Request ID for tracing
	BeforeState  JSON        // State before the action
	AfterState   JSON        // State after the action
	Status       AuditStatus // success, failure, error
	ErrorMessage string      // If status=error, the error message
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction is written "<resource>.<verb>".
type AuditAction string

// Audit verbs
const (
	AuditVerbCreate = "create"
	AuditVerbUpdate = "update"
	AuditVerbDelete = "delete"
)

// AuditActionOf builds the action for a verb on a resource.
func AuditActionOf(resource Resource, verb string) AuditAction {
	return AuditAction(string(resource) + "." + verb)
}

// AuditActionSessionOpen is recorded when a session token is issued.
const AuditActionSessionOpen AuditAction = "session.open"

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusError   AuditStatus = "error"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	Identity     string
	Action       AuditAction
	ResourceType Resource
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}

// Matches reports whether a log entry satisfies the filter, ignoring paging.
func (f AuditFilter) Matches(log *AuditLog) bool {
	switch {
	case f.Identity != "" && NormalizeIdentity(f.Identity) != log.Identity:
		return false
	case f.Action != "" && f.Action != log.Action:
		return false
	case f.ResourceType != "" && f.ResourceType != log.ResourceType:
		return false
	case f.ResourceID != "" && f.ResourceID != log.ResourceID:
		return false
	case f.StartDate != nil && log.CreatedAt.Before(*f.StartDate):
		return false
	case f.EndDate != nil && log.CreatedAt.After(*f.EndDate):
		return false
	}
	return true
}
