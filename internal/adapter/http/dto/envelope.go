package dto

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/iho/trafficadmin/internal/domain"
)

// Error codes carried by ErrorEnvelope.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeAccessDenied = "ACCESS_DENIED"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL"
)

// SuccessEnvelope wraps every successful API response.
type SuccessEnvelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ErrorEnvelope wraps every failed API response.
type ErrorEnvelope struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
}

// ErrorBody describes a failure.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Now is the clock used for envelope timestamps.
var Now = time.Now

func timestamp() string {
	return Now().UTC().Format(time.RFC3339)
}

// NewSuccess builds a success envelope.
func NewSuccess(data any, message string) SuccessEnvelope {
	return SuccessEnvelope{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: timestamp(),
	}
}

// NewError builds an error envelope. A non-empty operation is reported in
// details.
func NewError(code, message, operation string) ErrorEnvelope {
	body := ErrorBody{Code: code, Message: message}
	if operation != "" {
		body.Details = map[string]any{"operation": operation}
	}
	return ErrorEnvelope{
		Success:   false,
		Error:     body,
		Timestamp: timestamp(),
	}
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an error envelope.
func WriteError(w http.ResponseWriter, status int, code, message, operation string) {
	WriteJSON(w, status, NewError(code, message, operation))
}

// PaginationResponse is the paging block of a listing.
type PaginationResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// PageResponse is one page of a listing.
type PageResponse[R any] struct {
	Items      []R                `json:"items"`
	Pagination PaginationResponse `json:"pagination"`
}

// PageFromDomain converts a query result, encoding each item with encode.
func PageFromDomain[T any, R any](result domain.QueryResult[T], encode func(T) R) PageResponse[R] {
	items := make([]R, len(result.Items))
	for i, item := range result.Items {
		items[i] = encode(item)
	}
	return PageResponse[R]{
		Items: items,
		Pagination: PaginationResponse{
			Page:       result.Pagination.Page,
			Limit:      result.Pagination.Limit,
			Total:      result.Pagination.Total,
			TotalPages: result.Pagination.TotalPages,
		},
	}
}
