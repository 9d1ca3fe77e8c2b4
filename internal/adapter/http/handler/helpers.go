package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/iho/trafficadmin/internal/adapter/http/dto"
	"github.com/iho/trafficadmin/internal/adapter/http/middleware"
	"github.com/iho/trafficadmin/internal/domain"
	"github.com/iho/trafficadmin/internal/usecase"
)

// PermissionResolver resolves the caller's permission.
type PermissionResolver interface {
	Permission(identity string, connected bool) domain.Permission
}

// Reserved listing parameters. Every other query key is a filter.
var reservedQueryKeys = map[string]bool{
	"page":      true,
	"limit":     true,
	"sortBy":    true,
	"sortOrder": true,
	"search":    true,
}

// writeSuccess writes a success envelope.
func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	dto.WriteJSON(w, status, dto.NewSuccess(data, message))
}

// respondError maps err to an error envelope for operation op.
func respondError(w http.ResponseWriter, op string, err error) {
	status, code := mapDomainError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("operation", op).Msg("request failed")
		message = "internal error"
	}
	dto.WriteError(w, status, code, message, op)
}

// mapDomainError maps domain errors to HTTP status codes and envelope codes.
func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRecord),
		errors.Is(err, domain.ErrInvalidQuery),
		errors.Is(err, domain.ErrInvalidIdentity):
		return http.StatusBadRequest, dto.CodeValidation
	case errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, dto.CodeNotFound
	case errors.Is(err, domain.ErrAccessDenied),
		errors.Is(err, domain.ErrOutOfScope):
		return http.StatusForbidden, dto.CodeAccessDenied
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized, dto.CodeUnauthorized
	case errors.Is(err, domain.ErrDuplicateRecord):
		return http.StatusConflict, dto.CodeConflict
	default:
		return http.StatusInternalServerError, dto.CodeInternal
	}
}

// callerFrom builds the use case caller from the request session.
func callerFrom(r *http.Request, resolver PermissionResolver) usecase.Caller {
	session := middleware.SessionFromContext(r.Context())
	return usecase.Caller{
		Identity:   session.Identity,
		Connected:  session.Connected,
		Permission: resolver.Permission(session.Identity, session.Connected),
		RequestID:  chimiddleware.GetReqID(r.Context()),
	}
}

// parseQueryRequest reads listing parameters. Defaults and limits are
// applied by the query engine.
func parseQueryRequest(r *http.Request) (domain.QueryRequest, error) {
	q := r.URL.Query()

	page, err := parsePositiveQuery(r, "page")
	if err != nil {
		return domain.QueryRequest{}, err
	}
	limit, err := parsePositiveQuery(r, "limit")
	if err != nil {
		return domain.QueryRequest{}, err
	}

	req := domain.QueryRequest{
		Page:      page,
		Limit:     limit,
		SortBy:    q.Get("sortBy"),
		SortOrder: domain.SortOrder(strings.ToLower(q.Get("sortOrder"))),
		Search:    q.Get("search"),
	}

	for key, values := range q {
		if reservedQueryKeys[key] || len(values) == 0 {
			continue
		}
		if req.Filters == nil {
			req.Filters = make(map[string]string)
		}
		req.Filters[key] = values[0]
	}

	return req, nil
}

// parsePositiveQuery parses a page or limit parameter. It returns 0 when the
// parameter is absent so defaults apply; an explicit value below 1 is invalid.
func parsePositiveQuery(r *http.Request, key string) (int, error) {
	if !r.URL.Query().Has(key) {
		return 0, nil
	}
	i, err := parseIntQuery(r, key, 0)
	if err != nil {
		return 0, err
	}
	if i < 1 {
		return 0, fmt.Errorf("%w: %s must be at least 1, got %d", domain.ErrInvalidQuery, key, i)
	}
	return i, nil
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) (int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrInvalidQuery, key, val)
	}
	return i, nil
}
