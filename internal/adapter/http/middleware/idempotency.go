package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iho/trafficadmin/internal/adapter/http/dto"
	"github.com/iho/trafficadmin/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"

	processingMarker = "processing"
	// releaseTTL shortens a key whose request failed so it can be retried.
	releaseTTL = time.Second
)

// IdempotencyMiddleware replays responses of repeated record writes.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A
// non-positive ttl selects usecase.IdempotencyKeyTTL.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get(IdempotencyKeyHeader)
		session := SessionFromContext(r.Context())
		// Anonymous callers cannot write records and share one identity.
		if header == "" || !session.Connected {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			dto.WriteError(w, http.StatusBadRequest, dto.CodeValidation, "failed to read request body", "")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		key := idempotencyKey(session.Identity, r.Method, r.URL.Path, header, body)

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			log.Error().Err(err).Msg("idempotency check failed")
			dto.WriteError(w, http.StatusInternalServerError, dto.CodeInternal, "idempotency check failed", "")
			return
		}

		if exists && len(cached) > 0 {
			if string(cached) == processingMarker {
				dto.WriteError(w, http.StatusConflict, dto.CodeConflict, "a request with this Idempotency-Key is in progress", "")
				return
			}

			var stored storedResponse
			if err := json.Unmarshal(cached, &stored); err == nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Idempotency-Replay", "true")
				w.WriteHeader(stored.Status)
				_, _ = w.Write(stored.Body)
				return
			}
		}

		// Capture response
		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		defer func() {
			if p := recover(); p != nil {
				m.release(r.Context(), key)
				panic(p)
			}
		}()
		next.ServeHTTP(recorder, r)

		// Store response for future idempotent requests
		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			data, err := json.Marshal(storedResponse{Status: recorder.statusCode, Body: recorder.body.Bytes()})
			if err == nil {
				err = m.store.Update(r.Context(), key, data, m.ttl)
			}
			if err != nil {
				log.Warn().Err(err).Msg("failed to store idempotent response")
			}
			return
		}

		m.release(r.Context(), key)
	})
}

// release frees key so a retry of a failed request runs again.
func (m *IdempotencyMiddleware) release(ctx context.Context, key string) {
	if err := m.store.Update(context.WithoutCancel(ctx), key, []byte{}, releaseTTL); err != nil {
		log.Warn().Err(err).Msg("failed to release idempotency key")
	}
}

// idempotencyKey scopes a client key to the caller, the endpoint and the
// exact request body.
func idempotencyKey(identity, method, path, header string, body []byte) string {
	sum := sha256.Sum256(body)
	return identity + ":" + method + ":" + path + ":" + header + ":" + hex.EncodeToString(sum[:])
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
