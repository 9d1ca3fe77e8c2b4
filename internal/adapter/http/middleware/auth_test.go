package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/trafficadmin/internal/domain"
)

type verifierStub map[string]string

func (v verifierStub) Authenticate(token string) (string, error) {
	identity, ok := v[token]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	return identity, nil
}

func TestAuthenticate(t *testing.T) {
	mw := Authenticate(verifierStub{"good": "0xhanoi"})

	tests := []struct {
		name      string
		header    string
		status    int
		connected bool
		identity  string
	}{
		{name: "anonymous", status: http.StatusOK},
		{name: "valid token", header: "Bearer good", status: http.StatusOK, connected: true, identity: "0xhanoi"},
		{name: "lowercase scheme", header: "bearer good", status: http.StatusOK, connected: true, identity: "0xhanoi"},
		{name: "invalid token", header: "Bearer forged", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", status: http.StatusUnauthorized},
		{name: "missing token", header: "Bearer ", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen Session
			called := false
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				seen = SessionFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/me/permission", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rr.Code)
			}
			if tt.status != http.StatusOK {
				if called {
					t.Fatalf("handler must not run for rejected tokens")
				}
				return
			}
			if seen.Connected != tt.connected || seen.Identity != tt.identity {
				t.Fatalf("unexpected session %+v", seen)
			}
		})
	}
}
