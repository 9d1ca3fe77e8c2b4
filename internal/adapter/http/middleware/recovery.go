package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/iho/trafficadmin/internal/adapter/http/dto"
)

// Recovery middleware recovers from panics and answers with an INTERNAL
// error envelope.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				log.Error().
					Interface("error", err).
					Str("stack", string(debug.Stack())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("panic recovered")

				dto.WriteError(w, http.StatusInternalServerError, dto.CodeInternal, "internal server error", "")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
