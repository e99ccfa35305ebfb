package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer catches panics from downstream handlers, logs the stack
// trace, and answers with a generic JSON 500. The panic detail is only
// exposed in development mode.
type Recoverer struct {
	logger      *slog.Logger
	development bool
}

// NewRecoverer creates a Recoverer
func NewRecoverer(log *slog.Logger, development bool) *Recoverer {
	if log == nil {
		log = slog.Default()
	}
	return &Recoverer{logger: log, development: development}
}

// Handler returns the panic recovery middleware
func (m *Recoverer) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				m.logger.Error("Panic recovered",
					"panic", fmt.Sprint(rec),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				body := map[string]string{"error": "Internal server error. Please try again."}
				if m.development {
					body["details"] = fmt.Sprint(rec)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(body)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
