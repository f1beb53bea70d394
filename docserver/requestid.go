package docserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	defaultRequestIDHeader = "X-Request-ID"
	maxRequestIDLength     = 128
)

// RequestIDFromContext returns the ID stored by RequestIDMiddleware, or ""
// when there is none. The ID lives under chi's request ID key, so
// middleware.GetReqID reads the same value.
func RequestIDFromContext(ctx context.Context) string {
	return middleware.GetReqID(ctx)
}

// RequestIDConfig configures RequestIDMiddleware.
type RequestIDConfig struct {
	// HeaderName defaults to X-Request-ID.
	HeaderName string

	// GenerateFunc returns a new ID for r. Defaults to GenerateUUIDv4.
	GenerateFunc func(r *http.Request) string

	// TrustIncoming reuses a well-formed ID sent by the client. IDs longer
	// than 128 bytes or holding anything but visible ASCII are replaced.
	TrustIncoming bool
}

// RequestIDMiddleware tags each request with an ID. The ID is written to
// the request header, the request context and the response header.
func RequestIDMiddleware(cfg RequestIDConfig) func(http.Handler) http.Handler {
	header := cfg.HeaderName
	if header == "" {
		header = defaultRequestIDHeader
	}
	generate := cfg.GenerateFunc
	if generate == nil {
		generate = GenerateUUIDv4
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cfg.TrustIncoming {
				if incoming := r.Header.Get(header); validRequestID(incoming) {
					id = incoming
				}
			}
			if id == "" {
				id = generate(r)
			}
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			r.Header.Set(header, id)
			w.Header().Set(header, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, id)))
		})
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

// GenerateUUIDv4 returns a random UUID.
func GenerateUUIDv4(_ *http.Request) string {
	return uuid.NewString()
}

// GenerateUUIDv7 returns a time-ordered UUID.
func GenerateUUIDv7(_ *http.Request) string {
	return uuid.Must(uuid.NewV7()).String()
}
