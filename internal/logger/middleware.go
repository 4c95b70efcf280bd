package logger

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// Inbound ids must be short header-safe tokens.
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID tags the request context and response with an id, reusing the
// caller's X-Request-ID when it is well formed.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !validRequestID.MatchString(id) {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
