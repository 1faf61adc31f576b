package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/verdant-oils/storefront-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags the request with an id for log correlation. Incoming
// ids are honored only when they parse as UUIDs; anything else gets
// replaced so logs never carry attacker-chosen strings.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(reqID); err != nil {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
