package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "turnero/pkg/domain"
	"turnero/pkg/requestcontext"
)

// OperatorClaims is the identity an operator token must carry. The engine
// never authenticates users itself; it only needs to know which counter and
// branch the caller acts for.
type OperatorClaims struct {
	CounterID id.CounterID
	BranchID  id.BranchID
}

// TokenValidator validates a bearer token and extracts the operator identity.
type TokenValidator interface {
	ValidateToken(tokenString string) (*OperatorClaims, error)
}

// RequireOperator validates the bearer token and injects the operator's
// counter and branch identity into the request context.
func RequireOperator(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithOperator(ctx, claims.CounterID, claims.BranchID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
