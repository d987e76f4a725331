package middleware

import (
	"net/http"
	"slices"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

// RequireRole admits principals holding one of roles. It must run after AuthRequired.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if !slices.Contains(roles, principal.Role) {
				response.Forbidden(w, "Insufficient permissions for role '"+string(principal.Role)+"'")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
