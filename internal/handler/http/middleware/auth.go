package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/presensia/attendance-backend-go/internal/domain/employee"
	"github.com/presensia/attendance-backend-go/internal/handler/http/response"
)

// Actor is the authenticated employee a request acts as. It is resolved
// from the token exactly once, here; handlers and services never touch
// claims themselves.
type Actor struct {
	EmployeeID string
	Role       employee.Role
}

type actorKey struct{}

// ActorFromContext returns the Actor stored by AuthRequired.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// AuthRequired verifies the access token and resolves its claims into an
// Actor on the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}
			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}

			employeeID, ok := claims["employee_id"].(string)
			if !ok || employeeID == "" {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}
			roleStr, ok := claims["role"].(string)
			role := employee.Role(roleStr)
			if !ok || !role.Valid() {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), actorKey{}, Actor{
				EmployeeID: employeeID,
				Role:       role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}
