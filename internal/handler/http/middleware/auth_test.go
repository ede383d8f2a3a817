package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/presensia/attendance-backend-go/internal/domain/employee"
	"github.com/presensia/attendance-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T, jwtService jwt.Service) *chi.Mux {
	t.Helper()

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
		r.Use(AuthRequired(jwtService.JWTAuth()))

		r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			require.True(t, ok)
			w.Write([]byte(actor.EmployeeID + ":" + string(actor.Role)))
		})

		r.With(RequirePermission(employee.PermissionLeaveDecide)).
			Get("/decide", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
	})
	return r
}

func TestAuthRequiredResolvesActor(t *testing.T) {
	t.Parallel()

	jwtService := jwt.NewJWTService("test-secret", "1h")
	router := testRouter(t, jwtService)

	token, _, err := jwtService.GenerateAccessToken("emp-1", employee.RolePersonnel)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "emp-1:personnel", rec.Body.String())
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	t.Parallel()

	jwtService := jwt.NewJWTService("test-secret", "1h")
	router := testRouter(t, jwtService)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermission(t *testing.T) {
	t.Parallel()

	jwtService := jwt.NewJWTService("test-secret", "1h")
	router := testRouter(t, jwtService)

	// Personnel cannot decide leave requests.
	token, _, err := jwtService.GenerateAccessToken("emp-1", employee.RolePersonnel)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/decide", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Authorized can.
	token, _, err = jwtService.GenerateAccessToken("boss-1", employee.RoleAuthorized)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/decide", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
