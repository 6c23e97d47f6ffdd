package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "meditrack/internal/core/context"
	"meditrack/internal/core/id"
	"meditrack/internal/domain/auth"
	"meditrack/pkg/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))
	router := NewRouter(RouterConfig{
		Logger:       logger.Default(),
		JWTValidator: jwtService,
	})
	return router, jwtService
}

func tokenFor(t *testing.T, jwtService *auth.JWTService, user auth.User) string {
	t.Helper()
	token, _, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

func TestOwnLocationRoutesRequireAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/medications/by-location",
		"/api/v1/locations/stock-history",
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestOwnLocationRoutesIgnoreQueryLocation(t *testing.T) {
	router, jwtService := newTestRouter(t)

	// Admins have no assigned location; the location must come from the
	// token, so a locationId query parameter cannot stand in for it.
	token := tokenFor(t, jwtService, auth.User{
		ID:        id.New(),
		FullName:  "System Admin",
		Email:     "admin@example.com",
		Role:      appctx.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	})

	for _, path := range []string{
		"/api/v1/medications/by-location?locationId=" + id.New().String(),
		"/api/v1/locations/stock-history?locationId=" + id.New().String(),
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}
