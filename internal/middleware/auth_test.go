package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahbazzubair/hair-follicle-detection-system/internal/models"
	"github.com/shahbazzubair/hair-follicle-detection-system/internal/utils"
)

func newProtectedRouter(requiredRole string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), RequireRole(requiredRole), func(c *gin.Context) {
		name, _ := c.Get("userName")
		c.JSON(http.StatusOK, gin.H{"name": name})
	})
	return r
}

func tokenFor(t *testing.T, role, name string) string {
	t.Helper()
	utils.InitJWT("middleware-test-secret")
	token, err := utils.GenerateJWT("64f0c1a2b3", role, name)
	require.NoError(t, err)
	return token
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	r := newProtectedRouter(models.RoleDoctor)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	r := newProtectedRouter(models.RoleDoctor)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleMatrix(t *testing.T) {
	roles := []string{models.RolePatient, models.RoleDoctor, models.RoleAdmin}

	for _, required := range []string{models.RolePatient, models.RoleDoctor} {
		for _, actual := range roles {
			r := newProtectedRouter(required)
			token := tokenFor(t, actual, "Somebody")

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			r.ServeHTTP(w, req)

			// Admins pass every gate; everyone else needs an exact match.
			if actual == required || actual == models.RoleAdmin {
				assert.Equal(t, http.StatusOK, w.Code, "required=%s actual=%s", required, actual)
			} else {
				assert.Equal(t, http.StatusForbidden, w.Code, "required=%s actual=%s", required, actual)
			}
		}
	}
}

func TestRequireAdminExcludesOthers(t *testing.T) {
	for _, actual := range []string{models.RolePatient, models.RoleDoctor} {
		r := newProtectedRouter(models.RoleAdmin)
		token := tokenFor(t, actual, "Somebody")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code, "actual=%s", actual)
	}
}
