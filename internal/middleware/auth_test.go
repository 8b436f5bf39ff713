package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthyconnect/healthtrack-api/internal/utils"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		userID, _ := c.Get("userID")
		userRole, _ := c.Get("userRole")
		c.JSON(http.StatusOK, gin.H{"userID": userID, "userRole": userRole})
	})
	r.GET("/provider-only", AuthMiddleware(), RequireRole("provider"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := setupRouter()
	w := doRequest(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r := setupRouter()
	w := doRequest(r, "/me", "Token abcdef")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	r := setupRouter()
	w := doRequest(r, "/me", "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	token, err := utils.GenerateJWT("64f1c0ffee0000000000abcd", "patient")
	require.NoError(t, err)

	r := setupRouter()
	w := doRequest(r, "/me", "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "64f1c0ffee0000000000abcd")
	assert.Contains(t, w.Body.String(), "patient")
}

func TestRequireRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	r := setupRouter()

	patientToken, err := utils.GenerateJWT("64f1c0ffee0000000000abcd", "patient")
	require.NoError(t, err)
	providerToken, err := utils.GenerateJWT("64f1c0ffee0000000000dcba", "provider")
	require.NoError(t, err)

	w := doRequest(r, "/provider-only", "Bearer "+patientToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, "/provider-only", "Bearer "+providerToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
