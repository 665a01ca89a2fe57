package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitflow/habitflow/utils"
)

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthRequired(), func(ctx *gin.Context) {
		id, _ := ctx.Get(ContextUserIDKey)
		name, _ := ctx.Get(ContextUsernameKey)
		ctx.JSON(http.StatusOK, gin.H{"user_id": id, "username": name})
	})
	r.GET("/admin-only", AdminRequired(), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
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

func TestAuthRequiredMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	r := newAuthTestRouter()

	w := doRequest(r, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "40101")
}

func TestAuthRequiredBadScheme(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	r := newAuthTestRouter()

	w := doRequest(r, "/protected", "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "40102")
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	r := newAuthTestRouter()

	w := doRequest(r, "/protected", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "40105")
}

func TestAuthRequiredValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	r := newAuthTestRouter()

	token, err := utils.GenerateToken(7, "river", time.Hour)
	require.NoError(t, err)

	w := doRequest(r, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.Contains(t, w.Body.String(), `"username":"river"`)
}

func TestAuthRequiredRejectsAdminToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	r := newAuthTestRouter()

	token, err := utils.GenerateAdminToken(time.Hour)
	require.NoError(t, err)

	w := doRequest(r, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "40106")
}

func TestAdminRequiredRejectsUserToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	r := newAuthTestRouter()

	token, err := utils.GenerateToken(7, "river", time.Hour)
	require.NoError(t, err)

	w := doRequest(r, "/admin-only", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "40301")
}

func TestAdminRequiredAcceptsAdminToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	r := newAuthTestRouter()

	token, err := utils.GenerateAdminToken(time.Hour)
	require.NoError(t, err)

	w := doRequest(r, "/admin-only", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}
