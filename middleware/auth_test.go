package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/models"
	"storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func token(t *testing.T, tokenType, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(testSecret, time.Minute, tokenType, uuid.NewString(), "a@b.c", role)
	require.NoError(t, err)
	return tok
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user": id.String(), "authenticated": ok})
	})
	r.GET("/", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret))

	tests := []struct {
		name   string
		setup  func(req *http.Request)
		status int
	}{
		{"missing", func(*http.Request) {}, http.StatusUnauthorized},
		{"malformed header", func(req *http.Request) { req.Header.Set("Authorization", "Token abc") }, http.StatusUnauthorized},
		{"refresh token", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token(t, utils.TokenTypeRefresh, models.RoleUser))
		}, http.StatusUnauthorized},
		{"bearer", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token(t, utils.TokenTypeAccess, models.RoleUser))
		}, http.StatusOK},
		{"cookie", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token(t, utils.TokenTypeAccess, models.RoleUser)})
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter(OptionalAuth(testSecret))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "bad tokens fall back to anonymous")
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, utils.TokenTypeAccess, models.RoleUser))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}

func TestAdminMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret), AdminMiddleware())

	for role, status := range map[string]int{
		models.RoleUser:  http.StatusForbidden,
		models.RoleAdmin: http.StatusOK,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, utils.TokenTypeAccess, role))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, role)
	}

	w := httptest.NewRecorder()
	newRouter(AdminMiddleware()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
