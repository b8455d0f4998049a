package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Africall/sote-minimart/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

func signedToken(t *testing.T, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(nil), middleware.AuthMiddleware(testSecret))
	r.Use(extra...)
	r.GET("/whoami", func(c *gin.Context) {
		id, _ := middleware.GetUserIDFromContext(c)
		c.String(http.StatusOK, id)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
		wantBody   string
	}{
		{name: "valid bearer", header: "Bearer " + signedToken(t, "cashier-1", time.Hour), wantStatus: http.StatusOK, wantBody: "cashier-1"},
		{name: "query token", query: "?access_token=" + signedToken(t, "cashier-2", time.Hour), wantStatus: http.StatusOK, wantBody: "cashier-2"},
		{name: "missing", wantStatus: http.StatusUnauthorized},
		{name: "bad format", header: "Token abc", wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signedToken(t, "cashier-1", -time.Minute), wantStatus: http.StatusUnauthorized},
		{name: "empty subject", header: "Bearer " + signedToken(t, "", time.Hour), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestRateLimit_PerCashier(t *testing.T) {
	lim, err := middleware.NewMemoryLimiter("2-M")
	require.NoError(t, err)
	r := newRouter(middleware.RateLimit(lim))

	tokenA := signedToken(t, "cashier-a", time.Hour)
	tokenB := signedToken(t, "cashier-b", time.Hour)

	do := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do(tokenA))
	assert.Equal(t, http.StatusOK, do(tokenA))
	assert.Equal(t, http.StatusTooManyRequests, do(tokenA))
	assert.Equal(t, http.StatusOK, do(tokenB))
}

func TestNewMemoryLimiter_InvalidRate(t *testing.T) {
	_, err := middleware.NewMemoryLimiter("lots")
	assert.Error(t, err)
}
