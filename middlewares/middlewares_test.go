package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/utils"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.Wrap(apperrors.ErrNotFound, "patient p1"), http.StatusNotFound},
		{apperrors.Invalid("price", "must be positive"), http.StatusBadRequest},
		{errors.Wrap(apperrors.ErrConflict, "lock busy"), http.StatusConflict},
		{apperrors.Unavailable(errors.New("connection refused")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestValidateBearerToken(t *testing.T) {
	r := gin.New()
	r.Use(ValidateBearerToken("secret", "/health"))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/data", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, httptest.NewRequest(http.MethodGet, "/data", nil)).Code)

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Authorization", "Token secret")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Authorization", "Bearer secret")
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestClinicianAuth(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	clock := utils.ClockFunc(func() time.Time { return now })

	r := gin.New()
	r.Use(ClinicianAuth([]byte(testKey), clock))
	r.GET("/me", func(c *gin.Context) {
		id, err := DoctorIDFromContext(c.Request.Context())
		require.NoError(t, err)
		c.String(http.StatusOK, id)
	})

	token, err := utils.GenerateAccessToken([]byte(testKey), "doc-7", now)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AccessTokenHeader, token)
	rec := serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "doc-7", rec.Body.String())

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/me?accessToken="+token, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, serve(r, httptest.NewRequest(http.MethodGet, "/me", nil)).Code)

	expired, err := utils.GenerateAccessToken([]byte(testKey), "doc-7", now.Add(-48*time.Hour))
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AccessTokenHeader, expired)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	_, err = DoctorIDFromContext(req.Context())
	assert.Error(t, err)
}

func TestCorsMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CorsMiddleware(DefaultCorsConfig([]string{"http://localhost:3000"})))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := serve(r, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), AccessTokenHeader)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	l := &rateLimiter{
		cfg:       RateLimiterConfig{RequestsPerSecond: 1, Burst: 2, IdleTTL: time.Minute},
		clients:   make(map[string]*clientLimiter),
		lastSweep: time.Now(),
	}
	now := time.Now()
	assert.True(t, l.allow("10.0.0.1", now))
	assert.True(t, l.allow("10.0.0.1", now))
	assert.False(t, l.allow("10.0.0.1", now))
	assert.True(t, l.allow("10.0.0.2", now))

	// idle clients are swept
	later := now.Add(2 * time.Minute)
	assert.True(t, l.allow("10.0.0.3", later))
	assert.NotContains(t, l.clients, "10.0.0.1")
}
