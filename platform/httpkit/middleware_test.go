package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leadportal_backend/platform/apperr"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testJWTConfig string

func (s testJWTConfig) GetJWTSecret() string { return string(s) }

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthRequired(testJWTConfig("secret")), func(c *gin.Context) {
		id := MustGetIdentity(c)
		if id == nil {
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": id.UserID().String(), "claims": id.Claims()})
	})
	return r
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, "secret", jwt.MapClaims{
		"sub":  userID.String(),
		"role": "authenticated",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newAuthRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, userID.String(), body["user"])
	claims, ok := body["claims"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "authenticated", claims["role"])
}

func TestAuthRequiredRejectsBadTokens(t *testing.T) {
	cases := map[string]string{
		"missing":      "",
		"wrong secret": "Bearer " + signToken(t, "other", jwt.MapClaims{"sub": uuid.NewString()}),
		"bad subject":  "Bearer " + signToken(t, "secret", jwt.MapClaims{"sub": "not-a-uuid"}),
		"expired": "Bearer " + signToken(t, "secret", jwt.MapClaims{
			"sub": uuid.NewString(),
			"exp": time.Now().Add(-time.Hour).Unix(),
		}),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			newAuthRouter().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"ok":false`)
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(rec.Header().Get(HeaderRequestID))
	assert.NoError(t, err)

	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, existing)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, existing, rec.Header().Get(HeaderRequestID))
}

func TestHandleErrorEnvelope(t *testing.T) {
	r := gin.New()
	r.GET("/typed", func(c *gin.Context) {
		HandleError(c, apperr.Validation("bad input").WithDetails(map[string]string{"email": "is required"}))
	})
	r.GET("/plain", func(c *gin.Context) {
		HandleError(c, errors.New("connection refused"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/typed", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"bad input","details":{"email":"is required"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestIPRateLimiterBlocksAfterBurst(t *testing.T) {
	r := gin.New()
	r.POST("/intake", NewPerMinuteLimiter(2, nil).RateLimit(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/intake", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRedisRateLimiterFixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRedisRateLimiter(client, "intake", 2, time.Minute, nil)
	fixed := time.Date(2025, 1, 1, 12, 0, 30, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }

	ctx := t.Context()
	assert.True(t, limiter.Allow(ctx, "1.2.3.4"))
	assert.True(t, limiter.Allow(ctx, "1.2.3.4"))
	assert.False(t, limiter.Allow(ctx, "1.2.3.4"))
	assert.True(t, limiter.Allow(ctx, "5.6.7.8"), "other clients have their own bucket")

	fixed = fixed.Add(time.Minute)
	assert.True(t, limiter.Allow(ctx, "1.2.3.4"), "next window starts fresh")
}

func TestRedisRateLimiterFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	limiter := NewRedisRateLimiter(client, "intake", 1, time.Minute, nil)
	assert.True(t, limiter.Allow(t.Context(), "1.2.3.4"))
	assert.True(t, limiter.Allow(t.Context(), "1.2.3.4"))
}
