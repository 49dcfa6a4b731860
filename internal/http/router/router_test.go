package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "leadportal_backend/internal/http"
	"leadportal_backend/platform/httpkit"
	"leadportal_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	proxies []string
}

func (testConfig) GetHTTPAddr() string           { return ":0" }
func (testConfig) GetCORSAllowAll() bool         { return false }
func (testConfig) GetCORSOrigins() []string      { return []string{"https://app.example.com"} }
func (testConfig) GetCORSAllowCreds() bool       { return true }
func (c testConfig) GetTrustedProxies() []string { return c.proxies }
func (testConfig) GetJWTSecret() string          { return "secret" }

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type denyAll struct{}

func (denyAll) Allow(context.Context, string) bool { return false }

type stubModule struct{}

func (stubModule) Name() string { return "stub" }

func (stubModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/public", ctx.PublicRateLimit, func(c *gin.Context) { c.Status(http.StatusCreated) })
	ctx.Protected.GET("/private", func(c *gin.Context) { c.Status(http.StatusOK) })
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newApp(health apphttp.HealthChecker) *apphttp.App {
	return &apphttp.App{
		Config:  testConfig{},
		Logger:  logger.Discard(),
		Health:  health,
		Modules: []apphttp.Module{stubModule{}},
	}
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealthReportsDatabaseState(t *testing.T) {
	ok := New(newApp(pingFunc(func(context.Context) error { return nil })))
	rec := serve(ok, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	down := New(newApp(pingFunc(func(context.Context) error { return errors.New("refused") })))
	rec = serve(down, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":false`)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	engine := New(newApp(nil))

	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/private").Code)
	assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/v1/public").Code)
}

func TestPublicRateLimitUsesIntakeLimiter(t *testing.T) {
	app := newApp(nil)
	app.IntakeLimiter = denyAll{}
	engine := New(app)

	assert.Equal(t, http.StatusTooManyRequests, serve(engine, http.MethodPost, "/api/v1/public").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "requests_total", Help: "requests"})
	reg.MustRegister(counter)
	counter.Inc()

	app := newApp(nil)
	app.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	rec := serve(New(app), http.MethodGet, "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "requests_total 1")
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	engine := New(newApp(nil))
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Host = "api.example.com"
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func postFrom(engine *gin.Engine, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public", nil)
	req.RemoteAddr = remoteAddr
	req.Header.Set("X-Forwarded-For", forwardedFor)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec.Code
}

func TestPublicRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	app := newApp(nil)
	app.IntakeLimiter = httpkit.NewPerMinuteLimiter(2, nil)
	engine := New(app)

	codes := make([]int, 0, 4)
	for _, xff := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3", "198.51.100.4"} {
		codes = append(codes, postFrom(engine, "203.0.113.9:4000", xff))
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestPublicRateLimitHonoursTrustedProxy(t *testing.T) {
	app := newApp(nil)
	app.Config = testConfig{proxies: []string{"10.0.0.0/8"}}
	app.IntakeLimiter = httpkit.NewPerMinuteLimiter(1, nil)
	engine := New(app)

	assert.Equal(t, http.StatusCreated, postFrom(engine, "10.0.0.5:4000", "198.51.100.1"))
	assert.Equal(t, http.StatusCreated, postFrom(engine, "10.0.0.5:4000", "198.51.100.2"), "each client behind the proxy has its own quota")
	assert.Equal(t, http.StatusTooManyRequests, postFrom(engine, "10.0.0.5:4000", "198.51.100.1"))
}
