package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iberstay/hotel-distribution/internal/config"
)

func rateContext(ip string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/search?city=Madrid", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/search")
	return c
}

func TestRateKeySeparatesCallersByIPAndRoute(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}

	a := rateKey(cfg, rateContext("10.0.0.1"))
	b := rateKey(cfg, rateContext("10.0.0.2"))

	assert.NotEqual(t, a, b)
	assert.Equal(t, "rl:ip:10.0.0.1:route:GET /v1/search", a)
}

func TestRateKeyUserStrategyUsesClaimValue(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}

	c := rateContext("10.0.0.1")
	// Numeric JWT subjects decode as float64.
	c.Set("user_id", float64(42))

	assert.Equal(t, "rl:user:42", rateKey(cfg, c))
}

func TestRateKeyAnonymousUser(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user_route"}

	assert.Equal(t, "rl:user:anon:route:GET /v1/search", rateKey(cfg, rateContext("10.0.0.1")))
}

func TestAsInt64NormalizesScriptResults(t *testing.T) {
	assert.Equal(t, int64(3), asInt64(int64(3)))
	assert.Equal(t, int64(3), asInt64(float64(3.7)))
	assert.Equal(t, int64(3), asInt64("3"))
	assert.Equal(t, int64(0), asInt64("garbage"))
	assert.Equal(t, int64(0), asInt64(nil))
}
