package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func corsRequest(mw echo.MiddlewareFunc, method, origin string) *httptest.ResponseRecorder {
	e := echo.New()
	e.Use(mw)
	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "success")
	})

	req := httptest.NewRequest(method, "/test", nil)
	req.Header.Set("Origin", origin)
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", "POST")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCORS_AllowedOrigin(t *testing.T) {
	rec := corsRequest(CORS([]string{"http://localhost:3000", "http://example.com"}, false), http.MethodGet, "http://example.com")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	rec := corsRequest(CORS([]string{"http://localhost:3000"}, false), http.MethodGet, "http://malicious.com")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DefaultsToLocalhost(t *testing.T) {
	rec := corsRequest(CORS(nil, false), http.MethodGet, DefaultOrigin)
	assert.Equal(t, DefaultOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ProductionDropsWildcard(t *testing.T) {
	rec := corsRequest(CORS([]string{"*"}, true), http.MethodGet, "http://malicious.com")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = corsRequest(CORS([]string{"*"}, true), http.MethodGet, DefaultOrigin)
	assert.Equal(t, DefaultOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	rec := corsRequest(CORS([]string{"http://example.com"}, true), http.MethodOptions, "http://example.com")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Equal(t, "300", rec.Header().Get("Access-Control-Max-Age"))
}
