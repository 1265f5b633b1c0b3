package middleware

import (
	"github.com/labstack/echo/v4"
)

const hstsValue = "max-age=31536000; includeSubDomains"

// apiHeaders are sent on every response
var apiHeaders = map[string]string{
	"X-Frame-Options":         "DENY",
	"X-Content-Type-Options":  "nosniff",
	"Content-Security-Policy": "default-src 'self'; img-src 'self' data:; frame-ancestors 'none'",
	"Referrer-Policy":         "strict-origin-when-cross-origin",
	"Permissions-Policy":      "geolocation=(), microphone=(), camera=()",
}

// mediaHeaders replace the API policy for stored uploads. The files are
// user supplied, so they are sandboxed and never content-sniffed.
var mediaHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"Content-Security-Policy": "default-src 'none'; img-src 'self'; sandbox",
	"Cache-Control":           "public, max-age=300",
}

// SecureHeaders adds security headers to responses. HSTS is only sent over HTTPS.
func SecureHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			setHeaders(c, apiHeaders)
			if c.Scheme() == "https" {
				c.Response().Header().Set("Strict-Transport-Security", hstsValue)
			}
			return next(c)
		}
	}
}

// MediaHeaders hardens the routes that serve files from the web root.
func MediaHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			setHeaders(c, mediaHeaders)
			return next(c)
		}
	}
}

func setHeaders(c echo.Context, headers map[string]string) {
	h := c.Response().Header()
	for k, v := range headers {
		h.Set(k, v)
	}
}
