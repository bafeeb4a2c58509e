package middleware

import (
	"github.com/labstack/echo/v4"
)

// APIVersion is sent on every /api response.
const APIVersion = "v1"

// VersionHeader adds the API version to response headers
func VersionHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", APIVersion)
			return next(c)
		}
	}
}

// Deprecated marks a legacy route. Clients are pointed at the route that
// replaces it through the Link header.
func Deprecated(successor string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Deprecation", "true")
			if successor != "" {
				h.Set("Link", "<"+successor+">; rel=\"successor-version\"")
			}
			return next(c)
		}
	}
}
