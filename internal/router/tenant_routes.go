// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lmarsolier/gestloc/internal/handler"
	"github.com/lmarsolier/gestloc/internal/middleware"
)

// RegisterTenant registers TENANT-scoped endpoints under /v1/tenant.
func RegisterTenant(e *echo.Echo, t *handler.TenantHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	mws := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("TENANT"),
	}, extra...)
	g := e.Group("/v1/tenant", mws...)

	g.GET("/leases", t.MyLeases)
	g.GET("/leases/:id/receipts", t.MyReceipts)
}
