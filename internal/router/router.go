// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lmarsolier/gestloc/internal/handler"
	"github.com/lmarsolier/gestloc/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware. Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout works from the refresh token alone, so no JWT middleware here.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER", "TENANT"),
	)
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated invitation acceptance
// endpoint. The token in the body is the only credential.
func RegisterPublic(e *echo.Echo, i *handler.InviteHandler) {
	e.POST("/v1/invites/accept", i.Accept)
}
