// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lmarsolier/gestloc/internal/handler"
	"github.com/lmarsolier/gestloc/internal/middleware"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1.
// All routes require a valid JWT and OWNER role. Extra middleware (response
// cache, rate limiting) is attached by the caller when configured.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	mws := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	}, extra...)
	g := e.Group("/v1", mws...)

	// ---- Properties ----
	g.POST("/properties", o.CreateProperty)
	g.GET("/properties", o.ListProperties)
	g.GET("/properties/:id", o.GetProperty)
	g.PUT("/properties/:id", o.UpdateProperty)
	g.DELETE("/properties/:id", o.DeleteProperty)
	g.POST("/properties/:id/duplicate", o.DuplicateProperty)

	// ---- Template: sections and items ----
	g.POST("/properties/:id/sections", o.CreateSection)
	g.PUT("/properties/:id/sections/:sectionId", o.RenameSection)
	g.DELETE("/properties/:id/sections/:sectionId", o.DeleteSection)
	g.POST("/properties/:id/items", o.CreateItem)
	g.PUT("/properties/:id/items/:itemId", o.UpdateItemSection)
	g.DELETE("/properties/:id/items/:itemId", o.DeleteItem)
	g.PUT("/properties/:id/reorder", o.Reorder)

	// ---- Inventories ----
	g.POST("/properties/:id/inventories", o.CreateInventory)
	g.GET("/properties/:id/inventories", o.ListInventories)
	g.GET("/properties/:id/inventories/:inventoryId", o.GetInventory)
	g.POST("/properties/:id/inventories/:inventoryId/complete", o.CompleteInventory)
	g.DELETE("/properties/:id/inventories/:inventoryId", o.DeleteInventory)
	g.PUT("/inventories/:id/items/:ref", o.UpdateInventoryItem)

	// ---- Leases, receipts, invitations ----
	g.POST("/properties/:id/leases", o.CreateLease)
	g.GET("/properties/:id/leases", o.ListLeases)
	g.POST("/leases/:id/terminate", o.TerminateLease)
	g.POST("/leases/:id/archive", o.ArchiveLease)
	g.POST("/leases/:id/receipts", o.CreateReceipt)
	g.GET("/leases/:id/receipts", o.ListReceipts)
	g.POST("/leases/:id/invite", o.CreateInvite)

	// ---- Documents ----
	g.GET("/inventories/:id/document", o.InventoryDocument)
	g.GET("/receipts/:id/document", o.ReceiptDocument)
}
