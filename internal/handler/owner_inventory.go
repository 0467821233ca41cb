package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lmarsolier/gestloc/internal/queue"
	"github.com/lmarsolier/gestloc/internal/repository"
	queue_publisher "github.com/lmarsolier/gestloc/internal/service"
)

type inventoryReq struct {
	Type             string  `json:"type"`
	TenantName       string  `json:"tenantName"`
	EntryInventoryID *uint64 `json:"entryInventoryId"`
}

type inventoryDetail struct {
	Inventory inventoryView       `json:"inventory"`
	Items     []inventoryItemView `json:"items"`
	Sections  []sectionView       `json:"sections"`
}

// CreateInventory handles POST /v1/properties/:id/inventories. An entry
// inventory snapshots the property's current template; an exit inventory
// snapshots the referenced entry inventory and carries its assessment
// forward.
func (h *OwnerHandler) CreateInventory(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	var req inventoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if req.Type != repository.InventoryEntry && req.Type != repository.InventoryExit {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be entry or exit"})
	}
	ctx := c.Request().Context()

	inv := &repository.Inventory{
		PropertyID: p.ID,
		Type:       req.Type,
		TenantName: strings.TrimSpace(req.TenantName),
	}
	if req.Type == repository.InventoryExit {
		if req.EntryInventoryID == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "entryInventoryId required for exit inventory"})
		}
		entry, err := h.Inventories.GetByIDAndProperty(ctx, *req.EntryInventoryID, p.ID)
		if err != nil {
			if errors.Is(err, repository.ErrInventoryNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "entry inventory not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load entry inventory failed"})
		}
		if entry.Type != repository.InventoryEntry {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "entryInventoryId must reference an entry inventory"})
		}
		inv.EntryInventoryID = sql.NullInt64{Int64: int64(entry.ID), Valid: true}
	}

	if err := h.Inventories.Create(ctx, inv); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create inventory failed"})
	}
	items, err := h.Inventories.ItemsByInventory(ctx, inv.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load inventory items failed"})
	}
	sections, err := h.Sections.ListByProperty(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load sections failed"})
	}
	return c.JSON(http.StatusCreated, inventoryDetail{
		Inventory: toInventoryView(inv),
		Items:     toInventoryItemViews(items),
		Sections:  toSectionViews(sections),
	})
}

// ListInventories handles GET /v1/properties/:id/inventories.
func (h *OwnerHandler) ListInventories(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	inventories, err := h.Inventories.ListByProperty(c.Request().Context(), p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list inventories failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"inventories": toInventoryViews(inventories)})
}

// GetInventory handles GET /v1/properties/:id/inventories/:inventoryId. The
// response bundles the snapshot items with the property's current sections
// so the client can group rows without another call.
func (h *OwnerHandler) GetInventory(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	invID, err := pathID(c, "inventoryId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inventory id"})
	}
	ctx := c.Request().Context()
	inv, err := h.Inventories.GetByIDAndProperty(ctx, invID, p.ID)
	if err != nil {
		if errors.Is(err, repository.ErrInventoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "inventory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load inventory failed"})
	}
	items, err := h.Inventories.ItemsByInventory(ctx, inv.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load inventory items failed"})
	}
	sections, err := h.Sections.ListByProperty(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load sections failed"})
	}
	return c.JSON(http.StatusOK, inventoryDetail{
		Inventory: toInventoryView(inv),
		Items:     toInventoryItemViews(items),
		Sections:  toSectionViews(sections),
	})
}

type inventoryItemReq struct {
	EntryChecked *bool   `json:"entryChecked"`
	ExitChecked  *bool   `json:"exitChecked"`
	Rating       *int    `json:"rating"`
	Comment      *string `json:"comment"`
}

// UpdateInventoryItem handles PUT /v1/inventories/:id/items/:ref. The :ref
// is resolved against the inventory-item id first, then against the original
// template-item id, both scoped to the inventory. Rating and comment land on
// the entry or exit side depending on the inventory type.
func (h *OwnerHandler) UpdateInventoryItem(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	invID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inventory id"})
	}
	ref, err := pathID(c, "ref")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item reference"})
	}
	var req inventoryItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EntryChecked == nil && req.ExitChecked == nil && req.Rating == nil && req.Comment == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 0 and 5"})
	}

	ctx := c.Request().Context()
	inv, propOwner, err := h.Inventories.GetWithOwner(ctx, invID)
	if err != nil {
		if errors.Is(err, repository.ErrInventoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "inventory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load inventory failed"})
	}
	if propOwner != ownerID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "inventory not found"})
	}

	upd := repository.InventoryItemUpdate{
		EntryChecked: req.EntryChecked,
		ExitChecked:  req.ExitChecked,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	item, err := h.Inventories.UpdateItem(ctx, inv.ID, ref, inv.Type, upd)
	if err != nil {
		if errors.Is(err, repository.ErrInventoryItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "inventory item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update inventory item failed"})
	}
	return c.JSON(http.StatusOK, toInventoryItemView(item))
}

// CompleteInventory handles POST /v1/properties/:id/inventories/:inventoryId/complete.
// The inventory.completed event is fire-and-forget; a broker outage never
// fails the request.
func (h *OwnerHandler) CompleteInventory(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	invID, err := pathID(c, "inventoryId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inventory id"})
	}
	ctx := c.Request().Context()
	if err := h.Inventories.Complete(ctx, invID, p.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "inventory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "complete inventory failed"})
	}
	inv, err := h.Inventories.GetByIDAndProperty(ctx, invID, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load inventory failed"})
	}

	ev := queue.InventoryCompletedEvent{
		InventoryID: inv.ID,
		PropertyID:  p.ID,
		OwnerID:     p.OwnerID,
		Type:        inv.Type,
		TenantName:  inv.TenantName,
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishInventoryCompleted(pubCtx, ev)
	}()

	return c.JSON(http.StatusOK, toInventoryView(inv))
}

// DeleteInventory handles DELETE /v1/properties/:id/inventories/:inventoryId.
// An entry inventory still referenced by an exit inventory answers 409.
func (h *OwnerHandler) DeleteInventory(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	invID, err := pathID(c, "inventoryId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inventory id"})
	}
	if err := h.Inventories.DeleteByIDAndProperty(c.Request().Context(), invID, p.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "inventory not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "inventory is referenced by an exit inventory"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete inventory failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
