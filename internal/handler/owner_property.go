package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lmarsolier/gestloc/internal/repository"
)

type propertyReq struct {
	Name    string  `json:"name"`
	Address *string `json:"address"`
}

// propertyDetail loads the eager projection of one property: sections,
// items, inventories and the current tenant derived from the active lease.
func (h *OwnerHandler) propertyDetail(ctx context.Context, p *repository.Property) (propertyView, error) {
	view := propertyView{
		ID:        p.ID,
		Name:      p.Name,
		Address:   p.Address,
		CreatedAt: p.CreatedAt,
	}
	sections, err := h.Sections.ListByProperty(ctx, p.ID)
	if err != nil {
		return view, err
	}
	items, err := h.Items.ListByProperty(ctx, p.ID)
	if err != nil {
		return view, err
	}
	inventories, err := h.Inventories.ListByProperty(ctx, p.ID)
	if err != nil {
		return view, err
	}
	view.Sections = toSectionViews(sections)
	view.Items = toItemViews(items)
	view.Inventories = toInventoryViews(inventories)

	active, err := h.Leases.ActiveByProperty(ctx, p.ID)
	if err != nil {
		return view, err
	}
	if active != nil {
		view.CurrentTenant = &tenantSummary{Name: active.TenantName, RentCents: active.RentCents}
	}
	return view, nil
}

// CreateProperty handles POST /v1/properties.
func (h *OwnerHandler) CreateProperty(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	p := &repository.Property{OwnerID: ownerID, Name: req.Name}
	if req.Address != nil {
		p.Address = strings.TrimSpace(*req.Address)
	}
	if err := h.Properties.Create(c.Request().Context(), p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create property failed"})
	}
	view, err := h.propertyDetail(c.Request().Context(), p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
	}
	return c.JSON(http.StatusCreated, view)
}

// ListProperties handles GET /v1/properties. Every property comes back with
// its full detail so the dashboard needs a single round trip.
func (h *OwnerHandler) ListProperties(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	props, err := h.Properties.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list properties failed"})
	}
	out := make([]propertyView, 0, len(props))
	for _, p := range props {
		view, err := h.propertyDetail(ctx, p)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
		}
		out = append(out, view)
	}
	return c.JSON(http.StatusOK, echo.Map{"properties": out})
}

// GetProperty handles GET /v1/properties/:id.
func (h *OwnerHandler) GetProperty(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	view, err := h.propertyDetail(c.Request().Context(), p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
	}
	return c.JSON(http.StatusOK, view)
}

// UpdateProperty handles PUT /v1/properties/:id. A missing address field
// leaves the stored address untouched; an explicit empty string clears it.
func (h *OwnerHandler) UpdateProperty(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	address := ""
	if req.Address != nil {
		address = strings.TrimSpace(*req.Address)
	}
	ownerID, _ := getUserID(c)
	if err := h.Properties.Update(c.Request().Context(), p.ID, ownerID, req.Name, address, req.Address == nil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update property failed"})
	}
	fresh, err := h.Properties.GetByIDAndOwner(c.Request().Context(), p.ID, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
	}
	view, err := h.propertyDetail(c.Request().Context(), fresh)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
	}
	return c.JSON(http.StatusOK, view)
}

// DeleteProperty handles DELETE /v1/properties/:id. The delete cascades over
// everything hanging off the property, leases and receipts included.
func (h *OwnerHandler) DeleteProperty(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Properties.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete property failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// DuplicateProperty handles POST /v1/properties/:id/duplicate. The copy
// carries the template (sections and items) but none of the inventories,
// leases or invitations.
func (h *OwnerHandler) DuplicateProperty(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	ownerID, _ := getUserID(c)
	newID, err := h.Properties.Duplicate(c.Request().Context(), p.ID, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "duplicate property failed"})
	}
	fresh, err := h.Properties.GetByIDAndOwner(c.Request().Context(), newID, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
	}
	view, err := h.propertyDetail(c.Request().Context(), fresh)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
	}
	return c.JSON(http.StatusCreated, view)
}
