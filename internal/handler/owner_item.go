package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lmarsolier/gestloc/internal/repository"
)

type itemReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	SectionID   *uint64 `json:"sectionId"`
}

// CreateItem handles POST /v1/properties/:id/items. The section reference is
// optional; when given it must belong to the same property.
func (h *OwnerHandler) CreateItem(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	var req itemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	it := &repository.Item{PropertyID: p.ID, Name: req.Name}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		it.Description = sql.NullString{String: desc, Valid: true}
	}
	if req.SectionID != nil {
		if _, err := h.Sections.GetByIDAndProperty(c.Request().Context(), *req.SectionID, p.ID); err != nil {
			if errors.Is(err, repository.ErrSectionNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "section not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load section failed"})
		}
		it.SectionID = sql.NullInt64{Int64: int64(*req.SectionID), Valid: true}
	}
	if err := h.Items.Create(c.Request().Context(), it); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create item failed"})
	}
	return c.JSON(http.StatusCreated, toItemView(it))
}

// UpdateItemSection handles PUT /v1/properties/:id/items/:itemId. Only the
// section assignment moves here; null detaches the item.
func (h *OwnerHandler) UpdateItemSection(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	var req struct {
		SectionID *uint64 `json:"sectionId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var sectionID sql.NullInt64
	if req.SectionID != nil {
		if _, err := h.Sections.GetByIDAndProperty(c.Request().Context(), *req.SectionID, p.ID); err != nil {
			if errors.Is(err, repository.ErrSectionNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "section not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load section failed"})
		}
		sectionID = sql.NullInt64{Int64: int64(*req.SectionID), Valid: true}
	}
	if err := h.Items.UpdateSection(c.Request().Context(), itemID, p.ID, sectionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update item failed"})
	}
	it, err := h.Items.GetByIDAndProperty(c.Request().Context(), itemID, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load item failed"})
	}
	return c.JSON(http.StatusOK, toItemView(it))
}

// DeleteItem handles DELETE /v1/properties/:id/items/:itemId.
func (h *OwnerHandler) DeleteItem(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	if err := h.Items.DeleteByIDAndProperty(c.Request().Context(), itemID, p.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete item failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type reorderReq struct {
	Sections []struct {
		ID uint64 `json:"id"`
	} `json:"sections"`
	Items []struct {
		ID        uint64  `json:"id"`
		SectionID *uint64 `json:"sectionId"`
	} `json:"items"`
}

// Reorder handles PUT /v1/properties/:id/reorder. Each submitted list is a
// full rewrite: position in the array becomes the new ordre, and items may
// change section in the same pass. Rows left out of the list keep their old
// ordre value.
func (h *OwnerHandler) Reorder(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	var req reorderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	if len(req.Sections) > 0 {
		ids := make([]uint64, 0, len(req.Sections))
		for _, s := range req.Sections {
			ids = append(ids, s.ID)
		}
		if err := h.Sections.Reorder(ctx, p.ID, ids); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reorder sections failed"})
		}
	}
	if len(req.Items) > 0 {
		ordered := make([]repository.ItemOrder, 0, len(req.Items))
		for _, it := range req.Items {
			o := repository.ItemOrder{ID: it.ID}
			if it.SectionID != nil {
				o.SectionID = sql.NullInt64{Int64: int64(*it.SectionID), Valid: true}
			}
			ordered = append(ordered, o)
		}
		if err := h.Items.Reorder(ctx, p.ID, ordered); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reorder items failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
