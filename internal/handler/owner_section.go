package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lmarsolier/gestloc/internal/repository"
)

type sectionReq struct {
	Name string `json:"name"`
}

// CreateSection handles POST /v1/properties/:id/sections. New sections are
// appended at the end of the ordering.
func (h *OwnerHandler) CreateSection(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	var req sectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	s := &repository.Section{PropertyID: p.ID, Name: req.Name}
	if err := h.Sections.Create(c.Request().Context(), s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create section failed"})
	}
	return c.JSON(http.StatusCreated, toSectionView(s))
}

// RenameSection handles PUT /v1/properties/:id/sections/:sectionId.
func (h *OwnerHandler) RenameSection(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	sectionID, err := pathID(c, "sectionId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid section id"})
	}
	var req sectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if err := h.Sections.Rename(c.Request().Context(), sectionID, p.ID, req.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "section not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "rename section failed"})
	}
	s, err := h.Sections.GetByIDAndProperty(c.Request().Context(), sectionID, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load section failed"})
	}
	return c.JSON(http.StatusOK, toSectionView(s))
}

// DeleteSection handles DELETE /v1/properties/:id/sections/:sectionId.
// Items of the section are kept and detached, not deleted.
func (h *OwnerHandler) DeleteSection(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	sectionID, err := pathID(c, "sectionId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid section id"})
	}
	if err := h.Sections.DeleteByIDAndProperty(c.Request().Context(), sectionID, p.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "section not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete section failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
