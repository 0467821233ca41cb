package handler // handler defines http handlers

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/lmarsolier/gestloc/internal/renderer"
    "github.com/lmarsolier/gestloc/internal/repository"
)

// OwnerHandler bundles the repositories an authenticated owner needs to
// manage properties, templates, inventories, leases and invitations. The
// renderer client may be nil, in which case document endpoints answer 503.
type OwnerHandler struct {
    Properties  *repository.PropertyRepo
    Sections    *repository.SectionRepo
    Items       *repository.ItemRepo
    Inventories *repository.InventoryRepo
    Leases      *repository.LeaseRepo
    Invites     *repository.InviteRepo
    Users       *repository.UserRepo
    Renderer    *renderer.Client
    InviteTTL   int // invitation lifetime in days
    BcryptCost  int
}

// NewOwnerHandler constructs a new OwnerHandler and panics if any required
// dependency is nil.
func NewOwnerHandler(props *repository.PropertyRepo, sections *repository.SectionRepo, items *repository.ItemRepo,
    inventories *repository.InventoryRepo, leases *repository.LeaseRepo, invites *repository.InviteRepo,
    users *repository.UserRepo) *OwnerHandler {
    if props == nil || sections == nil || items == nil || inventories == nil || leases == nil || invites == nil || users == nil {
        panic("nil repository passed to NewOwnerHandler")
    }
    return &OwnerHandler{
        Properties:  props,
        Sections:    sections,
        Items:       items,
        Inventories: inventories,
        Leases:      leases,
        Invites:     invites,
        Users:       users,
    }
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// The JWT decoder may have stored the claim as any numeric type or a string.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}

// ownedProperty loads the property from the :id path parameter and checks it
// belongs to the authenticated owner. Nearly every owner endpoint starts
// with this dance, so it lives here. On failure the error response has
// already been written and ok is false; the handler should just return nil.
func (h *OwnerHandler) ownedProperty(c echo.Context) (*repository.Property, bool) {
    ownerID, err := getUserID(c)
    if err != nil {
        _ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        return nil, false
    }
    id, err := pathID(c, "id")
    if err != nil {
        _ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
        return nil, false
    }
    p, err := h.Properties.GetByIDAndOwner(c.Request().Context(), id, ownerID)
    if err != nil {
        if errors.Is(err, repository.ErrPropertyNotFound) {
            _ = c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
        } else {
            _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
        }
        return nil, false
    }
    return p, true
}
