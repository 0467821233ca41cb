package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lmarsolier/gestloc/internal/repository"
)

// TenantHandler serves the read-only tenant surface. A tenant only ever
// sees leases their account has been linked to via an invitation.
type TenantHandler struct {
	Leases *repository.LeaseRepo
}

func NewTenantHandler(leases *repository.LeaseRepo) *TenantHandler {
	if leases == nil {
		panic("nil repository passed to NewTenantHandler")
	}
	return &TenantHandler{Leases: leases}
}

// MyLeases handles GET /v1/tenant/leases.
func (h *TenantHandler) MyLeases(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	leases, err := h.Leases.ListByTenant(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list leases failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"leases": toLeaseViews(leases)})
}

// MyReceipts handles GET /v1/tenant/leases/:id/receipts.
func (h *TenantHandler) MyReceipts(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	l, _, err := h.Leases.GetWithOwner(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLeaseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lease not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lease failed"})
	}
	if !l.TenantUserID.Valid || uint64(l.TenantUserID.Int64) != uid {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "lease not found"})
	}
	receipts, err := h.Leases.ReceiptsByLease(ctx, l.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list receipts failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"receipts": toReceiptViews(receipts)})
}
