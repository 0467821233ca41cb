package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lmarsolier/gestloc/internal/queue"
	"github.com/lmarsolier/gestloc/internal/repository"
	queue_publisher "github.com/lmarsolier/gestloc/internal/service"
)

const dateLayout = "2006-01-02"

type leaseReq struct {
	TenantName   string `json:"tenantName"`
	RentCents    uint32 `json:"rentCents"`
	ChargesCents uint32 `json:"chargesCents"`
	StartDate    string `json:"startDate"`
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// ownedLease loads the lease from the :id path parameter and checks the
// underlying property belongs to the caller. Same contract as
// ownedProperty: on failure the response is written and ok is false.
func (h *OwnerHandler) ownedLease(c echo.Context) (*repository.Lease, bool) {
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
	l, propOwner, err := h.Leases.GetWithOwner(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLeaseNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "lease not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return nil, false
	}
	if propOwner != ownerID {
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "lease not found"})
		return nil, false
	}
	return l, true
}

// CreateLease handles POST /v1/properties/:id/leases. The lease.signed
// event is fire-and-forget.
func (h *OwnerHandler) CreateLease(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	var req leaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.TenantName = strings.TrimSpace(req.TenantName)
	if req.TenantName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenantName required"})
	}
	if req.RentCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rentCents required"})
	}
	if !validDate(req.StartDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startDate must be YYYY-MM-DD"})
	}
	l := &repository.Lease{
		PropertyID:   p.ID,
		TenantName:   req.TenantName,
		RentCents:    req.RentCents,
		ChargesCents: req.ChargesCents,
		StartDate:    req.StartDate,
	}
	if err := h.Leases.Create(c.Request().Context(), l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create lease failed"})
	}

	ev := queue.LeaseSignedEvent{
		LeaseID:      l.ID,
		PropertyID:   p.ID,
		OwnerID:      p.OwnerID,
		TenantName:   l.TenantName,
		RentCents:    l.RentCents,
		ChargesCents: l.ChargesCents,
		StartDate:    l.StartDate,
		SignedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishLeaseSigned(pubCtx, ev)
	}()

	return c.JSON(http.StatusCreated, toLeaseView(l))
}

// ListLeases handles GET /v1/properties/:id/leases, archived included.
func (h *OwnerHandler) ListLeases(c echo.Context) error {
	p, ok := h.ownedProperty(c)
	if !ok {
		return nil
	}
	leases, err := h.Leases.ListByProperty(c.Request().Context(), p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list leases failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"leases": toLeaseViews(leases)})
}

// TerminateLease handles POST /v1/leases/:id/terminate.
func (h *OwnerHandler) TerminateLease(c echo.Context) error {
	l, ok := h.ownedLease(c)
	if !ok {
		return nil
	}
	var req struct {
		EndDate string `json:"endDate"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !validDate(req.EndDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endDate must be YYYY-MM-DD"})
	}
	if err := h.Leases.Terminate(c.Request().Context(), l.ID, req.EndDate); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "terminate lease failed"})
	}
	fresh, _, err := h.Leases.GetWithOwner(c.Request().Context(), l.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lease failed"})
	}
	return c.JSON(http.StatusOK, toLeaseView(fresh))
}

// ArchiveLease handles POST /v1/leases/:id/archive. Archived leases stop
// counting as the property's active lease.
func (h *OwnerHandler) ArchiveLease(c echo.Context) error {
	l, ok := h.ownedLease(c)
	if !ok {
		return nil
	}
	if err := h.Leases.Archive(c.Request().Context(), l.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "archive lease failed"})
	}
	fresh, _, err := h.Leases.GetWithOwner(c.Request().Context(), l.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lease failed"})
	}
	return c.JSON(http.StatusOK, toLeaseView(fresh))
}

// CreateReceipt handles POST /v1/leases/:id/receipts. Amounts are frozen
// from the lease at issue time.
func (h *OwnerHandler) CreateReceipt(c echo.Context) error {
	l, ok := h.ownedLease(c)
	if !ok {
		return nil
	}
	var req struct {
		PeriodStart string `json:"periodStart"`
		PeriodEnd   string `json:"periodEnd"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !validDate(req.PeriodStart) || !validDate(req.PeriodEnd) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "periodStart and periodEnd must be YYYY-MM-DD"})
	}
	if req.PeriodEnd < req.PeriodStart {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "periodEnd before periodStart"})
	}
	rc, err := h.Leases.CreateReceipt(c.Request().Context(), l.ID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create receipt failed"})
	}
	return c.JSON(http.StatusCreated, toReceiptView(rc))
}

// ListReceipts handles GET /v1/leases/:id/receipts.
func (h *OwnerHandler) ListReceipts(c echo.Context) error {
	l, ok := h.ownedLease(c)
	if !ok {
		return nil
	}
	receipts, err := h.Leases.ReceiptsByLease(c.Request().Context(), l.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list receipts failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"receipts": toReceiptViews(receipts)})
}
