package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmarsolier/gestloc/internal/renderer"
)

func TestInventoryDocumentWithoutRenderer(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio Lyon")

	rec := env.call(t, env.owner.CreateInventory, http.MethodPost,
		echo.Map{"type": "entry"}, "id", u64s(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var detail inventoryDetail
	decodeBody(t, rec, &detail)

	rec = env.call(t, env.owner.InventoryDocument, http.MethodGet, nil,
		"id", u64s(detail.Inventory.ID))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReceiptDocumentRendersPDF(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio Lyon")

	rec := env.call(t, env.owner.CreateLease, http.MethodPost,
		echo.Map{"tenantName": "Durand", "rentCents": 65000, "chargesCents": 4000, "startDate": "2026-02-01"},
		"id", u64s(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var lease leaseView
	decodeBody(t, rec, &lease)

	rec = env.call(t, env.owner.CreateReceipt, http.MethodPost,
		echo.Map{"periodStart": "2026-02-01", "periodEnd": "2026-02-28"}, "id", u64s(lease.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var receipt receiptView
	decodeBody(t, rec, &receipt)

	// Fake Gotenberg: any multipart conversion request answers with bytes.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/forms/chromium/convert/html", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()
	env.owner.Renderer = renderer.New(srv.URL)

	rec = env.call(t, env.owner.ReceiptDocument, http.MethodGet, nil, "id", u64s(receipt.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Body.String(), "%PDF")
}

func TestReceiptDocumentRendererDown(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio Lyon")

	rec := env.call(t, env.owner.CreateLease, http.MethodPost,
		echo.Map{"tenantName": "Durand", "rentCents": 65000, "startDate": "2026-02-01"},
		"id", u64s(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var lease leaseView
	decodeBody(t, rec, &lease)

	rec = env.call(t, env.owner.CreateReceipt, http.MethodPost,
		echo.Map{"periodStart": "2026-02-01", "periodEnd": "2026-02-28"}, "id", u64s(lease.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var receipt receiptView
	decodeBody(t, rec, &receipt)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "conversion failed", http.StatusInternalServerError)
	}))
	defer srv.Close()
	env.owner.Renderer = renderer.New(srv.URL)

	rec = env.call(t, env.owner.ReceiptDocument, http.MethodGet, nil, "id", u64s(receipt.ID))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
