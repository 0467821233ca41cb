package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lmarsolier/gestloc/internal/repository"
)

// Document rendering builds a self-contained HTML body and hands it to the
// external PDF service. The HTML is the contract: any Gotenberg-compatible
// converter can produce the final document.

var inventoryDocTmpl = template.Must(template.New("inventory").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>État des lieux</title>
<style>
body { font-family: sans-serif; font-size: 12px; }
h1 { font-size: 18px; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 4px 6px; text-align: left; }
</style></head>
<body>
<h1>État des lieux {{if eq .Inventory.Type "entry"}}d'entrée{{else}}de sortie{{end}}</h1>
<p><strong>{{.Property.Name}}</strong><br>{{.Property.Address}}</p>
<p>Locataire : {{.Inventory.TenantName}}<br>Établi le : {{.Inventory.CreatedAt}}</p>
<table>
<tr><th>Élément</th><th>Entrée</th><th>Note</th><th>Commentaire</th>{{if eq .Inventory.Type "exit"}}<th>Sortie</th><th>Note</th><th>Commentaire</th>{{end}}</tr>
{{range .Items}}<tr>
<td>{{.Name}}</td>
<td>{{if .EntryChecked}}✔{{end}}</td>
<td>{{.EntryRating}}/5</td>
<td>{{.EntryComment}}</td>
{{if eq $.Inventory.Type "exit"}}<td>{{if .ExitChecked}}✔{{end}}</td>
<td>{{.ExitRating}}/5</td>
<td>{{.ExitComment}}</td>{{end}}
</tr>{{end}}
</table>
</body>
</html>`))

var receiptDocTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Quittance de loyer</title>
<style>
body { font-family: sans-serif; font-size: 12px; }
h1 { font-size: 18px; }
</style></head>
<body>
<h1>Quittance de loyer</h1>
<p>Référence : {{.Receipt.Reference}}</p>
<p><strong>{{.Property.Name}}</strong><br>{{.Property.Address}}</p>
<p>Locataire : {{.Lease.TenantName}}</p>
<p>Période du {{.Receipt.PeriodStart}} au {{.Receipt.PeriodEnd}}</p>
<p>Loyer : {{printf "%.2f" .Rent}} €<br>
Charges : {{printf "%.2f" .Charges}} €<br>
<strong>Total : {{printf "%.2f" .Total}} €</strong></p>
<p>Émise le : {{.Receipt.CreatedAt}}</p>
</body>
</html>`))

// InventoryDocument handles GET /v1/inventories/:id/document.
func (h *OwnerHandler) InventoryDocument(c echo.Context) error {
	if h.Renderer == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "rendering disabled"})
	}
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	inv, propOwner, err := h.Inventories.GetWithOwner(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInventoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "inventory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load inventory failed"})
	}
	if propOwner != ownerID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "inventory not found"})
	}
	p, err := h.Properties.GetByIDAndOwner(ctx, inv.PropertyID, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
	}
	items, err := h.Inventories.ItemsByInventory(ctx, inv.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load inventory items failed"})
	}

	var buf bytes.Buffer
	data := struct {
		Inventory inventoryView
		Property  *repository.Property
		Items     []inventoryItemView
	}{toInventoryView(inv), p, toInventoryItemViews(items)}
	if err := inventoryDocTmpl.Execute(&buf, data); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build document failed"})
	}
	pdf, err := h.Renderer.RenderHTML(ctx, buf.String())
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "renderer unreachable"})
	}
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// ReceiptDocument handles GET /v1/receipts/:id/document.
func (h *OwnerHandler) ReceiptDocument(c echo.Context) error {
	if h.Renderer == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "rendering disabled"})
	}
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	rc, lease, propOwner, err := h.Leases.GetReceiptWithOwner(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReceiptNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "receipt not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load receipt failed"})
	}
	if propOwner != ownerID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "receipt not found"})
	}
	p, err := h.Properties.GetByIDAndOwner(ctx, lease.PropertyID, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
	}

	var buf bytes.Buffer
	data := struct {
		Receipt  receiptView
		Lease    leaseView
		Property *repository.Property
		Rent     float64
		Charges  float64
		Total    float64
	}{
		Receipt:  toReceiptView(rc),
		Lease:    toLeaseView(lease),
		Property: p,
		Rent:     float64(rc.RentCents) / 100,
		Charges:  float64(rc.ChargesCents) / 100,
		Total:    float64(rc.RentCents+rc.ChargesCents) / 100,
	}
	if err := receiptDocTmpl.Execute(&buf, data); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build document failed"})
	}
	pdf, err := h.Renderer.RenderHTML(ctx, buf.String())
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "renderer unreachable"})
	}
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
