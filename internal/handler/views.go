// views.go is the single mapping layer between storage rows (snake_case
// columns, sql.Null* fields) and the camelCase JSON shapes the API exposes.
// Handlers never rename fields inline; every entity crosses this file once.
package handler

import (
	"database/sql"

	"github.com/lmarsolier/gestloc/internal/repository"
)

type sectionView struct {
	ID         uint64 `json:"id"`
	PropertyID uint64 `json:"propertyId"`
	Name       string `json:"name"`
	Ordre      int    `json:"ordre"`
	CreatedAt  string `json:"createdAt"`
}

type itemView struct {
	ID          uint64  `json:"id"`
	PropertyID  uint64  `json:"propertyId"`
	SectionID   *uint64 `json:"sectionId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Ordre       int     `json:"ordre"`
	CreatedAt   string  `json:"createdAt"`
}

type inventoryView struct {
	ID               uint64  `json:"id"`
	PropertyID       uint64  `json:"propertyId"`
	Type             string  `json:"type"`
	TenantName       string  `json:"tenantName"`
	EntryInventoryID *uint64 `json:"entryInventoryId"`
	Termine          bool    `json:"termine"`
	CreatedAt        string  `json:"createdAt"`
}

type inventoryItemView struct {
	ID           uint64  `json:"id"`
	InventoryID  uint64  `json:"inventoryId"`
	ItemID       *uint64 `json:"itemId"`
	SectionID    *uint64 `json:"sectionId"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	EntryChecked bool    `json:"entryChecked"`
	EntryRating  int     `json:"entryRating"`
	EntryComment string  `json:"entryComment"`
	ExitChecked  bool    `json:"exitChecked"`
	ExitRating   int     `json:"exitRating"`
	ExitComment  string  `json:"exitComment"`
	Ordre        int     `json:"ordre"`
}

type leaseView struct {
	ID           uint64  `json:"id"`
	PropertyID   uint64  `json:"propertyId"`
	TenantUserID *uint64 `json:"tenantUserId"`
	TenantName   string  `json:"tenantName"`
	RentCents    uint32  `json:"rentCents"`
	ChargesCents uint32  `json:"chargesCents"`
	StartDate    string  `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Archived     bool    `json:"archived"`
	CreatedAt    string  `json:"createdAt"`
}

type receiptView struct {
	ID           uint64 `json:"id"`
	LeaseID      uint64 `json:"leaseId"`
	Reference    string `json:"reference"`
	PeriodStart  string `json:"periodStart"`
	PeriodEnd    string `json:"periodEnd"`
	RentCents    uint32 `json:"rentCents"`
	ChargesCents uint32 `json:"chargesCents"`
	CreatedAt    string `json:"createdAt"`
}

// tenantSummary is the denormalized "current tenant" projection attached to
// each property in list responses, derived from the active lease.
type tenantSummary struct {
	Name      string `json:"name"`
	RentCents uint32 `json:"rentCents"`
}

type propertyView struct {
	ID            uint64          `json:"id"`
	Name          string          `json:"name"`
	Address       string          `json:"address"`
	CreatedAt     string          `json:"createdAt"`
	Sections      []sectionView   `json:"sections"`
	Items         []itemView      `json:"items"`
	Inventories   []inventoryView `json:"inventories"`
	CurrentTenant *tenantSummary  `json:"currentTenant"`
}

func optU64(v sql.NullInt64) *uint64 {
	if !v.Valid {
		return nil
	}
	u := uint64(v.Int64)
	return &u
}

func optStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func toSectionView(s *repository.Section) sectionView {
	return sectionView{ID: s.ID, PropertyID: s.PropertyID, Name: s.Name, Ordre: s.Ordre, CreatedAt: s.CreatedAt}
}

func toItemView(it *repository.Item) itemView {
	return itemView{
		ID:          it.ID,
		PropertyID:  it.PropertyID,
		SectionID:   optU64(it.SectionID),
		Name:        it.Name,
		Description: it.Description.String,
		Ordre:       it.Ordre,
		CreatedAt:   it.CreatedAt,
	}
}

func toInventoryView(inv *repository.Inventory) inventoryView {
	return inventoryView{
		ID:               inv.ID,
		PropertyID:       inv.PropertyID,
		Type:             inv.Type,
		TenantName:       inv.TenantName,
		EntryInventoryID: optU64(inv.EntryInventoryID),
		Termine:          inv.Termine,
		CreatedAt:        inv.CreatedAt,
	}
}

func toInventoryItemView(ii *repository.InventoryItem) inventoryItemView {
	return inventoryItemView{
		ID:           ii.ID,
		InventoryID:  ii.InventoryID,
		ItemID:       optU64(ii.ItemID),
		SectionID:    optU64(ii.SectionID),
		Name:         ii.Name,
		Description:  ii.Description.String,
		EntryChecked: ii.EntryChecked,
		EntryRating:  ii.EntryRating,
		EntryComment: ii.EntryComment,
		ExitChecked:  ii.ExitChecked,
		ExitRating:   ii.ExitRating,
		ExitComment:  ii.ExitComment,
		Ordre:        ii.Ordre,
	}
}

func toLeaseView(l *repository.Lease) leaseView {
	return leaseView{
		ID:           l.ID,
		PropertyID:   l.PropertyID,
		TenantUserID: optU64(l.TenantUserID),
		TenantName:   l.TenantName,
		RentCents:    l.RentCents,
		ChargesCents: l.ChargesCents,
		StartDate:    l.StartDate,
		EndDate:      optStr(l.EndDate),
		Archived:     l.Archived,
		CreatedAt:    l.CreatedAt,
	}
}

func toReceiptView(rc *repository.Receipt) receiptView {
	return receiptView{
		ID:           rc.ID,
		LeaseID:      rc.LeaseID,
		Reference:    rc.Reference,
		PeriodStart:  rc.PeriodStart,
		PeriodEnd:    rc.PeriodEnd,
		RentCents:    rc.RentCents,
		ChargesCents: rc.ChargesCents,
		CreatedAt:    rc.CreatedAt,
	}
}

func toSectionViews(in []*repository.Section) []sectionView {
	out := make([]sectionView, 0, len(in))
	for _, s := range in {
		out = append(out, toSectionView(s))
	}
	return out
}

func toItemViews(in []*repository.Item) []itemView {
	out := make([]itemView, 0, len(in))
	for _, it := range in {
		out = append(out, toItemView(it))
	}
	return out
}

func toInventoryViews(in []*repository.Inventory) []inventoryView {
	out := make([]inventoryView, 0, len(in))
	for _, inv := range in {
		out = append(out, toInventoryView(inv))
	}
	return out
}

func toInventoryItemViews(in []*repository.InventoryItem) []inventoryItemView {
	out := make([]inventoryItemView, 0, len(in))
	for _, ii := range in {
		out = append(out, toInventoryItemView(ii))
	}
	return out
}

func toLeaseViews(in []*repository.Lease) []leaseView {
	out := make([]leaseView, 0, len(in))
	for _, l := range in {
		out = append(out, toLeaseView(l))
	}
	return out
}

func toReceiptViews(in []*repository.Receipt) []receiptView {
	out := make([]receiptView, 0, len(in))
	for _, rc := range in {
		out = append(out, toReceiptView(rc))
	}
	return out
}
