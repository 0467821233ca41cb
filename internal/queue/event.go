// Package queue defines message payloads exchanged over the message broker.
package queue

// InventoryCompletedEvent is published when an owner marks an inventory as
// completed. It carries enough context for downstream consumers to notify
// the tenant or archive the document without querying the primary database.
type InventoryCompletedEvent struct {
	InventoryID uint64 `json:"inventory_id"`
	PropertyID  uint64 `json:"property_id"`
	OwnerID     uint64 `json:"owner_id"`
	Type        string `json:"type"`
	TenantName  string `json:"tenant_name"`
	CompletedAt string `json:"completed_at"`
}

// LeaseSignedEvent is published when a new lease is recorded.
type LeaseSignedEvent struct {
	LeaseID      uint64 `json:"lease_id"`
	PropertyID   uint64 `json:"property_id"`
	OwnerID      uint64 `json:"owner_id"`
	TenantName   string `json:"tenant_name"`
	RentCents    uint32 `json:"rent_cents"`
	ChargesCents uint32 `json:"charges_cents"`
	StartDate    string `json:"start_date"`
	SignedAt     string `json:"signed_at"`
}
