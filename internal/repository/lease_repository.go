// This file defines leases and their rent receipts. A lease ties a tenant
// (free-text name, optionally a linked user account) to a property with a
// monthly rent. The active lease of a property is the non-archived one with
// the most recent start date. Receipts freeze the lease amounts at issue
// time and carry a unique reference.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Lease mirrors the 'leases' table.
type Lease struct {
	ID           uint64         // ID is the primary key
	PropertyID   uint64         // PropertyID references the rented property
	TenantUserID sql.NullInt64  // TenantUserID links an invited tenant account; nullable
	TenantName   string         // TenantName is the tenant's display name
	RentCents    uint32         // RentCents is the monthly rent excluding charges
	ChargesCents uint32         // ChargesCents is the monthly charges figure
	StartDate    string         // StartDate is the first day of the tenancy (YYYY-MM-DD)
	EndDate      sql.NullString // EndDate is set when the lease is terminated
	Archived     bool           // Archived leases never count as active
	CreatedAt    string
	UpdatedAt    string
}

// Receipt mirrors the 'receipts' table (quittance de loyer).
type Receipt struct {
	ID           uint64 // ID is the primary key
	LeaseID      uint64 // LeaseID references the lease
	Reference    string // Reference is a unique identifier printed on the document
	PeriodStart  string // PeriodStart is the first day covered (YYYY-MM-DD)
	PeriodEnd    string // PeriodEnd is the last day covered (YYYY-MM-DD)
	RentCents    uint32 // RentCents frozen from the lease at issue time
	ChargesCents uint32 // ChargesCents frozen from the lease at issue time
	CreatedAt    string
}

// ErrLeaseNotFound is returned when a lease lookup fails.
var ErrLeaseNotFound = errors.New("lease not found")

// ErrReceiptNotFound is returned when a receipt lookup fails.
var ErrReceiptNotFound = errors.New("receipt not found")

// LeaseRepo provides lease and receipt persistence.
type LeaseRepo struct {
	db *sql.DB
}

// NewLeaseRepo constructs a LeaseRepo with the given DB handle.
func NewLeaseRepo(db *sql.DB) *LeaseRepo {
	return &LeaseRepo{db: db}
}

const leaseCols = `id, property_id, tenant_user_id, tenant_name, rent_cents, charges_cents, start_date, end_date, archived, created_at, updated_at`

func scanLease(row interface{ Scan(...any) error }, l *Lease) error {
	return row.Scan(&l.ID, &l.PropertyID, &l.TenantUserID, &l.TenantName, &l.RentCents, &l.ChargesCents,
		&l.StartDate, &l.EndDate, &l.Archived, &l.CreatedAt, &l.UpdatedAt)
}

// Create inserts a new lease and reads it back fully populated.
func (r *LeaseRepo) Create(ctx context.Context, l *Lease) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO leases (property_id, tenant_name, rent_cents, charges_cents, start_date) VALUES (?, ?, ?, ?, ?)`,
		l.PropertyID, l.TenantName, l.RentCents, l.ChargesCents, l.StartDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return scanLease(r.db.QueryRowContext(ctx,
		`SELECT `+leaseCols+` FROM leases WHERE id = ?`, l.ID), l)
}

// GetWithOwner resolves a lease by id together with the owner of its
// property, for routes addressed by lease id alone.
func (r *LeaseRepo) GetWithOwner(ctx context.Context, id uint64) (*Lease, uint64, error) {
	var (
		l       Lease
		ownerID uint64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT l.id, l.property_id, l.tenant_user_id, l.tenant_name, l.rent_cents, l.charges_cents,
		        l.start_date, l.end_date, l.archived, l.created_at, l.updated_at, p.owner_id
		 FROM leases l JOIN properties p ON p.id = l.property_id
		 WHERE l.id = ?`, id).
		Scan(&l.ID, &l.PropertyID, &l.TenantUserID, &l.TenantName, &l.RentCents, &l.ChargesCents,
			&l.StartDate, &l.EndDate, &l.Archived, &l.CreatedAt, &l.UpdatedAt, &ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrLeaseNotFound
		}
		return nil, 0, err
	}
	return &l, ownerID, nil
}

// ListByProperty returns all leases for a property, newest start date
// first, archived included.
func (r *LeaseRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]*Lease, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+leaseCols+` FROM leases WHERE property_id = ? ORDER BY start_date DESC, id DESC`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Lease
	for rows.Next() {
		l := new(Lease)
		if err := scanLease(rows, l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByTenant returns the leases linked to a tenant account, newest first.
func (r *LeaseRepo) ListByTenant(ctx context.Context, tenantUserID uint64) ([]*Lease, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+leaseCols+` FROM leases WHERE tenant_user_id = ? ORDER BY start_date DESC, id DESC`, tenantUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Lease
	for rows.Next() {
		l := new(Lease)
		if err := scanLease(rows, l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveByProperty returns the property's active lease: not archived, most
// recent start date. Returns nil, nil when the property has none.
func (r *LeaseRepo) ActiveByProperty(ctx context.Context, propertyID uint64) (*Lease, error) {
	var l Lease
	err := scanLease(r.db.QueryRowContext(ctx,
		`SELECT `+leaseCols+` FROM leases WHERE property_id = ? AND archived = 0 ORDER BY start_date DESC, id DESC LIMIT 1`,
		propertyID), &l)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// Terminate sets the end date of a lease. Returns sql.ErrNoRows when the
// lease does not exist.
func (r *LeaseRepo) Terminate(ctx context.Context, id uint64, endDate string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE leases SET end_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, endDate, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Archive flags a lease as archived. Returns sql.ErrNoRows when absent.
func (r *LeaseRepo) Archive(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE leases SET archived = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// LinkTenant attaches a tenant user account to a lease.
func (r *LeaseRepo) LinkTenant(ctx context.Context, id, tenantUserID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE leases SET tenant_user_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, tenantUserID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateReceipt issues a rent receipt for a period, freezing the lease
// amounts at issue time. The reference is a fresh UUID.
func (r *LeaseRepo) CreateReceipt(ctx context.Context, leaseID uint64, periodStart, periodEnd string) (*Receipt, error) {
	var rent, charges uint32
	err := r.db.QueryRowContext(ctx,
		`SELECT rent_cents, charges_cents FROM leases WHERE id = ?`, leaseID).Scan(&rent, &charges)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeaseNotFound
		}
		return nil, err
	}

	ref := uuid.NewString()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO receipts (lease_id, reference, period_start, period_end, rent_cents, charges_cents) VALUES (?, ?, ?, ?, ?, ?)`,
		leaseID, ref, periodStart, periodEnd, rent, charges)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	var rc Receipt
	err = r.db.QueryRowContext(ctx,
		`SELECT id, lease_id, reference, period_start, period_end, rent_cents, charges_cents, created_at FROM receipts WHERE id = ?`,
		uint64(id)).
		Scan(&rc.ID, &rc.LeaseID, &rc.Reference, &rc.PeriodStart, &rc.PeriodEnd, &rc.RentCents, &rc.ChargesCents, &rc.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// ReceiptsByLease returns a lease's receipts, newest period first.
func (r *LeaseRepo) ReceiptsByLease(ctx context.Context, leaseID uint64) ([]*Receipt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, lease_id, reference, period_start, period_end, rent_cents, charges_cents, created_at
		 FROM receipts WHERE lease_id = ? ORDER BY period_start DESC, id DESC`, leaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Receipt
	for rows.Next() {
		rc := new(Receipt)
		if err := rows.Scan(&rc.ID, &rc.LeaseID, &rc.Reference, &rc.PeriodStart, &rc.PeriodEnd, &rc.RentCents, &rc.ChargesCents, &rc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetReceiptWithOwner resolves a receipt by id together with its lease and
// the owner of the property, for the document endpoint.
func (r *LeaseRepo) GetReceiptWithOwner(ctx context.Context, id uint64) (*Receipt, *Lease, uint64, error) {
	var (
		rc      Receipt
		l       Lease
		ownerID uint64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT rc.id, rc.lease_id, rc.reference, rc.period_start, rc.period_end, rc.rent_cents, rc.charges_cents, rc.created_at,
		        l.id, l.property_id, l.tenant_user_id, l.tenant_name, l.rent_cents, l.charges_cents,
		        l.start_date, l.end_date, l.archived, l.created_at, l.updated_at, p.owner_id
		 FROM receipts rc
		 JOIN leases l ON l.id = rc.lease_id
		 JOIN properties p ON p.id = l.property_id
		 WHERE rc.id = ?`, id).
		Scan(&rc.ID, &rc.LeaseID, &rc.Reference, &rc.PeriodStart, &rc.PeriodEnd, &rc.RentCents, &rc.ChargesCents, &rc.CreatedAt,
			&l.ID, &l.PropertyID, &l.TenantUserID, &l.TenantName, &l.RentCents, &l.ChargesCents,
			&l.StartDate, &l.EndDate, &l.Archived, &l.CreatedAt, &l.UpdatedAt, &ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, 0, ErrReceiptNotFound
		}
		return nil, nil, 0, err
	}
	return &rc, &l, ownerID, nil
}
