// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Property model and repository methods for CRUD,
// cascade deletion and deep duplication. A Property represents a managed
// real-estate unit (house, apartment, room) owned by a single account; it
// carries a permanent template of sections and items from which inventory
// snapshots are taken.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values
)

// Property represents a property row persisted in the database. Each property
// belongs to a single owner. The ID field is the primary key and is
// auto-incremented by the DB.
type Property struct {
	ID        uint64 // ID is the unique identifier of the property
	OwnerID   uint64 // OwnerID references the users.id of the owner
	Name      string // Name is the human-friendly label of the property
	Address   string // Address is the postal address (may be empty)
	CreatedAt string // CreatedAt stores when the row was created
	UpdatedAt string // UpdatedAt stores when the row was last updated
}

// ErrPropertyNotFound is returned when a property cannot be found in the DB.
var ErrPropertyNotFound = errors.New("property not found")

// PropertyRepo encapsulates all database queries related to properties.
type PropertyRepo struct {
	db *sql.DB
}

// NewPropertyRepo constructs a PropertyRepo with the provided DB handle.
func NewPropertyRepo(db *sql.DB) *PropertyRepo {
	return &PropertyRepo{db: db}
}

// Create inserts a new property. On success the ID field is populated with
// the auto-generated value, then a follow-up SELECT fills the timestamp
// fields so callers receive a fully populated record.
func (r *PropertyRepo) Create(ctx context.Context, p *Property) error {
	const qInsert = "INSERT INTO properties (owner_id, name, address) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, p.OwnerID, p.Name, p.Address)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	const qSelect = "SELECT owner_id, name, address, created_at, updated_at FROM properties WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, p.ID).
		Scan(&p.OwnerID, &p.Name, &p.Address, &p.CreatedAt, &p.UpdatedAt)
}

// GetByIDAndOwner fetches a property by id but only if it belongs to the
// specified owner. If the property doesn't exist or is owned by someone
// else, ErrPropertyNotFound is returned.
func (r *PropertyRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*Property, error) {
	const q = "SELECT id, owner_id, name, address, created_at, updated_at FROM properties WHERE id = ? AND owner_id = ?"
	var p Property
	if err := r.db.QueryRowContext(ctx, q, id, ownerID).
		Scan(&p.ID, &p.OwnerID, &p.Name, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByOwner returns all properties for a specific owner ordered by id.
func (r *PropertyRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*Property, error) {
	const q = `SELECT id, owner_id, name, address, created_at, updated_at
	           FROM properties WHERE owner_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Property
	for rows.Next() {
		p := new(Property)
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the name and, when keepAddress is false, the address of a
// property belonging to the given owner. It returns sql.ErrNoRows when no
// row is affected (not found / not owned). Passing keepAddress=true
// preserves the stored address, matching the optional-preserve-if-omitted
// update contract.
func (r *PropertyRepo) Update(ctx context.Context, id, ownerID uint64, name, address string, keepAddress bool) error {
	var (
		res sql.Result
		err error
	)
	if keepAddress {
		const q = `UPDATE properties SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND owner_id = ?`
		res, err = r.db.ExecContext(ctx, q, name, id, ownerID)
	} else {
		const q = `UPDATE properties SET name = ?, address = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND owner_id = ?`
		res, err = r.db.ExecContext(ctx, q, name, address, id, ownerID)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndOwner removes a property and all dependent records (sections,
// items, inventories, inventory items, leases, receipts and invitations)
// provided it belongs to the specified owner. If the property does not
// exist, sql.ErrNoRows is returned. If the property exists but is owned by
// a different user, ErrForbidden is returned. The deletion occurs within a
// transaction to maintain integrity.
func (r *PropertyRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	// Verify property exists and ownership
	var dbOwnerID uint64
	if err = tx.QueryRowContext(ctx, `SELECT owner_id FROM properties WHERE id = ?`, id).Scan(&dbOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	if dbOwnerID != ownerID {
		return ErrForbidden
	}
	// Cascade delete: invitations and receipts hang off leases, inventory
	// items hang off inventories. Children go first to satisfy the FKs.
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM invitations WHERE lease_id IN (SELECT id FROM leases WHERE property_id = ?)`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM receipts WHERE lease_id IN (SELECT id FROM leases WHERE property_id = ?)`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM leases WHERE property_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM inventory_items WHERE inventory_id IN (SELECT id FROM inventories WHERE property_id = ?)`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM inventories WHERE property_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM items WHERE property_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sections WHERE property_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}

// Duplicate deep-copies a property belonging to the given owner: the
// property row itself, its sections (relative order preserved, new ids, an
// old→new id remapping table built along the way) and its items (order
// preserved, section references remapped through that table; items with a
// null section stay null). Inventories, leases and receipts are not copied.
// The whole copy runs in one transaction so a failed step leaves nothing
// behind. Returns the id of the new property.
func (r *PropertyRepo) Duplicate(ctx context.Context, id, ownerID uint64) (uint64, error) {
	var src Property
	const qSrc = "SELECT id, owner_id, name, address FROM properties WHERE id = ? AND owner_id = ?"
	if err := r.db.QueryRowContext(ctx, qSrc, id, ownerID).
		Scan(&src.ID, &src.OwnerID, &src.Name, &src.Address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPropertyNotFound
		}
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO properties (owner_id, name, address) VALUES (?, ?, ?)`,
		src.OwnerID, src.Name+" (copie)", src.Address)
	if err != nil {
		return 0, err
	}
	newID64, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	newID := uint64(newID64)

	// Copy sections in order, remembering old id -> new id.
	type srcSection struct {
		id    uint64
		name  string
		ordre int
	}
	var sections []srcSection
	rows, err := tx.QueryContext(ctx,
		`SELECT id, name, ordre FROM sections WHERE property_id = ? ORDER BY ordre, id`, id)
	if err != nil {
		return 0, err
	}
	for rows.Next() {
		var s srcSection
		if err = rows.Scan(&s.id, &s.name, &s.ordre); err != nil {
			rows.Close()
			return 0, err
		}
		sections = append(sections, s)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	sectionMap := make(map[uint64]uint64, len(sections))
	for _, s := range sections {
		var sres sql.Result
		sres, err = tx.ExecContext(ctx,
			`INSERT INTO sections (property_id, name, ordre) VALUES (?, ?, ?)`,
			newID, s.name, s.ordre)
		if err != nil {
			return 0, err
		}
		var sid int64
		sid, err = sres.LastInsertId()
		if err != nil {
			return 0, err
		}
		sectionMap[s.id] = uint64(sid)
	}

	// Copy items in order, routing section references through the map.
	type srcItem struct {
		sectionID   sql.NullInt64
		name        string
		description sql.NullString
		ordre       int
	}
	var items []srcItem
	rows, err = tx.QueryContext(ctx,
		`SELECT section_id, name, description, ordre FROM items WHERE property_id = ? ORDER BY ordre, id`, id)
	if err != nil {
		return 0, err
	}
	for rows.Next() {
		var it srcItem
		if err = rows.Scan(&it.sectionID, &it.name, &it.description, &it.ordre); err != nil {
			rows.Close()
			return 0, err
		}
		items = append(items, it)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	for _, it := range items {
		var newSection any
		if it.sectionID.Valid {
			if mapped, ok := sectionMap[uint64(it.sectionID.Int64)]; ok {
				newSection = mapped
			}
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO items (property_id, section_id, name, description, ordre) VALUES (?, ?, ?, ?, ?)`,
			newID, newSection, it.name, it.description, it.ordre); err != nil {
			return 0, err
		}
	}

	return newID, nil
}
