// This file implements the inventory (état des lieux) lifecycle: entry and
// exit snapshots of a property's item template, frozen at creation time.
// Creating an entry inventory copies the property's current template items;
// creating an exit inventory copies the inventory items of the entry
// inventory it closes out, carrying the entry assessment forward and
// resetting the exit side. Both copies run inside one transaction so a
// failed insert leaves no half-built snapshot behind.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Inventory types. Any other value is rejected before reaching this layer.
const (
	InventoryEntry = "entry"
	InventoryExit  = "exit"
)

// Inventory is one move-in or move-out snapshot for a property.
type Inventory struct {
	ID               uint64        // ID is the primary key
	PropertyID       uint64        // PropertyID references the parent property
	Type             string        // Type is "entry" or "exit"
	TenantName       string        // TenantName is free text naming the tenant
	EntryInventoryID sql.NullInt64 // EntryInventoryID points at the entry inventory an exit closes out
	Termine          bool          // Termine marks the inventory as completed
	CreatedAt        string        // CreatedAt stores creation timestamp
	UpdatedAt        string        // UpdatedAt stores last update timestamp
}

// InventoryItem is one item's condition record inside a specific snapshot.
// Name, description and section reference are copied at snapshot time and
// never follow later edits of the template item. The entry_* columns hold
// the move-in assessment; on an exit inventory they are the values carried
// forward from the entry snapshot and the exit_* columns hold the move-out
// assessment.
type InventoryItem struct {
	ID           uint64         // ID is the primary key
	InventoryID  uint64         // InventoryID references the owning snapshot
	ItemID       sql.NullInt64  // ItemID references the original template item
	SectionID    sql.NullInt64  // SectionID is the section reference copied at snapshot time
	Name         string         // Name copied from the template item
	Description  sql.NullString // Description copied from the template item
	EntryChecked bool           // EntryChecked is the move-in state flag
	EntryRating  int            // EntryRating is the move-in rating (0–5)
	EntryComment string         // EntryComment is the move-in free text
	ExitChecked  bool           // ExitChecked is the move-out state flag
	ExitRating   int            // ExitRating is the move-out rating (0–5)
	ExitComment  string         // ExitComment is the move-out free text
	Ordre        int            // Ordre is the display position
}

// ErrInventoryNotFound is returned when an inventory lookup fails.
var ErrInventoryNotFound = errors.New("inventory not found")

// ErrInventoryItemNotFound is returned when neither resolution of an
// inventory item reference matches a row.
var ErrInventoryItemNotFound = errors.New("inventory item not found")

// InventoryRepo provides the snapshot lifecycle over *sql.DB.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo constructs an InventoryRepo with the given DB handle.
func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

const inventoryCols = `id, property_id, type, tenant_name, entry_inventory_id, termine, created_at, updated_at`

func scanInventory(row interface{ Scan(...any) error }, inv *Inventory) error {
	return row.Scan(&inv.ID, &inv.PropertyID, &inv.Type, &inv.TenantName,
		&inv.EntryInventoryID, &inv.Termine, &inv.CreatedAt, &inv.UpdatedAt)
}

// Create inserts the inventory row and populates its item snapshot in one
// transaction. For an entry inventory the snapshot source is the property's
// current template items (ordered); for an exit inventory it is the
// inventory items of the referenced entry inventory (ordered), with the
// entry assessment carried forward and the exit side reset to unset/0/"".
// The caller is responsible for validating Type and, for exits, that
// EntryInventoryID refers to an existing entry inventory of the same
// property (see GetByIDAndProperty).
func (r *InventoryRepo) Create(ctx context.Context, inv *Inventory) error {
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

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`INSERT INTO inventories (property_id, type, tenant_name, entry_inventory_id) VALUES (?, ?, ?, ?)`,
		inv.PropertyID, inv.Type, inv.TenantName, inv.EntryInventoryID)
	if err != nil {
		return err
	}
	var id int64
	id, err = res.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = uint64(id)

	if inv.Type == InventoryEntry {
		err = r.snapshotFromTemplate(ctx, tx, inv)
	} else {
		err = r.snapshotFromEntry(ctx, tx, inv, uint64(inv.EntryInventoryID.Int64))
	}
	if err != nil {
		return err
	}

	err = scanInventory(tx.QueryRowContext(ctx,
		`SELECT `+inventoryCols+` FROM inventories WHERE id = ?`, inv.ID), inv)
	return err
}

// snapshotFromTemplate copies the property's current template items into the
// new inventory with all state fields unset.
func (r *InventoryRepo) snapshotFromTemplate(ctx context.Context, tx *sql.Tx, inv *Inventory) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, section_id, name, description, ordre FROM items WHERE property_id = ? ORDER BY ordre, id`,
		inv.PropertyID)
	if err != nil {
		return err
	}
	type src struct {
		id        uint64
		sectionID sql.NullInt64
		name      string
		desc      sql.NullString
		ordre     int
	}
	var sources []src
	for rows.Next() {
		var s src
		if err := rows.Scan(&s.id, &s.sectionID, &s.name, &s.desc, &s.ordre); err != nil {
			rows.Close()
			return err
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	const qInsert = `INSERT INTO inventory_items
	    (inventory_id, item_id, section_id, name, description, entry_checked, entry_rating, entry_comment, exit_checked, exit_rating, exit_comment, ordre)
	    VALUES (?, ?, ?, ?, ?, 0, 0, '', 0, 0, '', ?)`
	for _, s := range sources {
		if _, err := tx.ExecContext(ctx, qInsert, inv.ID, s.id, s.sectionID, s.name, s.desc, s.ordre); err != nil {
			return err
		}
	}
	return nil
}

// snapshotFromEntry copies the inventory items of the referenced entry
// inventory: entry flag, rating and comment travel as the frozen move-in
// baseline, the exit side starts fresh.
func (r *InventoryRepo) snapshotFromEntry(ctx context.Context, tx *sql.Tx, inv *Inventory, entryID uint64) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT item_id, section_id, name, description, entry_checked, entry_rating, entry_comment, ordre
		 FROM inventory_items WHERE inventory_id = ? ORDER BY ordre, id`, entryID)
	if err != nil {
		return err
	}
	type src struct {
		itemID    sql.NullInt64
		sectionID sql.NullInt64
		name      string
		desc      sql.NullString
		checked   bool
		rating    int
		comment   string
		ordre     int
	}
	var sources []src
	for rows.Next() {
		var s src
		if err := rows.Scan(&s.itemID, &s.sectionID, &s.name, &s.desc, &s.checked, &s.rating, &s.comment, &s.ordre); err != nil {
			rows.Close()
			return err
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	const qInsert = `INSERT INTO inventory_items
	    (inventory_id, item_id, section_id, name, description, entry_checked, entry_rating, entry_comment, exit_checked, exit_rating, exit_comment, ordre)
	    VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, '', ?)`
	for _, s := range sources {
		if _, err := tx.ExecContext(ctx, qInsert, inv.ID, s.itemID, s.sectionID, s.name, s.desc, s.checked, s.rating, s.comment, s.ordre); err != nil {
			return err
		}
	}
	return nil
}

// GetByIDAndProperty fetches an inventory only if it belongs to the given
// property. Returns ErrInventoryNotFound when the pair does not match.
func (r *InventoryRepo) GetByIDAndProperty(ctx context.Context, id, propertyID uint64) (*Inventory, error) {
	var inv Inventory
	err := scanInventory(r.db.QueryRowContext(ctx,
		`SELECT `+inventoryCols+` FROM inventories WHERE id = ? AND property_id = ?`, id, propertyID), &inv)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInventoryNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// GetWithOwner resolves an inventory by id together with the owner of its
// property, for routes addressed by inventory id alone. Returns
// ErrInventoryNotFound when absent.
func (r *InventoryRepo) GetWithOwner(ctx context.Context, id uint64) (*Inventory, uint64, error) {
	var (
		inv     Inventory
		ownerID uint64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT i.id, i.property_id, i.type, i.tenant_name, i.entry_inventory_id, i.termine, i.created_at, i.updated_at, p.owner_id
		 FROM inventories i JOIN properties p ON p.id = i.property_id
		 WHERE i.id = ?`, id).
		Scan(&inv.ID, &inv.PropertyID, &inv.Type, &inv.TenantName,
			&inv.EntryInventoryID, &inv.Termine, &inv.CreatedAt, &inv.UpdatedAt, &ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrInventoryNotFound
		}
		return nil, 0, err
	}
	return &inv, ownerID, nil
}

// ListByProperty returns inventory summaries newest first (no items).
func (r *InventoryRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]*Inventory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+inventoryCols+` FROM inventories WHERE property_id = ? ORDER BY created_at DESC, id DESC`,
		propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Inventory
	for rows.Next() {
		inv := new(Inventory)
		if err := scanInventory(rows, inv); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ItemsByInventory returns the snapshot rows of one inventory in order.
func (r *InventoryRepo) ItemsByInventory(ctx context.Context, inventoryID uint64) ([]*InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, inventory_id, item_id, section_id, name, description,
		        entry_checked, entry_rating, entry_comment, exit_checked, exit_rating, exit_comment, ordre
		 FROM inventory_items WHERE inventory_id = ? ORDER BY ordre, id`, inventoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*InventoryItem
	for rows.Next() {
		ii := new(InventoryItem)
		if err := rows.Scan(&ii.ID, &ii.InventoryID, &ii.ItemID, &ii.SectionID, &ii.Name, &ii.Description,
			&ii.EntryChecked, &ii.EntryRating, &ii.EntryComment, &ii.ExitChecked, &ii.ExitRating, &ii.ExitComment, &ii.Ordre); err != nil {
			return nil, err
		}
		out = append(out, ii)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// InventoryItemUpdate carries the mutable assessment fields. Nil pointers
// leave the stored value untouched. Rating and Comment land on the entry
// side for entry inventories and on the exit side for exit inventories.
type InventoryItemUpdate struct {
	EntryChecked *bool
	ExitChecked  *bool
	Rating       *int
	Comment      *string
}

// UpdateItem updates one snapshot row. The ref is resolved two ways: first
// as the inventory item's own id scoped to the inventory; if no row
// matches, as the original template item id scoped to the inventory. Both
// probes carry the inventory id, so the fallback can never land outside
// this snapshot. Returns ErrInventoryItemNotFound when neither matches.
func (r *InventoryRepo) UpdateItem(ctx context.Context, inventoryID, ref uint64, invType string, upd InventoryItemUpdate) (*InventoryItem, error) {
	var rowID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM inventory_items WHERE id = ? AND inventory_id = ?`, ref, inventoryID).Scan(&rowID)
	if errors.Is(err, sql.ErrNoRows) {
		// Fall back to the original template item id.
		err = r.db.QueryRowContext(ctx,
			`SELECT id FROM inventory_items WHERE item_id = ? AND inventory_id = ?`, ref, inventoryID).Scan(&rowID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, err
	}

	ratingCol, commentCol := "entry_rating", "entry_comment"
	if invType == InventoryExit {
		ratingCol, commentCol = "exit_rating", "exit_comment"
	}

	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if upd.EntryChecked != nil {
		sets = append(sets, "entry_checked = ?")
		args = append(args, *upd.EntryChecked)
	}
	if upd.ExitChecked != nil {
		sets = append(sets, "exit_checked = ?")
		args = append(args, *upd.ExitChecked)
	}
	if upd.Rating != nil {
		sets = append(sets, ratingCol+" = ?")
		args = append(args, *upd.Rating)
	}
	if upd.Comment != nil {
		sets = append(sets, commentCol+" = ?")
		args = append(args, *upd.Comment)
	}
	if len(sets) > 0 {
		args = append(args, rowID)
		q := "UPDATE inventory_items SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}

	var ii InventoryItem
	err = r.db.QueryRowContext(ctx,
		`SELECT id, inventory_id, item_id, section_id, name, description,
		        entry_checked, entry_rating, entry_comment, exit_checked, exit_rating, exit_comment, ordre
		 FROM inventory_items WHERE id = ?`, rowID).
		Scan(&ii.ID, &ii.InventoryID, &ii.ItemID, &ii.SectionID, &ii.Name, &ii.Description,
			&ii.EntryChecked, &ii.EntryRating, &ii.EntryComment, &ii.ExitChecked, &ii.ExitRating, &ii.ExitComment, &ii.Ordre)
	if err != nil {
		return nil, err
	}
	return &ii, nil
}

// Complete sets the termine flag. No other field changes. Returns
// sql.ErrNoRows when the (property, inventory) pair does not match.
func (r *InventoryRepo) Complete(ctx context.Context, id, propertyID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE inventories SET termine = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND property_id = ?`,
		id, propertyID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndProperty removes an inventory and its snapshot rows. An
// entry inventory still referenced by an exit inventory cannot be deleted:
// ErrConflict is returned instead. Returns sql.ErrNoRows when the
// (property, inventory) pair does not match.
func (r *InventoryRepo) DeleteByIDAndProperty(ctx context.Context, id, propertyID uint64) error {
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

	var invType string
	if err = tx.QueryRowContext(ctx,
		`SELECT type FROM inventories WHERE id = ? AND property_id = ?`, id, propertyID).Scan(&invType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	if invType == InventoryEntry {
		var refs int
		if err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM inventories WHERE entry_inventory_id = ?`, id).Scan(&refs); err != nil {
			return err
		}
		if refs > 0 {
			err = ErrConflict
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM inventory_items WHERE inventory_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM inventories WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}
