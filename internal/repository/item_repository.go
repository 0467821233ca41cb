package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"
)

// Item is a template-level trackable object belonging to a property,
// independent of any tenancy. It may sit inside a section or float free
// (SectionID null). Ordre is property-wide, not per-section.
type Item struct {
	ID          uint64         // ID is the primary key of the item
	PropertyID  uint64         // PropertyID references the parent property
	SectionID   sql.NullInt64  // SectionID references the parent section; nullable
	Name        string         // Name is a human readable label
	Description sql.NullString // Description is optional text about the item
	Ordre       int            // Ordre is the position within the property
	CreatedAt   string         // CreatedAt stores creation timestamp
	UpdatedAt   string         // UpdatedAt stores last update timestamp
}

// ErrItemNotFound is returned when an item lookup fails.
var ErrItemNotFound = errors.New("item not found")

// ItemRepo provides methods to create and retrieve template items.
type ItemRepo struct {
	db *sql.DB
}

// NewItemRepo constructs an ItemRepo with the given DB handle.
func NewItemRepo(db *sql.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// Create inserts a new item at the end of the property's sequence. Ordre is
// the current item count for the whole property (not per section). After
// insert the record is read back so timestamps are populated.
func (r *ItemRepo) Create(ctx context.Context, it *Item) error {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE property_id = ?`, it.PropertyID).Scan(&count); err != nil {
		return err
	}
	it.Ordre = count

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO items (property_id, section_id, name, description, ordre) VALUES (?, ?, ?, ?, ?)`,
		it.PropertyID, it.SectionID, it.Name, it.Description, it.Ordre)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)

	const qSelect = `SELECT id, property_id, section_id, name, description, ordre, created_at, updated_at
	                 FROM items WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, it.ID).
		Scan(&it.ID, &it.PropertyID, &it.SectionID, &it.Name, &it.Description, &it.Ordre, &it.CreatedAt, &it.UpdatedAt)
}

// GetByIDAndProperty retrieves an item only if it belongs to the given
// property. Returns ErrItemNotFound when the pair does not match.
func (r *ItemRepo) GetByIDAndProperty(ctx context.Context, id, propertyID uint64) (*Item, error) {
	const q = `SELECT id, property_id, section_id, name, description, ordre, created_at, updated_at
	           FROM items WHERE id = ? AND property_id = ?`
	var it Item
	err := r.db.QueryRowContext(ctx, q, id, propertyID).
		Scan(&it.ID, &it.PropertyID, &it.SectionID, &it.Name, &it.Description, &it.Ordre, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

// ListByProperty returns all items for a property ordered by ordre.
func (r *ItemRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]*Item, error) {
	const q = `SELECT id, property_id, section_id, name, description, ordre, created_at, updated_at
	           FROM items WHERE property_id = ? ORDER BY ordre, id`
	rows, err := r.db.QueryContext(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Item
	for rows.Next() {
		it := new(Item)
		if err := rows.Scan(&it.ID, &it.PropertyID, &it.SectionID, &it.Name, &it.Description, &it.Ordre, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateSection reassigns an item's section (or detaches it when sectionID
// is null). Only the section assignment is mutable through this path.
// Returns sql.ErrNoRows when the (property, item) pair does not match.
func (r *ItemRepo) UpdateSection(ctx context.Context, id, propertyID uint64, sectionID sql.NullInt64) error {
	const q = `UPDATE items SET section_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND property_id = ?`
	res, err := r.db.ExecContext(ctx, q, sectionID, id, propertyID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndProperty removes an item. Returns sql.ErrNoRows when the
// (property, item) pair does not match.
func (r *ItemRepo) DeleteByIDAndProperty(ctx context.Context, id, propertyID uint64) error {
	const q = `DELETE FROM items WHERE id = ? AND property_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, propertyID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ItemOrder is one element of a full-replace item reorder: the item id in
// its new position, plus the section the item should land in (null detaches).
type ItemOrder struct {
	ID        uint64
	SectionID sql.NullInt64
}

// Reorder rewrites ordre for every listed item to its positional index and
// reassigns the section reference in the same pass. Full-replace semantics:
// unlisted items keep stale ordre values until the next complete submission.
func (r *ItemRepo) Reorder(ctx context.Context, propertyID uint64, ordered []ItemOrder) error {
	const q = `UPDATE items SET ordre = ?, section_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND property_id = ?`
	for pos, el := range ordered {
		if _, err := r.db.ExecContext(ctx, q, pos, el.SectionID, el.ID, propertyID); err != nil {
			return err
		}
	}
	return nil
}
