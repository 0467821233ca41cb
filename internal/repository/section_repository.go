package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions
)

// Section represents a named grouping of template items within a property,
// such as "Cuisine" or "Salle de bain". Sections order themselves with a
// dense integer sequence (ordre) that is rewritten wholesale on reorder.
type Section struct {
	ID         uint64 // ID is the primary key of the section
	PropertyID uint64 // PropertyID references the parent property
	Name       string // Name is a human readable label
	Ordre      int    // Ordre is the position within the property
	CreatedAt  string // CreatedAt stores creation timestamp
	UpdatedAt  string // UpdatedAt stores last update timestamp
}

// ErrSectionNotFound is returned when a section lookup fails.
var ErrSectionNotFound = errors.New("section not found")

// SectionRepo provides methods to create, rename, reorder and delete
// sections. It embeds a database handle to perform queries and commands.
type SectionRepo struct {
	db *sql.DB
}

// NewSectionRepo constructs a SectionRepo with the given DB handle.
func NewSectionRepo(db *sql.DB) *SectionRepo {
	return &SectionRepo{db: db}
}

// Create inserts a new section at the end of the property's sequence. The
// ordre is assigned as the current section count for the property, so it is
// append-only; gaps left by deletions persist until the next full reorder.
func (r *SectionRepo) Create(ctx context.Context, s *Section) error {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sections WHERE property_id = ?`, s.PropertyID).Scan(&count); err != nil {
		return err
	}
	s.Ordre = count

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sections (property_id, name, ordre) VALUES (?, ?, ?)`,
		s.PropertyID, s.Name, s.Ordre)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const qSelect = `SELECT id, property_id, name, ordre, created_at, updated_at FROM sections WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, s.ID).
		Scan(&s.ID, &s.PropertyID, &s.Name, &s.Ordre, &s.CreatedAt, &s.UpdatedAt)
}

// GetByIDAndProperty retrieves a section only if it belongs to the given
// property. If no matching section is found, ErrSectionNotFound is returned.
func (r *SectionRepo) GetByIDAndProperty(ctx context.Context, id, propertyID uint64) (*Section, error) {
	const q = `SELECT id, property_id, name, ordre, created_at, updated_at FROM sections WHERE id = ? AND property_id = ?`
	var s Section
	err := r.db.QueryRowContext(ctx, q, id, propertyID).
		Scan(&s.ID, &s.PropertyID, &s.Name, &s.Ordre, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByProperty returns all sections for a property ordered by ordre.
func (r *SectionRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]*Section, error) {
	const q = `SELECT id, property_id, name, ordre, created_at, updated_at
	           FROM sections WHERE property_id = ? ORDER BY ordre, id`
	rows, err := r.db.QueryContext(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Section
	for rows.Next() {
		s := new(Section)
		if err := rows.Scan(&s.ID, &s.PropertyID, &s.Name, &s.Ordre, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Rename updates the section name if it belongs to the given property.
// Returns sql.ErrNoRows when not found.
func (r *SectionRepo) Rename(ctx context.Context, id, propertyID uint64, name string) error {
	const q = `UPDATE sections SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND property_id = ?`
	res, err := r.db.ExecContext(ctx, q, name, id, propertyID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndProperty removes a section after detaching its items. Items
// are never deleted with their section: their section reference is set to
// NULL first, then the section row goes. The detach must happen before the
// delete to satisfy the foreign key. Runs in a transaction. Returns
// sql.ErrNoRows when the (property, section) pair does not match.
func (r *SectionRepo) DeleteByIDAndProperty(ctx context.Context, id, propertyID uint64) error {
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

	var exists uint64
	if err = tx.QueryRowContext(ctx,
		`SELECT id FROM sections WHERE id = ? AND property_id = ?`, id, propertyID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE items SET section_id = NULL WHERE section_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}

// Reorder rewrites the ordre of every listed section to its positional
// index (0-based). The caller submits the complete ordered id list; ids
// not belonging to the property are skipped by the WHERE clause. One write
// per element, no optimistic locking: concurrent reorders are
// last-write-wins per row.
func (r *SectionRepo) Reorder(ctx context.Context, propertyID uint64, orderedIDs []uint64) error {
	const q = `UPDATE sections SET ordre = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND property_id = ?`
	for pos, id := range orderedIDs {
		if _, err := r.db.ExecContext(ctx, q, pos, id, propertyID); err != nil {
			return err
		}
	}
	return nil
}
