package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Invitation mirrors the 'invitations' table. Only the SHA-256 hash of the
// invitation token is stored; the raw token travels once in the invitation
// email and never comes back except on accept.
type Invitation struct {
	ID         uint64
	LeaseID    uint64
	Email      string
	TokenHash  string
	ExpiresAt  string
	AcceptedAt sql.NullString
	CreatedAt  string
}

// ErrInviteNotFound is returned for an unknown or expired invitation
// token.
var ErrInviteNotFound = errors.New("invitation not found")

// InviteRepo persists tenant invitations.
type InviteRepo struct{ DB *sql.DB }

func NewInviteRepo(db *sql.DB) *InviteRepo { return &InviteRepo{DB: db} }

// Create stores a new invitation hash for a lease.
func (r *InviteRepo) Create(ctx context.Context, leaseID uint64, email, tokenHash string, exp time.Time) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO invitations (lease_id, email, token_hash, expires_at) VALUES (?, ?, ?, ?)`,
		leaseID, email, tokenHash, exp.UTC().Format(sqlTime))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindByHash returns the invitation matching the hash if it has not
// expired, AcceptedAt included. Callers decide what an already accepted
// invitation means; a used token must stay distinguishable from an unknown
// one. ErrInviteNotFound for unknown or expired hashes.
func (r *InviteRepo) FindByHash(ctx context.Context, tokenHash string) (*Invitation, error) {
	var inv Invitation
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, lease_id, email, token_hash, expires_at, accepted_at, created_at
		 FROM invitations
		 WHERE token_hash = ? AND expires_at > ?
		 LIMIT 1`,
		tokenHash, time.Now().UTC().Format(sqlTime)).
		Scan(&inv.ID, &inv.LeaseID, &inv.Email, &inv.TokenHash, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// MarkAccepted stamps the invitation as used. The accepted_at guard keeps
// the token single-use even under a double submit.
func (r *InviteRepo) MarkAccepted(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE invitations SET accepted_at = CURRENT_TIMESTAMP WHERE id = ? AND accepted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInviteNotFound
	}
	return nil
}
