package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLeaseForInvites(t *testing.T, ctx context.Context, repo *LeaseRepo, pid uint64) *Lease {
	t.Helper()
	l := &Lease{PropertyID: pid, TenantName: "Jean", RentCents: 65000, StartDate: "2026-01-01"}
	require.NoError(t, repo.Create(ctx, l))
	return l
}

func TestInviteFindByHash(t *testing.T) {
	d := openTestDB(t)
	owner := seedOwner(t, d, "owner@example.com")
	pid := seedProperty(t, d, owner, "Maison")
	leases := NewLeaseRepo(d)
	repo := NewInviteRepo(d)
	ctx := context.Background()
	l := newLeaseForInvites(t, ctx, leases, pid)

	exp := time.Now().UTC().Add(7 * 24 * time.Hour)
	id, err := repo.Create(ctx, l.ID, "jean@example.com", "somehash", exp)
	require.NoError(t, err)
	assert.NotZero(t, id)

	inv, err := repo.FindByHash(ctx, "somehash")
	require.NoError(t, err)
	assert.Equal(t, l.ID, inv.LeaseID)
	assert.Equal(t, "jean@example.com", inv.Email)
	assert.False(t, inv.AcceptedAt.Valid)

	_, err = repo.FindByHash(ctx, "unknown")
	assert.ErrorIs(t, err, ErrInviteNotFound)
}

func TestInviteExpiredIsNotFound(t *testing.T) {
	d := openTestDB(t)
	owner := seedOwner(t, d, "owner@example.com")
	pid := seedProperty(t, d, owner, "Maison")
	leases := NewLeaseRepo(d)
	repo := NewInviteRepo(d)
	ctx := context.Background()
	l := newLeaseForInvites(t, ctx, leases, pid)

	exp := time.Now().UTC().Add(-time.Hour)
	_, err := repo.Create(ctx, l.ID, "jean@example.com", "expiredhash", exp)
	require.NoError(t, err)

	_, err = repo.FindByHash(ctx, "expiredhash")
	assert.ErrorIs(t, err, ErrInviteNotFound)
}

func TestInviteSingleUse(t *testing.T) {
	d := openTestDB(t)
	owner := seedOwner(t, d, "owner@example.com")
	pid := seedProperty(t, d, owner, "Maison")
	leases := NewLeaseRepo(d)
	repo := NewInviteRepo(d)
	ctx := context.Background()
	l := newLeaseForInvites(t, ctx, leases, pid)

	exp := time.Now().UTC().Add(7 * 24 * time.Hour)
	id, err := repo.Create(ctx, l.ID, "jean@example.com", "usehash", exp)
	require.NoError(t, err)

	require.NoError(t, repo.MarkAccepted(ctx, id))

	// A used token still resolves, with AcceptedAt set, so callers can tell
	// it apart from an unknown one. It cannot be accepted again.
	inv, err := repo.FindByHash(ctx, "usehash")
	require.NoError(t, err)
	assert.True(t, inv.AcceptedAt.Valid)
	assert.ErrorIs(t, repo.MarkAccepted(ctx, id), ErrInviteNotFound)
}
