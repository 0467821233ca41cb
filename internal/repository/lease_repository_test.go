package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaseCreateAndList(t *testing.T) {
	d := openTestDB(t)
	owner := seedOwner(t, d, "owner@example.com")
	pid := seedProperty(t, d, owner, "Maison")
	repo := NewLeaseRepo(d)
	ctx := context.Background()

	l := &Lease{PropertyID: pid, TenantName: "Jean Dupont", RentCents: 65000, ChargesCents: 5000, StartDate: "2026-01-01"}
	require.NoError(t, repo.Create(ctx, l))
	assert.NotZero(t, l.ID)
	assert.False(t, l.Archived)

	list, err := repo.ListByProperty(ctx, pid)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2026-01-01", list[0].StartDate)
	assert.Equal(t, uint32(65000), list[0].RentCents)
}

func TestLeaseActiveByProperty(t *testing.T) {
	d := openTestDB(t)
	owner := seedOwner(t, d, "owner@example.com")
	pid := seedProperty(t, d, owner, "Maison")
	repo := NewLeaseRepo(d)
	ctx := context.Background()

	active, err := repo.ActiveByProperty(ctx, pid)
	require.NoError(t, err)
	assert.Nil(t, active)

	old := &Lease{PropertyID: pid, TenantName: "Ancien", RentCents: 60000, StartDate: "2024-01-01"}
	require.NoError(t, repo.Create(ctx, old))
	current := &Lease{PropertyID: pid, TenantName: "Nouveau", RentCents: 70000, StartDate: "2026-01-01"}
	require.NoError(t, repo.Create(ctx, current))

	active, err = repo.ActiveByProperty(ctx, pid)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "Nouveau", active.TenantName)

	// Archiving the newest lease promotes the previous one.
	require.NoError(t, repo.Archive(ctx, current.ID))
	active, err = repo.ActiveByProperty(ctx, pid)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "Ancien", active.TenantName)
}

func TestLeaseTerminateSetsEndDate(t *testing.T) {
	d := openTestDB(t)
	owner := seedOwner(t, d, "owner@example.com")
	pid := seedProperty(t, d, owner, "Maison")
	repo := NewLeaseRepo(d)
	ctx := context.Background()

	l := &Lease{PropertyID: pid, TenantName: "Jean", RentCents: 65000, StartDate: "2025-01-01"}
	require.NoError(t, repo.Create(ctx, l))

	require.NoError(t, repo.Terminate(ctx, l.ID, "2026-06-30"))
	got, ownerID, err := repo.GetWithOwner(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, owner, ownerID)
	require.True(t, got.EndDate.Valid)
	assert.Equal(t, "2026-06-30", got.EndDate.String)
}

func TestLeaseLinkTenant(t *testing.T) {
	d := openTestDB(t)
	owner := seedOwner(t, d, "owner@example.com")
	tenant := seedOwner(t, d, "tenant@example.com")
	pid := seedProperty(t, d, owner, "Maison")
	repo := NewLeaseRepo(d)
	ctx := context.Background()

	l := &Lease{PropertyID: pid, TenantName: "Jean", RentCents: 65000, StartDate: "2026-01-01"}
	require.NoError(t, repo.Create(ctx, l))
	require.NoError(t, repo.LinkTenant(ctx, l.ID, tenant))

	mine, err := repo.ListByTenant(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, l.ID, mine[0].ID)

	none, err := repo.ListByTenant(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReceiptFreezesLeaseAmounts(t *testing.T) {
	d := openTestDB(t)
	owner := seedOwner(t, d, "owner@example.com")
	pid := seedProperty(t, d, owner, "Maison")
	repo := NewLeaseRepo(d)
	ctx := context.Background()

	l := &Lease{PropertyID: pid, TenantName: "Jean", RentCents: 65000, ChargesCents: 5000, StartDate: "2026-01-01"}
	require.NoError(t, repo.Create(ctx, l))

	rc, err := repo.CreateReceipt(ctx, l.ID, "2026-02-01", "2026-02-28")
	require.NoError(t, err)
	assert.NotEmpty(t, rc.Reference)
	assert.Equal(t, uint32(65000), rc.RentCents)
	assert.Equal(t, uint32(5000), rc.ChargesCents)

	// A later rent change must not alter the issued receipt.
	_, err = d.Exec(`UPDATE leases SET rent_cents = 70000 WHERE id = ?`, l.ID)
	require.NoError(t, err)

	receipts, err := repo.ReceiptsByLease(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, uint32(65000), receipts[0].RentCents)

	second, err := repo.CreateReceipt(ctx, l.ID, "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	assert.NotEqual(t, rc.Reference, second.Reference)
	assert.Equal(t, uint32(70000), second.RentCents)
}

func TestGetReceiptWithOwner(t *testing.T) {
	d := openTestDB(t)
	owner := seedOwner(t, d, "owner@example.com")
	pid := seedProperty(t, d, owner, "Maison")
	repo := NewLeaseRepo(d)
	ctx := context.Background()

	l := &Lease{PropertyID: pid, TenantName: "Jean", RentCents: 65000, StartDate: "2026-01-01"}
	require.NoError(t, repo.Create(ctx, l))
	rc, err := repo.CreateReceipt(ctx, l.ID, "2026-02-01", "2026-02-28")
	require.NoError(t, err)

	got, lease, ownerID, err := repo.GetReceiptWithOwner(ctx, rc.ID)
	require.NoError(t, err)
	assert.Equal(t, rc.Reference, got.Reference)
	assert.Equal(t, l.ID, lease.ID)
	assert.Equal(t, owner, ownerID)

	_, _, _, err = repo.GetReceiptWithOwner(ctx, 9999)
	assert.ErrorIs(t, err, ErrReceiptNotFound)
}
