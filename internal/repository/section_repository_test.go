package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionCreateAppendsOrdre(t *testing.T) {
	d := openTestDB(t)
	owner := seedOwner(t, d, "owner@example.com")
	pid := seedProperty(t, d, owner, "Maison")
	repo := NewSectionRepo(d)
	ctx := context.Background()

	a := &Section{PropertyID: pid, Name: "Cuisine"}
	require.NoError(t, repo.Create(ctx, a))
	b := &Section{PropertyID: pid, Name: "Salon"}
	require.NoError(t, repo.Create(ctx, b))

	assert.Equal(t, 0, a.Ordre)
	assert.Equal(t, 1, b.Ordre)
}

func TestSectionRename(t *testing.T) {
	d := openTestDB(t)
	owner := seedOwner(t, d, "owner@example.com")
	pid := seedProperty(t, d, owner, "Maison")
	repo := NewSectionRepo(d)
	ctx := context.Background()

	s := &Section{PropertyID: pid, Name: "Cusine"}
	require.NoError(t, repo.Create(ctx, s))

	require.NoError(t, repo.Rename(ctx, s.ID, pid, "Cuisine"))
	got, err := repo.GetByIDAndProperty(ctx, s.ID, pid)
	require.NoError(t, err)
	assert.Equal(t, "Cuisine", got.Name)

	assert.ErrorIs(t, repo.Rename(ctx, s.ID, pid+1, "Nope"), sql.ErrNoRows)
}

func TestSectionDeleteDetachesItems(t *testing.T) {
	d := openTestDB(t)
	owner := seedOwner(t, d, "owner@example.com")
	pid := seedProperty(t, d, owner, "Maison")
	sections := NewSectionRepo(d)
	items := NewItemRepo(d)
	ctx := context.Background()

	s := &Section{PropertyID: pid, Name: "Cuisine"}
	require.NoError(t, sections.Create(ctx, s))
	it := &Item{PropertyID: pid, SectionID: sql.NullInt64{Int64: int64(s.ID), Valid: true}, Name: "Evier"}
	require.NoError(t, items.Create(ctx, it))

	require.NoError(t, sections.DeleteByIDAndProperty(ctx, s.ID, pid))

	_, err := sections.GetByIDAndProperty(ctx, s.ID, pid)
	assert.ErrorIs(t, err, ErrSectionNotFound)

	// The item survives, detached.
	got, err := items.GetByIDAndProperty(ctx, it.ID, pid)
	require.NoError(t, err)
	assert.False(t, got.SectionID.Valid)
}

func TestSectionReorderRewritesPositions(t *testing.T) {
	d := openTestDB(t)
	owner := seedOwner(t, d, "owner@example.com")
	pid := seedProperty(t, d, owner, "Maison")
	repo := NewSectionRepo(d)
	ctx := context.Background()

	a := &Section{PropertyID: pid, Name: "Cuisine"}
	require.NoError(t, repo.Create(ctx, a))
	b := &Section{PropertyID: pid, Name: "Salon"}
	require.NoError(t, repo.Create(ctx, b))
	c := &Section{PropertyID: pid, Name: "Chambre"}
	require.NoError(t, repo.Create(ctx, c))

	require.NoError(t, repo.Reorder(ctx, pid, []uint64{c.ID, a.ID, b.ID}))

	list, err := repo.ListByProperty(ctx, pid)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Chambre", list[0].Name)
	assert.Equal(t, "Cuisine", list[1].Name)
	assert.Equal(t, "Salon", list[2].Name)
	for pos, s := range list {
		assert.Equal(t, pos, s.Ordre)
	}
}

func TestSectionReorderIgnoresForeignIDs(t *testing.T) {
	d := openTestDB(t)
	owner := seedOwner(t, d, "owner@example.com")
	pid := seedProperty(t, d, owner, "Maison")
	otherPid := seedProperty(t, d, owner, "Studio")
	repo := NewSectionRepo(d)
	ctx := context.Background()

	mine := &Section{PropertyID: pid, Name: "Cuisine"}
	require.NoError(t, repo.Create(ctx, mine))
	foreign := &Section{PropertyID: otherPid, Name: "Salon"}
	require.NoError(t, repo.Create(ctx, foreign))

	require.NoError(t, repo.Reorder(ctx, pid, []uint64{foreign.ID, mine.ID}))

	got, err := repo.GetByIDAndProperty(ctx, foreign.ID, otherPid)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Ordre) // untouched by the other property's reorder
	got, err = repo.GetByIDAndProperty(ctx, mine.ID, pid)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Ordre)
}
