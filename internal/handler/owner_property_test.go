package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePropertyRequiresName(t *testing.T) {
	env := newTestEnv(t)

	rec := env.call(t, env.owner.CreateProperty, http.MethodPost, echo.Map{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPropertyDetailStartsEmpty(t *testing.T) {
	env := newTestEnv(t)

	p := env.createProperty(t, "T3 Part-Dieu")
	assert.Equal(t, "T3 Part-Dieu", p.Name)
	assert.NotNil(t, p.Sections)
	assert.Empty(t, p.Sections)
	assert.Empty(t, p.Items)
	assert.Empty(t, p.Inventories)
	assert.Nil(t, p.CurrentTenant)
}

func TestGetPropertyBundlesTemplateAndTenant(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "T3 Part-Dieu")
	sec := env.seedSection(t, p.ID, "Salon")
	env.seedItem(t, p.ID, sec, "Canape")

	rec := env.call(t, env.owner.CreateLease, http.MethodPost,
		echo.Map{"tenantName": "Bernard", "rentCents": 78000, "chargesCents": 5000, "startDate": "2026-01-01"},
		"id", u64s(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.call(t, env.owner.GetProperty, http.MethodGet, nil, "id", u64s(p.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	var view propertyView
	decodeBody(t, rec, &view)
	require.Len(t, view.Sections, 1)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Canape", view.Items[0].Name)
	require.NotNil(t, view.CurrentTenant)
	assert.Equal(t, "Bernard", view.CurrentTenant.Name)
	assert.Equal(t, uint32(78000), view.CurrentTenant.RentCents)
}

func TestGetPropertyOfAnotherOwner(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "T3 Part-Dieu")

	res, err := env.db.Exec(`INSERT INTO users (email, password_hash, role) VALUES ('other@test.fr', 'x', 'OWNER')`)
	require.NoError(t, err)
	otherID, err := res.LastInsertId()
	require.NoError(t, err)

	env.ownerID = uint64(otherID)
	rec := env.call(t, env.owner.GetProperty, http.MethodGet, nil, "id", u64s(p.ID))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdatePropertyKeepsAddressWhenOmitted(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio")

	rec := env.call(t, env.owner.UpdateProperty, http.MethodPut,
		echo.Map{"name": "Studio", "address": "12 rue des Capucins"}, "id", u64s(p.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.call(t, env.owner.UpdateProperty, http.MethodPut,
		echo.Map{"name": "Studio Pentes"}, "id", u64s(p.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	var view propertyView
	decodeBody(t, rec, &view)
	assert.Equal(t, "Studio Pentes", view.Name)
	assert.Equal(t, "12 rue des Capucins", view.Address)
}

func TestDeletePropertyThenGone(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio")

	rec := env.call(t, env.owner.DeleteProperty, http.MethodDelete, nil, "id", u64s(p.ID))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.call(t, env.owner.GetProperty, http.MethodGet, nil, "id", u64s(p.ID))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDuplicatePropertyReturnsCopy(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio")
	sec := env.seedSection(t, p.ID, "Cuisine")
	env.seedItem(t, p.ID, sec, "Evier")

	rec := env.call(t, env.owner.DuplicateProperty, http.MethodPost, nil, "id", u64s(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)

	var dup propertyView
	decodeBody(t, rec, &dup)
	assert.NotEqual(t, p.ID, dup.ID)
	assert.Equal(t, "Studio (copie)", dup.Name)
	require.Len(t, dup.Sections, 1)
	require.Len(t, dup.Items, 1)
	assert.Empty(t, dup.Inventories)
}
