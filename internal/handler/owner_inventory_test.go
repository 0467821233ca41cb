package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInventoryRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio Lyon")

	rec := env.call(t, env.owner.CreateInventory, http.MethodPost,
		echo.Map{"type": "annual"}, "id", u64s(p.ID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "type must be entry or exit", body["error"])
}

func TestCreateExitInventoryRequiresEntryReference(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio Lyon")

	rec := env.call(t, env.owner.CreateInventory, http.MethodPost,
		echo.Map{"type": "exit"}, "id", u64s(p.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.call(t, env.owner.CreateInventory, http.MethodPost,
		echo.Map{"type": "exit", "entryInventoryId": 999}, "id", u64s(p.ID))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateExitInventoryRejectsExitReference(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio Lyon")

	rec := env.call(t, env.owner.CreateInventory, http.MethodPost,
		echo.Map{"type": "entry", "tenantName": "Durand"}, "id", u64s(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var entry inventoryDetail
	decodeBody(t, rec, &entry)

	rec = env.call(t, env.owner.CreateInventory, http.MethodPost,
		echo.Map{"type": "exit", "entryInventoryId": entry.Inventory.ID}, "id", u64s(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var exit inventoryDetail
	decodeBody(t, rec, &exit)

	// An exit inventory cannot serve as the reference for another exit.
	rec = env.call(t, env.owner.CreateInventory, http.MethodPost,
		echo.Map{"type": "exit", "entryInventoryId": exit.Inventory.ID}, "id", u64s(p.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEntryInventorySnapshotsTemplate(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "T2 Croix-Rousse")
	cuisine := env.seedSection(t, p.ID, "Cuisine")
	env.seedItem(t, p.ID, cuisine, "Evier")
	env.seedItem(t, p.ID, cuisine, "Plaques")
	env.seedItem(t, p.ID, 0, "Compteur")

	rec := env.call(t, env.owner.CreateInventory, http.MethodPost,
		echo.Map{"type": "entry", "tenantName": "Martin"}, "id", u64s(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)

	var detail inventoryDetail
	decodeBody(t, rec, &detail)
	assert.Equal(t, "entry", detail.Inventory.Type)
	assert.Equal(t, "Martin", detail.Inventory.TenantName)
	assert.False(t, detail.Inventory.Termine)
	require.Len(t, detail.Items, 3)
	require.Len(t, detail.Sections, 1)
	assert.Equal(t, "Cuisine", detail.Sections[0].Name)

	for _, it := range detail.Items {
		assert.False(t, it.EntryChecked)
		assert.Zero(t, it.EntryRating)
	}
}

func TestUpdateInventoryItemValidation(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio Lyon")
	env.seedItem(t, p.ID, 0, "Evier")

	rec := env.call(t, env.owner.CreateInventory, http.MethodPost,
		echo.Map{"type": "entry"}, "id", u64s(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var detail inventoryDetail
	decodeBody(t, rec, &detail)
	invID := u64s(detail.Inventory.ID)
	ref := u64s(detail.Items[0].ID)

	rec = env.call(t, env.owner.UpdateInventoryItem, http.MethodPut,
		echo.Map{}, "id", invID, "ref", ref)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.call(t, env.owner.UpdateInventoryItem, http.MethodPut,
		echo.Map{"rating": 6}, "id", invID, "ref", ref)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.call(t, env.owner.UpdateInventoryItem, http.MethodPut,
		echo.Map{"rating": 3}, "id", invID, "ref", "424242")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateInventoryItemWritesEntrySide(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio Lyon")
	env.seedItem(t, p.ID, 0, "Evier")

	rec := env.call(t, env.owner.CreateInventory, http.MethodPost,
		echo.Map{"type": "entry"}, "id", u64s(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var detail inventoryDetail
	decodeBody(t, rec, &detail)

	rec = env.call(t, env.owner.UpdateInventoryItem, http.MethodPut,
		echo.Map{"entryChecked": true, "rating": 4, "comment": "rayures"},
		"id", u64s(detail.Inventory.ID), "ref", u64s(detail.Items[0].ID))
	require.Equal(t, http.StatusOK, rec.Code)

	var item inventoryItemView
	decodeBody(t, rec, &item)
	assert.True(t, item.EntryChecked)
	assert.Equal(t, 4, item.EntryRating)
	assert.Equal(t, "rayures", item.EntryComment)
	assert.Zero(t, item.ExitRating)
}

func TestUpdateInventoryItemHiddenFromOtherOwners(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio Lyon")
	env.seedItem(t, p.ID, 0, "Evier")

	rec := env.call(t, env.owner.CreateInventory, http.MethodPost,
		echo.Map{"type": "entry"}, "id", u64s(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var detail inventoryDetail
	decodeBody(t, rec, &detail)

	res, err := env.db.Exec(`INSERT INTO users (email, password_hash, role) VALUES ('other@test.fr', 'x', 'OWNER')`)
	require.NoError(t, err)
	otherID, err := res.LastInsertId()
	require.NoError(t, err)

	env.ownerID = uint64(otherID)
	rec = env.call(t, env.owner.UpdateInventoryItem, http.MethodPut,
		echo.Map{"rating": 3},
		"id", u64s(detail.Inventory.ID), "ref", u64s(detail.Items[0].ID))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteInventoryConflictWhileReferenced(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio Lyon")

	rec := env.call(t, env.owner.CreateInventory, http.MethodPost,
		echo.Map{"type": "entry"}, "id", u64s(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var entry inventoryDetail
	decodeBody(t, rec, &entry)

	rec = env.call(t, env.owner.CreateInventory, http.MethodPost,
		echo.Map{"type": "exit", "entryInventoryId": entry.Inventory.ID}, "id", u64s(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var exit inventoryDetail
	decodeBody(t, rec, &exit)

	rec = env.call(t, env.owner.DeleteInventory, http.MethodDelete, nil,
		"id", u64s(p.ID), "inventoryId", u64s(entry.Inventory.ID))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.call(t, env.owner.DeleteInventory, http.MethodDelete, nil,
		"id", u64s(p.ID), "inventoryId", u64s(exit.Inventory.ID))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.call(t, env.owner.DeleteInventory, http.MethodDelete, nil,
		"id", u64s(p.ID), "inventoryId", u64s(entry.Inventory.ID))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCompleteInventoryMarksTermine(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio Lyon")

	rec := env.call(t, env.owner.CreateInventory, http.MethodPost,
		echo.Map{"type": "entry"}, "id", u64s(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var entry inventoryDetail
	decodeBody(t, rec, &entry)

	rec = env.call(t, env.owner.CompleteInventory, http.MethodPost, nil,
		"id", u64s(p.ID), "inventoryId", u64s(entry.Inventory.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	var inv inventoryView
	decodeBody(t, rec, &inv)
	assert.True(t, inv.Termine)

	rec = env.call(t, env.owner.CompleteInventory, http.MethodPost, nil,
		"id", u64s(p.ID), "inventoryId", "424242")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
