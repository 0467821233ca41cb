package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio")

	rec := env.call(t, env.owner.CreateSection, http.MethodPost,
		echo.Map{"name": "  Cuisine  "}, "id", u64s(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var sec sectionView
	decodeBody(t, rec, &sec)
	assert.Equal(t, "Cuisine", sec.Name)
	assert.Equal(t, 0, sec.Ordre)

	rec = env.call(t, env.owner.RenameSection, http.MethodPut,
		echo.Map{"name": "Cuisine equipee"}, "id", u64s(p.ID), "sectionId", u64s(sec.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &sec)
	assert.Equal(t, "Cuisine equipee", sec.Name)

	rec = env.call(t, env.owner.RenameSection, http.MethodPut,
		echo.Map{"name": "X"}, "id", u64s(p.ID), "sectionId", "424242")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.call(t, env.owner.DeleteSection, http.MethodDelete, nil,
		"id", u64s(p.ID), "sectionId", u64s(sec.ID))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteSectionKeepsItems(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio")
	sec := env.seedSection(t, p.ID, "Cuisine")
	env.seedItem(t, p.ID, sec, "Evier")

	rec := env.call(t, env.owner.DeleteSection, http.MethodDelete, nil,
		"id", u64s(p.ID), "sectionId", u64s(sec))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.call(t, env.owner.GetProperty, http.MethodGet, nil, "id", u64s(p.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	var view propertyView
	decodeBody(t, rec, &view)
	assert.Empty(t, view.Sections)
	require.Len(t, view.Items, 1)
	assert.Nil(t, view.Items[0].SectionID)
}

func TestReorderRewritesTemplate(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProperty(t, "Studio")
	cuisine := env.seedSection(t, p.ID, "Cuisine")
	salon := env.seedSection(t, p.ID, "Salon")
	evier := env.seedItem(t, p.ID, cuisine, "Evier")
	canape := env.seedItem(t, p.ID, salon, "Canape")

	rec := env.call(t, env.owner.Reorder, http.MethodPut, echo.Map{
		"sections": []echo.Map{{"id": salon}, {"id": cuisine}},
		"items": []echo.Map{
			{"id": canape, "sectionId": salon},
			{"id": evier, "sectionId": salon},
		},
	}, "id", u64s(p.ID))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.call(t, env.owner.GetProperty, http.MethodGet, nil, "id", u64s(p.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	var view propertyView
	decodeBody(t, rec, &view)

	require.Len(t, view.Sections, 2)
	assert.Equal(t, "Salon", view.Sections[0].Name)
	assert.Equal(t, "Cuisine", view.Sections[1].Name)

	require.Len(t, view.Items, 2)
	assert.Equal(t, "Canape", view.Items[0].Name)
	require.NotNil(t, view.Items[1].SectionID)
	assert.Equal(t, salon, *view.Items[1].SectionID)
}
