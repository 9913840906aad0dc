package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
)

func TestCategoryLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.tokenFor(t, domain.RoleAdmin)

	rec := s.do(http.MethodPost, "/categories", admin, map[string]interface{}{
		"name":          "Utilities",
		"subCategories": []string{"Power", "Water"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var category domain.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &category))
	assert.Equal(t, []string{"Power", "Water"}, category.SubCategories)

	rec = s.do(http.MethodPost, "/categories/"+category.ID+"/subcategories", admin, map[string]string{"name": "Gas"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPut, "/categories/"+category.ID+"/subcategories/Water", admin, map[string]string{"name": "Sewage"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodDelete, "/categories/"+category.ID+"/subcategories/Power", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/categories/"+category.ID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &category))
	assert.Equal(t, []string{"Sewage", "Gas"}, category.SubCategories)

	rec = s.do(http.MethodDelete, "/categories/"+category.ID, admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/categories/"+category.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCategory_Duplicate(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory("Fuel")
	admin := s.tokenFor(t, domain.RoleAdmin)

	rec := s.do(http.MethodPost, "/categories", admin, map[string]string{"name": "Fuel"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name", decodeProblem(t, rec).Errors[0].Field)
}

func TestCategories_RoleGates(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory("Fuel")
	staff := s.tokenFor(t, domain.RoleStaff)
	accountant := s.tokenFor(t, domain.RoleAccountant)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/categories", staff, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/categories", accountant, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/categories", accountant, map[string]string{"name": "X"}).Code)
}
