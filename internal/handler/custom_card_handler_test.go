package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
)

func TestCustomCards(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory("Fuel")
	staff := s.tokenFor(t, domain.RoleStaff)
	accountant := s.tokenFor(t, domain.RoleAccountant)
	admin := s.tokenFor(t, domain.RoleAdmin)

	s.addExpense(t, accountant, map[string]interface{}{
		"category": "Fuel", "date": "2024-06-02", "amount": 25, "paymentStatus": "Paid", "paymentMode": "Cash",
	})
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/sales/add-sales", staff, map[string]interface{}{
		"date": "2024-06-02", "physicalCash": 100,
	}).Code)

	rec := s.do(http.MethodPost, "/custom-cards", accountant, map[string]interface{}{
		"name": "Cash after fuel",
		"entries": []map[string]string{
			{"category": domain.CardSourceSales, "operator": "+"},
			{"category": "Fuel", "operator": "-"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var card domain.CustomCard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))

	rec = s.do(http.MethodPut, "/custom-in-hand", accountant, map[string]interface{}{
		"entries": []map[string]string{{"cardId": card.ID, "operator": "+"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var inHand domain.CustomInHand
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inHand))
	require.Len(t, inHand.Entries, 1)
	assert.Equal(t, "Cash after fuel", inHand.Entries[0].CardName)

	rec = s.do(http.MethodGet, "/custom-cards/evaluate?month=6&year=2024", accountant, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result domain.CardEvaluation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Cards, 1)
	assert.True(t, result.Cards[0].Total.Equal(decimal.NewFromInt(75)), "card %s", result.Cards[0].Total)
	assert.True(t, result.InHand.Equal(decimal.NewFromInt(75)), "in hand %s", result.InHand)

	// Cards belong to their owner
	rec = s.do(http.MethodGet, "/custom-cards", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/custom-cards/"+card.ID, admin, nil).Code)

	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/custom-cards/"+card.ID, accountant, nil).Code)
}

func TestCustomCards_Validation(t *testing.T) {
	s := newTestServer(t)
	accountant := s.tokenFor(t, domain.RoleAccountant)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing name", map[string]interface{}{"entries": []map[string]string{{"category": "Sales", "operator": "+"}}}},
		{"unknown category", map[string]interface{}{"name": "X", "entries": []map[string]string{{"category": "Nope", "operator": "+"}}}},
		{"bad operator", map[string]interface{}{"name": "X", "entries": []map[string]string{{"category": "Sales", "operator": "*"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/custom-cards", accountant, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	rec := s.do(http.MethodPut, "/custom-in-hand", accountant, map[string]interface{}{
		"entries": []map[string]string{{"cardId": "missing", "operator": "+"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetInHand_Empty(t *testing.T) {
	s := newTestServer(t)
	accountant := s.tokenFor(t, domain.RoleAccountant)

	rec := s.do(http.MethodGet, "/custom-in-hand", accountant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inHand domain.CustomInHand
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inHand))
	assert.Empty(t, inHand.Entries)
}

func TestCustomCards_StaffForbidden(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory("Rent")
	staff := s.tokenFor(t, domain.RoleStaff)
	accountant := s.tokenFor(t, domain.RoleAccountant)

	s.addExpense(t, accountant, map[string]interface{}{
		"category": "Rent", "date": "2024-06-03", "amount": 1234, "paymentStatus": "Paid", "paymentMode": "Online",
	})
	require.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/expense/monthly-expense?month=6&year=2024", staff, nil).Code)

	rentCard := map[string]interface{}{
		"name":    "Rent",
		"entries": []map[string]string{{"category": "Rent", "operator": "+"}},
	}
	tests := []struct {
		name   string
		method string
		target string
		body   interface{}
	}{
		{"list cards", http.MethodGet, "/custom-cards", nil},
		{"create card", http.MethodPost, "/custom-cards", rentCard},
		{"evaluate", http.MethodGet, "/custom-cards/evaluate?month=6&year=2024", nil},
		{"update card", http.MethodPut, "/custom-cards/any", rentCard},
		{"delete card", http.MethodDelete, "/custom-cards/any", nil},
		{"get in hand", http.MethodGet, "/custom-in-hand", nil},
		{"save in hand", http.MethodPut, "/custom-in-hand", map[string]interface{}{"entries": []map[string]string{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.target, staff, tt.body)
			assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
		})
	}
	assert.Empty(t, s.cards.Cards)

	// The same card is readable one role up
	rec := s.do(http.MethodPost, "/custom-cards", accountant, rentCard)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(http.MethodGet, "/custom-cards/evaluate?month=6&year=2024", accountant, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result domain.CardEvaluation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Cards, 1)
	assert.True(t, result.Cards[0].Total.Equal(decimal.NewFromInt(1234)), "card %s", result.Cards[0].Total)
}
