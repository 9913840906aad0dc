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

func TestOrderLifecycle(t *testing.T) {
	s := newTestServer(t)
	accountant := s.tokenFor(t, domain.RoleAccountant)
	admin := s.tokenFor(t, domain.RoleAdmin)

	rec := s.do(http.MethodPost, "/order/add-order", accountant, map[string]interface{}{
		"orderId":      "ORD-42",
		"orderDate":    "2024-04-01",
		"deliveryDate": "2024-04-03",
		"amount":       "250",
		"paymentMode":  "Cash",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.NotNil(t, order.DeliveryDate)

	rec = s.do(http.MethodPut, "/order/update-order/"+order.ID, accountant, map[string]interface{}{"amount": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPut, "/order/update-order/"+order.ID, admin, map[string]interface{}{
		"deliveryDate": "",
		"paymentMode":  "Online",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Nil(t, order.DeliveryDate)
	assert.Equal(t, domain.PaymentModeOnline, order.PaymentMode)
	assert.True(t, order.Amount.Equal(decimal.NewFromInt(250)))

	rec = s.do(http.MethodDelete, "/order/delete-order/"+order.ID, admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/order/"+order.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddOrder_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"missing order id", map[string]interface{}{"orderDate": "2024-04-01", "amount": 1, "paymentMode": "Cash"}, "orderId"},
		{"blackbox not allowed", map[string]interface{}{"orderId": "A", "orderDate": "2024-04-01", "amount": 1, "paymentMode": "BlackBox"}, "paymentMode"},
		{"bad date", map[string]interface{}{"orderId": "A", "orderDate": "April 1", "amount": 1, "paymentMode": "Cash"}, "orderDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			accountant := s.tokenFor(t, domain.RoleAccountant)

			rec := s.do(http.MethodPost, "/order/add-order", accountant, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			problem := decodeProblem(t, rec)
			require.NotEmpty(t, problem.Errors)
			assert.Equal(t, tt.field, problem.Errors[0].Field)
		})
	}
}

func TestOrderSummary_BothModes(t *testing.T) {
	s := newTestServer(t)
	accountant := s.tokenFor(t, domain.RoleAccountant)

	rec := s.do(http.MethodPost, "/order/add-order", accountant, map[string]interface{}{
		"orderId": "ORD-1", "orderDate": "2024-04-10", "amount": 80, "paymentMode": "Online",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/order/yearly-order?year=2024", accountant, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summary domain.OrderSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(80)))
	require.Len(t, summary.Breakdown, 2)

	byMode := map[string]string{}
	for _, entry := range summary.Breakdown {
		byMode[entry.Category] = entry.Percentage
	}
	assert.Equal(t, "0.00", byMode["Cash"])
	assert.Equal(t, "100.00", byMode["Online"])
}
