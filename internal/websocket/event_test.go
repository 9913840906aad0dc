package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":       "abc",
		"category": "Fuel",
		"amount":   "100.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeExpense, payload)
	after := time.Now()

	assert.Equal(t, "expense.created", evt.Type)
	assert.Equal(t, EntityTypeExpense, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	evt := Updated(EntityTypeSales, map[string]interface{}{"id": "s1"})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "sales.updated", decoded["type"])
	assert.Equal(t, "sales", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestEventHelpers(t *testing.T) {
	tests := []struct {
		name     string
		evt      Event
		expected string
	}{
		{"created", Created(EntityTypeOrder, nil), "order.created"},
		{"updated", Updated(EntityTypeCategory, nil), "category.updated"},
		{"deleted", Deleted(EntityTypeUser, "u1"), "user.deleted"},
		{"deactivated", NewEvent(EventTypeDeactivated, EntityTypeUser, nil), "user.deactivated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.evt.Type)
		})
	}
}

func TestDeleted_PayloadCarriesID(t *testing.T) {
	evt := Deleted(EntityTypeExpense, "e42")

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded struct {
		Payload DeletedPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "e42", decoded.Payload.ID)
}
