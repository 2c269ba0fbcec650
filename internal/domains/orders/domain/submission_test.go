package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySubmission_MinimalWithoutItemsArray(t *testing.T) {
	assert.IsType(t, MinimalSubmission{}, ClassifySubmission(nil))
	assert.IsType(t, MinimalSubmission{}, ClassifySubmission(map[string]any{"name": "A"}))
	assert.IsType(t, MinimalSubmission{}, ClassifySubmission(map[string]any{"items": "not an array"}))
}

func TestClassifySubmission_FullOrder(t *testing.T) {
	sub := ClassifySubmission(map[string]any{
		"name":    "Karim",
		"phone":   "0661234567",
		"address": map[string]any{"street": " 5 Rue Larbi ", "city": "Oran"},
		"items": []any{
			map[string]any{"name": "Hoodie", "qty": float64(2), "price": float64(2990)},
			map[string]any{"name": "Sticker", "qty": float64(0), "price": float64(-5)},
			"junk",
		},
		"total": "12",
		"notes": "ring twice",
	})
	full, ok := sub.(FullSubmission)
	require.True(t, ok)
	assert.Equal(t, "Karim", full.CustomerName)
	assert.Equal(t, Address{Street: "5 Rue Larbi", City: "Oran"}, full.Address)
	assert.Nil(t, full.Total)
	assert.Equal(t, []Item{
		{Name: "Hoodie", Qty: 2, Price: 2990},
		{Name: "Sticker", Qty: 1, Price: 0},
		{Qty: 1},
	}, full.Items)
}

func TestClassifySubmission_FullOrderDefaults(t *testing.T) {
	full, ok := ClassifySubmission(map[string]any{"items": []any{}, "address": "Cité 200 logements", "total": float64(0)}).(FullSubmission)
	require.True(t, ok)
	assert.Equal(t, PlaceholderCustomerName, full.CustomerName)
	assert.Equal(t, Address{Street: "Cité 200 logements"}, full.Address)
	require.NotNil(t, full.Total)
	assert.Zero(t, *full.Total)
}

func TestClassifySubmission_PrefersCustomerName(t *testing.T) {
	full := ClassifySubmission(map[string]any{"customerName": "Sara", "name": "Other", "items": []any{}}).(FullSubmission)
	assert.Equal(t, "Sara", full.CustomerName)
}

func TestClassifySubmission_KeepsCallerAddressFields(t *testing.T) {
	full := ClassifySubmission(map[string]any{
		"items":   []any{map[string]any{"name": "Hoodie", "qty": "2", "price": "2990"}},
		"address": map[string]any{"line1": "Bt 4, Cité des Pins", "zip": "16000", "city": "Alger"},
	}).(FullSubmission)

	assert.Equal(t, Address{City: "Alger", Extra: map[string]any{"line1": "Bt 4, Cité des Pins", "zip": "16000"}}, full.Address)
	assert.Equal(t, []Item{{Name: "Hoodie", Qty: 2, Price: 2990}}, full.Items)

	encoded, err := json.Marshal(full.Address)
	require.NoError(t, err)
	assert.JSONEq(t, `{"line1":"Bt 4, Cité des Pins","zip":"16000","city":"Alger"}`, string(encoded))
}
