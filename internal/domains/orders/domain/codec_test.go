package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Address
		out  string
	}{
		{"street and city", `{"street":"5 Rue Larbi","city":"Oran"}`, Address{Street: "5 Rue Larbi", City: "Oran"}, `{"street":"5 Rue Larbi","city":"Oran"}`},
		{"plain string", `"12 rue A"`, Address{Street: "12 rue A"}, `{"street":"12 rue A","city":""}`},
		{"null", `null`, Address{}, `{"street":"","city":""}`},
		{"number", `42`, Address{}, `{"street":"","city":""}`},
		{"extra keys", `{"line1":"Bt 4","floor":2}`, Address{Extra: map[string]any{"line1": "Bt 4", "floor": float64(2)}}, `{"line1":"Bt 4","floor":2}`},
		{"non-text street", `{"street":7,"city":"Oran"}`, Address{City: "Oran", Extra: map[string]any{"street": float64(7)}}, `{"street":7,"city":"Oran"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Address
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
			encoded, err := json.Marshal(got)
			require.NoError(t, err)
			assert.JSONEq(t, tt.out, string(encoded))
		})
	}
}

func TestItemJSON_IsLenient(t *testing.T) {
	var items []Item
	require.NoError(t, json.Unmarshal([]byte(`[
		{"name":"Hoodie","qty":"2","price":"2990"},
		{"name":"Cap","qty":3.7,"price":1500},
		{"name":"Sticker","qty":0,"price":-5},
		{"name":"Pin"},
		"junk"
	]`), &items))

	assert.Equal(t, []Item{
		{Name: "Hoodie", Qty: 2, Price: 2990},
		{Name: "Cap", Qty: 3, Price: 1500},
		{Name: "Sticker", Qty: 1, Price: 0},
		{Name: "Pin", Qty: 1, Price: 0},
		{Qty: 1},
	}, items)
}

func TestOrderClone_CopiesAddressExtra(t *testing.T) {
	order := &Order{ID: "abc", Address: Address{Extra: map[string]any{"zip": "16000"}}}
	clone := order.Clone()
	clone.Address.Extra["zip"] = "31000"
	assert.Equal(t, "16000", order.Address.Extra["zip"])
}
