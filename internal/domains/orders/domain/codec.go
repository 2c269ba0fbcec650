package domain

import (
	"encoding/json"
	"maps"
	"math"
	"strconv"
	"strings"
)

// MarshalJSON writes {street, city} plus any caller-supplied address fields.
func (a Address) MarshalJSON() ([]byte, error) {
	if len(a.Extra) == 0 {
		type plain struct {
			Street string `json:"street"`
			City   string `json:"city"`
		}
		return json.Marshal(plain{Street: a.Street, City: a.City})
	}
	fields := maps.Clone(a.Extra)
	if a.Street != "" {
		fields["street"] = a.Street
	}
	if a.City != "" {
		fields["city"] = a.City
	}
	return json.Marshal(fields)
}

// UnmarshalJSON accepts any JSON value; see AddressFromValue.
func (a *Address) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*a = AddressFromValue(value)
	return nil
}

// AddressFromValue reads a decoded address. Objects keep their street and city
// and every other key in Extra; a plain string becomes the street.
func AddressFromValue(value any) Address {
	switch v := value.(type) {
	case map[string]any:
		var addr Address
		for key, field := range v {
			s, isText := field.(string)
			switch {
			case key == "street" && isText:
				addr.Street = strings.TrimSpace(s)
			case key == "city" && isText:
				addr.City = strings.TrimSpace(s)
			default:
				if addr.Extra == nil {
					addr.Extra = make(map[string]any)
				}
				addr.Extra[key] = field
			}
		}
		return addr
	case string:
		return Address{Street: strings.TrimSpace(v)}
	default:
		return Address{}
	}
}

// UnmarshalJSON accepts loosely typed items: qty and price may be numbers or
// numeric strings, and anything that is not an object reads as a blank line.
func (i *Item) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*i = ItemFromValue(value)
	return nil
}

// ItemFromValue reads a decoded line item. Missing or invalid qty reads as 1
// and missing or negative price as 0.
func ItemFromValue(value any) Item {
	item := Item{Qty: 1}
	fields, ok := value.(map[string]any)
	if !ok {
		return item
	}
	item.Name = stringField(fields, "name")
	if price, ok := looseFloat(fields["price"]); ok && price > 0 {
		item.Price = price
	}
	if _, present := fields["qty"]; present {
		if qty := parseQty(fields["qty"]); qty >= 1 {
			item.Qty = qty
		}
	}
	return item
}

// looseFloat reads a finite number from a JSON number or a numeric string.
func looseFloat(value any) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
