package domain

import (
	"math"
	"strconv"
	"strings"
)

// Submission is the closed set of accepted order payload shapes. The shape is
// resolved once, at the service boundary, by ClassifySubmission.
type Submission interface {
	isSubmission()
}

// FullSubmission is a pre-assembled order object carrying its own items.
type FullSubmission struct {
	CustomerName string
	Email        string
	Phone        string
	Address      Address
	Items        []Item
	// Total is the caller supplied total; nil when absent or not a number.
	Total *float64
	Notes string
}

// MinimalSubmission is the storefront's reduced order form, still unvalidated.
type MinimalSubmission struct {
	Raw map[string]any
}

func (FullSubmission) isSubmission()    {}
func (MinimalSubmission) isSubmission() {}

// ClassifySubmission discriminates on the presence of an items array.
func ClassifySubmission(raw map[string]any) Submission {
	if raw == nil {
		raw = map[string]any{}
	}
	items, ok := raw["items"].([]any)
	if !ok {
		return MinimalSubmission{Raw: raw}
	}
	full := FullSubmission{
		CustomerName: firstNonEmpty(stringField(raw, "customerName"), stringField(raw, "name")),
		Email:        stringField(raw, "email"),
		Phone:        stringField(raw, "phone"),
		Address:      AddressFromValue(raw["address"]),
		Items:        make([]Item, 0, len(items)),
		Notes:        stringField(raw, "notes"),
	}
	if full.CustomerName == "" {
		full.CustomerName = PlaceholderCustomerName
	}
	for _, entry := range items {
		full.Items = append(full.Items, ItemFromValue(entry))
	}
	if total, ok := raw["total"].(float64); ok && !math.IsNaN(total) && !math.IsInf(total, 0) {
		full.Total = &total
	}
	return full
}

func stringField(raw map[string]any, key string) string {
	if s, ok := raw[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseQty mirrors integer-prefix parsing: "3", 3, 3.9 and "3 pcs" all read as
// 3. Missing or unparseable input reads as 1.
func parseQty(value any) int {
	switch v := value.(type) {
	case nil:
		return 1
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 1
		}
		if v == 0 {
			return 1
		}
		return clampInt(math.Trunc(v))
	case int:
		if v == 0 {
			return 1
		}
		return v
	case string:
		s := strings.TrimLeft(v, " \t\n\r")
		if s == "" {
			return 1
		}
		end := 0
		if s[0] == '-' || s[0] == '+' {
			end = 1
		}
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		n, err := strconv.Atoi(s[:end])
		if err != nil {
			if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
				if strings.HasPrefix(s, "-") {
					return math.MinInt32
				}
				return math.MaxInt32
			}
			return 1
		}
		return n
	default:
		return 1
	}
}

func clampInt(v float64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int(v)
}
