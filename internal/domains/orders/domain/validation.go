package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Quantity bounds for the storefront form.
const (
	MinQty = 1
	MaxQty = 20
)

// Validation messages, in evaluation order.
const (
	MsgNameRequired    = "name required"
	MsgInvalidPhone    = "invalid phone"
	MsgWilayaRequired  = "wilaya required"
	MsgAddressRequired = "address required"
	MsgInvalidColor    = "invalid color"
	MsgInvalidSize     = "invalid size"
	MsgInvalidQty      = "invalid qty"
	MsgNameTooLong     = "name too long"
	MsgAddressTooLong  = "address too long"
	MsgNotesTooLong    = "notes too long"
	MsgCustomerTooLong = "customerName too long"
)

var (
	phonePattern = regexp.MustCompile(`^(0[567]\d{8}|(\+?213)[567]\d{8})$`)
	whitespace   = regexp.MustCompile(`\s+`)
)

var (
	palette = map[string]struct{}{"Black": {}, "White": {}, "Red": {}, "Blue": {}, "Green": {}}
	sizes   = map[string]struct{}{"S": {}, "M": {}, "L": {}, "XL": {}, "XXL": {}}
)

// MinimalInput is the normalized storefront form.
type MinimalInput struct {
	Name    string
	Email   string
	Phone   string
	Wilaya  string
	Address string
	Color   string
	Size    string
	Qty     int
	Notes   string
}

// ValidateMinimal normalizes the raw form and evaluates every rule. The error
// list is empty exactly when the input is acceptable.
func ValidateMinimal(raw map[string]any) (MinimalInput, []string) {
	if raw == nil {
		raw = map[string]any{}
	}
	input := MinimalInput{
		Name:    stringField(raw, "name"),
		Email:   stringField(raw, "email"),
		Phone:   stringField(raw, "phone"),
		Wilaya:  stringField(raw, "wilaya"),
		Address: stringField(raw, "address"),
		Color:   stringField(raw, "color"),
		Size:    stringField(raw, "size"),
		Qty:     max(MinQty, parseQty(raw["qty"])),
		Notes:   stringField(raw, "notes"),
	}

	var errs []string
	if input.Name == "" {
		errs = append(errs, MsgNameRequired)
	}
	if input.Phone == "" || !IsValidPhone(input.Phone) {
		errs = append(errs, MsgInvalidPhone)
	}
	if input.Wilaya == "" {
		errs = append(errs, MsgWilayaRequired)
	}
	if input.Address == "" {
		errs = append(errs, MsgAddressRequired)
	}
	if _, ok := palette[input.Color]; !ok {
		errs = append(errs, MsgInvalidColor)
	}
	if _, ok := sizes[input.Size]; !ok {
		errs = append(errs, MsgInvalidSize)
	}
	if input.Qty < MinQty || input.Qty > MaxQty {
		errs = append(errs, MsgInvalidQty)
	}
	if tooLong(input.Name, MaxNameLength) {
		errs = append(errs, MsgNameTooLong)
	}
	if tooLong(input.Address, MaxAddressLength) {
		errs = append(errs, MsgAddressTooLong)
	}
	if tooLong(input.Notes, MaxNotesLength) {
		errs = append(errs, MsgNotesTooLong)
	}
	return input, errs
}

// ValidateFull checks the limits that also apply to pre-assembled orders. An
// empty items array is accepted and prices at zero.
func ValidateFull(sub FullSubmission) []string {
	var errs []string
	if tooLong(sub.CustomerName, MaxNameLength) {
		errs = append(errs, MsgCustomerTooLong)
	}
	if tooLong(sub.Notes, MaxNotesLength) {
		errs = append(errs, MsgNotesTooLong)
	}
	return errs
}

// IsValidPhone accepts local (0 + carrier digit + 8 digits) and +213 mobile numbers.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(whitespace.ReplaceAllString(phone, ""))
}

// Palette lists the accepted colors.
func Palette() []string { return keys(palette) }

// Sizes lists the accepted sizes.
func Sizes() []string { return keys(sizes) }

func tooLong(value string, limit int) bool {
	return utf8.RuneCountInString(value) > limit
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

// CityFromRegion extracts the display name from a "<code> - <name>" label.
func CityFromRegion(region string) string {
	if _, name, ok := strings.Cut(region, " - "); ok {
		return name
	}
	return region
}
