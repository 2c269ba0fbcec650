package domain

import "fmt"

// BasePrice is the unit price of the storefront's single product.
const BasePrice int64 = 2990

// ProductName is the display name used for synthesized line items.
const ProductName = "Premium Hoodie"

// Quote is the outcome of pricing a submission.
type Quote struct {
	Subtotal float64
	Shipping float64
	Total    float64
	Items    []Item
}

// PriceMinimal prices the storefront form: one synthesized line at BasePrice
// plus the region's flat shipping fee.
func PriceMinimal(input MinimalInput) Quote {
	subtotal := BasePrice * int64(input.Qty)
	shipping := ShippingFee(input.Wilaya)
	return Quote{
		Subtotal: float64(subtotal),
		Shipping: float64(shipping),
		Total:    float64(subtotal + shipping),
		Items: []Item{{
			Name:  LineItemName(input.Color, input.Size),
			Qty:   input.Qty,
			Price: float64(BasePrice),
		}},
	}
}

// PriceFull prices a pre-assembled order. A non-negative caller total wins;
// otherwise the total is the sum of price × qty over the items.
func PriceFull(sub FullSubmission) Quote {
	var subtotal float64
	for _, item := range sub.Items {
		subtotal += item.Price * float64(item.Qty)
	}
	total := subtotal
	if sub.Total != nil && *sub.Total >= 0 {
		total = *sub.Total
	}
	items := make([]Item, len(sub.Items))
	copy(items, sub.Items)
	return Quote{Subtotal: subtotal, Total: total, Items: items}
}

// LineItemName encodes the chosen variant into the item display name.
func LineItemName(color, size string) string {
	return fmt.Sprintf("%s (%s, %s)", ProductName, color, size)
}
