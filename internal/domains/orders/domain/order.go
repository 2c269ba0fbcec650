package domain

import (
	"errors"
	"maps"
	"time"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Field limits shared by both submission shapes.
const (
	MaxNameLength    = 120
	MaxAddressLength = 200
	MaxNotesLength   = 400
)

// PlaceholderCustomerName is stored when a full-order submission omits the customer.
const PlaceholderCustomerName = "—"

var (
	ErrEmptyID       = errors.New("order id is required")
	ErrInvalidQty    = errors.New("item qty must be at least 1")
	ErrNegativeTotal = errors.New("order total must not be negative")
)

// Address is the delivery destination of an order.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	// Extra holds caller-supplied fields other than street and city.
	Extra map[string]any `json:"-"`
}

// Item is a single order line.
type Item struct {
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

// Order models the storefront order aggregate.
type Order struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      Address   `json:"address"`
	Items        []Item    `json:"items"`
	Total        float64   `json:"total"`
	Notes        string    `json:"notes"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate enforces invariants on the aggregate before it is persisted.
func (o *Order) Validate() error {
	if o.ID == "" {
		return ErrEmptyID
	}
	for _, item := range o.Items {
		if item.Qty < 1 {
			return ErrInvalidQty
		}
	}
	if o.Total < 0 {
		return ErrNegativeTotal
	}
	if !IsValidStatus(o.Status) {
		o.Status = StatusPending
	}
	return nil
}

// UpdateStatus applies an admin status change. Unknown values become pending.
func (o *Order) UpdateStatus(status Status) {
	o.Status = SanitizeStatus(status)
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Address.Extra = maps.Clone(o.Address.Extra)
	if o.Items != nil {
		clone.Items = make([]Item, len(o.Items))
		copy(clone.Items, o.Items)
	}
	return &clone
}

// SanitizeStatus coerces any value outside the enum to pending.
func SanitizeStatus(status Status) Status {
	if IsValidStatus(status) {
		return status
	}
	return StatusPending
}

// IsValidStatus reports whether status is one of the five known states.
func IsValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}
