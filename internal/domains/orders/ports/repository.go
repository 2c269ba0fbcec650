package ports

import (
	"context"
	"errors"

	"github.com/Apurer/boutique-orders/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateID is returned by Insert when an order with the same id is already stored.
	ErrDuplicateID = errors.New("order id already exists")
	// ErrCollectionUnreadable distinguishes a corrupt backing store from an empty one.
	ErrCollectionUnreadable = errors.New("order collection unreadable")
)

// Repository persists orders. Each mutating call is one exclusive unit; two
// concurrent mutations never observe or overwrite each other's partial state.
type Repository interface {
	List(ctx context.Context) ([]*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Insert(ctx context.Context, order *domain.Order) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
	// Delete removes the order and returns what was stored.
	Delete(ctx context.Context, id string) (*domain.Order, error)
}

// Resetter is implemented by stores that can replace an unreadable collection
// with an empty one.
type Resetter interface {
	ResetCollection(ctx context.Context) error
}
