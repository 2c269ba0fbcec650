package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/boutique-orders/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrRateLimited signals the client exhausted its submission window.
	ErrRateLimited = errors.New("too many order submissions")
)

// ValidationError carries every violated rule, in evaluation order.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyID) ||
		errors.Is(err, domain.ErrInvalidQty) ||
		errors.Is(err, domain.ErrNegativeTotal) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
