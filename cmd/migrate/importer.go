package main

import (
	"context"
	"errors"
	"fmt"

	ordersports "github.com/Apurer/boutique-orders/internal/domains/orders/ports"
)

type importResult struct {
	Copied  int
	Skipped int
}

// copyOrders inserts every source order into dst, oldest first. Orders whose
// id already exists in dst are skipped, so the import can be re-run.
func copyOrders(ctx context.Context, src, dst ordersports.Repository) (importResult, error) {
	var result importResult
	orders, err := src.List(ctx)
	if err != nil {
		return result, fmt.Errorf("read source orders: %w", err)
	}
	for i := len(orders) - 1; i >= 0; i-- {
		_, err := dst.Insert(ctx, orders[i])
		switch {
		case errors.Is(err, ordersports.ErrDuplicateID):
			result.Skipped++
		case err != nil:
			return result, fmt.Errorf("insert order %s: %w", orders[i].ID, err)
		default:
			result.Copied++
		}
	}
	return result, nil
}
