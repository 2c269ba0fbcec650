package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderValidate(t *testing.T) {
	order := &Order{ID: "abc-1234", Items: []Item{{Name: "Hoodie", Qty: 1, Price: 2990}}, Status: "bogus"}
	require.NoError(t, order.Validate())
	assert.Equal(t, StatusPending, order.Status)

	assert.ErrorIs(t, (&Order{}).Validate(), ErrEmptyID)
	assert.ErrorIs(t, (&Order{ID: "x", Items: []Item{{Qty: 0}}}).Validate(), ErrInvalidQty)
	assert.ErrorIs(t, (&Order{ID: "x", Total: -1}).Validate(), ErrNegativeTotal)
}

func TestOrderUpdateStatus(t *testing.T) {
	order := &Order{ID: "abc"}
	for _, status := range []Status{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusPending} {
		order.UpdateStatus(status)
		assert.Equal(t, status, order.Status)
	}
	order.UpdateStatus("lost")
	assert.Equal(t, StatusPending, order.Status)
}

func TestOrderClone_IsDeep(t *testing.T) {
	order := &Order{ID: "abc", Items: []Item{{Name: "Hoodie", Qty: 1}}}
	clone := order.Clone()
	clone.Items[0].Qty = 5
	assert.Equal(t, 1, order.Items[0].Qty)
	assert.Nil(t, (*Order)(nil).Clone())
}
