package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_InitialState(t *testing.T) {
	order, err := NewOrder("O00001", "CUS123")
	require.NoError(t, err)
	assert.Equal(t, StatusPurchased, order.Status)
	assert.False(t, order.Terminal())
}

func TestNewOrder_EmptyCustomer(t *testing.T) {
	_, err := NewOrder("O00001", "")
	require.ErrorIs(t, err, ErrEmptyCustomer)
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr error
	}{
		{"purchased to dispatched", StatusPurchased, StatusDispatched, nil},
		{"purchased to cancelled", StatusPurchased, StatusCancelled, nil},
		{"cancelled back to purchased", StatusCancelled, StatusPurchased, nil},
		{"dispatched is terminal", StatusDispatched, StatusDelivered, ErrTerminalStatus},
		{"delivered is terminal", StatusDelivered, StatusPurchased, ErrTerminalStatus},
		{"unknown status rejected", StatusPurchased, Status("Refunded"), ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{Code: "O00001", CustomerID: "CUS1", Status: tt.from}
			err := order.Transition(tt.to)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, order.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, order.Status)
		})
	}
}

func TestTransition_EmptyKeepsStatus(t *testing.T) {
	order := &Order{Code: "O00001", CustomerID: "CUS1", Status: StatusPurchased}
	require.NoError(t, order.Transition(""))
	assert.Equal(t, StatusPurchased, order.Status)
}

func TestNewOrderItem_Validation(t *testing.T) {
	_, err := NewOrderItem("O00001", "P00001", "Mug", "VEN1", 0, 4.5)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrderItem("O00001", "P00001", "Mug", "VEN1", 2, -1)
	require.ErrorIs(t, err, ErrNegativePrice)

	item, err := NewOrderItem("O00001", "P00001", "Mug", "VEN1", 2, 4.5)
	require.NoError(t, err)
	assert.Equal(t, ItemStatusPurchased, item.Status)
	assert.Equal(t, 9.0, item.Subtotal())
}

func TestAllDelivered(t *testing.T) {
	items := []*OrderItem{
		{Status: ItemStatusDelivered},
		{Status: ItemStatusDelivered},
		{Status: ItemStatusShipped},
	}
	assert.False(t, AllDelivered(items))

	items[2].Status = ItemStatusDelivered
	assert.True(t, AllDelivered(items))

	assert.False(t, AllDelivered(nil))
}
