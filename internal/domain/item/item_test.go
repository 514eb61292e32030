package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		itemName string
		price    int64
		stock    int
		wantErr  bool
	}{
		{name: "valid item", itemName: "Keyboard", price: 12_000, stock: 50},
		{name: "free item allowed", itemName: "Sticker", price: 0, stock: 10},
		{name: "zero stock allowed", itemName: "Sold out", price: 500, stock: 0},
		{name: "negative price rejected", itemName: "Broken", price: -1, stock: 1, wantErr: true},
		{name: "negative stock rejected", itemName: "Broken", price: 100, stock: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := New(tt.itemName, tt.price, tt.stock)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusAvailable, it.Status)
			assert.Equal(t, tt.price, it.Price)
			assert.Equal(t, tt.stock, it.Stock)
		})
	}
}

func TestItem_DecreaseStock(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		quantity  int
		wantErr   error
		wantStock int
	}{
		{name: "partial decrease", stock: 10, quantity: 3, wantStock: 7},
		{name: "decrease to zero", stock: 5, quantity: 5, wantStock: 0},
		{name: "over stock rejected", stock: 2, quantity: 3, wantErr: ErrInsufficientStock, wantStock: 2},
		{name: "zero stock rejected", stock: 0, quantity: 1, wantErr: ErrInsufficientStock, wantStock: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := &Item{Stock: tt.stock}
			err := it.DecreaseStock(tt.quantity)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantStock, it.Stock)
		})
	}

	t.Run("non-positive quantity rejected", func(t *testing.T) {
		it := &Item{Stock: 10}
		require.Error(t, it.DecreaseStock(0))
		require.Error(t, it.DecreaseStock(-1))
		assert.Equal(t, 10, it.Stock)
	})
}

func TestItem_IncreaseStock(t *testing.T) {
	it := &Item{Stock: 3}
	require.NoError(t, it.IncreaseStock(4))
	assert.Equal(t, 7, it.Stock)

	require.Error(t, it.IncreaseStock(0))
	assert.Equal(t, 7, it.Stock)
}

func TestItem_Lifecycle(t *testing.T) {
	it, err := New("Dock", 8_900, 30)
	require.NoError(t, err)

	it.Deactivate()
	assert.Equal(t, StatusInactive, it.Status)

	it.Activate()
	assert.Equal(t, StatusAvailable, it.Status)
}
