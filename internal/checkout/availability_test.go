package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(rows ...ProductRow) map[int64]ProductRow {
	m := make(map[int64]ProductRow, len(rows))
	for _, r := range rows {
		m[r.ID] = r
	}
	return m
}

func TestCheckAvailabilityOK(t *testing.T) {
	s := snap(ProductRow{ID: 1, Name: "Lamp", PriceCents: 500, Stock: 3})
	err := CheckAvailability([]Line{{ProductID: 1, Qty: 3}}, s)
	assert.NoError(t, err)
}

func TestCheckAvailabilityMissingRow(t *testing.T) {
	s := snap(ProductRow{ID: 1, Stock: 3})
	err := CheckAvailability([]Line{{ProductID: 1, Qty: 1}, {ProductID: 2, Qty: 1}}, s)

	var nf *ProductNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(2), nf.ProductID)
}

func TestCheckAvailabilityShortStock(t *testing.T) {
	s := snap(ProductRow{ID: 1, Name: "Lamp", Stock: 2})
	err := CheckAvailability([]Line{{ProductID: 1, Qty: 3}}, s)

	var ins *InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, int64(1), ins.ProductID)
	assert.Equal(t, 2, ins.Available)
	assert.Equal(t, 3, ins.Requested)
	assert.Contains(t, ins.Error(), "Lamp")
}

func TestCheckAvailabilityDuplicateLinesAccumulate(t *testing.T) {
	// Two lines of 2 against stock 3: each alone fits, together they don't.
	s := snap(ProductRow{ID: 1, Name: "Lamp", Stock: 3})
	err := CheckAvailability([]Line{{ProductID: 1, Qty: 2}, {ProductID: 1, Qty: 2}}, s)

	var ins *InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, 3, ins.Available)
	assert.Equal(t, 4, ins.Requested)
}

func TestCheckAvailabilityFirstFailureWins(t *testing.T) {
	s := snap(
		ProductRow{ID: 1, Stock: 0},
		ProductRow{ID: 2, Stock: 0},
	)
	err := CheckAvailability([]Line{{ProductID: 2, Qty: 1}, {ProductID: 1, Qty: 1}}, s)

	var ins *InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, int64(2), ins.ProductID)
}
