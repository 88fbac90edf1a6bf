package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotalsSingleItemNoTax(t *testing.T) {
	items := []LineItem{{ID: "a", Quantity: 1, UnitPrice: 5000000}}
	got := ComputeTotals(items, 0)
	assert.Equal(t, 5000000.0, got.Subtotal)
	assert.Equal(t, 0.0, got.TaxAmount)
	assert.Equal(t, 5000000.0, got.Total)
}

func TestComputeTotalsWithTax(t *testing.T) {
	items := []LineItem{
		{ID: "a", Quantity: 2, UnitPrice: 1000000},
		{ID: "b", Quantity: 1, UnitPrice: 500000},
	}
	got := ComputeTotals(items, 9)
	assert.Equal(t, 2500000.0, got.Subtotal)
	assert.Equal(t, 225000.0, got.TaxAmount)
	assert.Equal(t, 2725000.0, got.Total)
}

func TestComputeTotalsEmptyItems(t *testing.T) {
	got := ComputeTotals(nil, 12)
	assert.Equal(t, 0.0, got.Subtotal)
	assert.Equal(t, 0.0, got.TaxAmount)
	assert.Equal(t, 0.0, got.Total)
}

func TestComputeTotalsFractionalQuantity(t *testing.T) {
	items := []LineItem{{ID: "a", Quantity: 2.5, UnitPrice: 100}}
	got := ComputeTotals(items, 10)
	assert.InDelta(t, 250.0, got.Subtotal, 1e-9)
	assert.InDelta(t, 25.0, got.TaxAmount, 1e-9)
	assert.InDelta(t, 275.0, got.Total, 1e-9)
}

func TestComputeTotalsNegativeInputsPropagate(t *testing.T) {
	// Validation is the editing surface's job; arithmetic stays honest.
	items := []LineItem{{ID: "a", Quantity: -1, UnitPrice: 1000}}
	got := ComputeTotals(items, 9)
	assert.Equal(t, -1000.0, got.Subtotal)
	assert.InDelta(t, -90.0, got.TaxAmount, 1e-9)
	assert.InDelta(t, -1090.0, got.Total, 1e-9)
}

func TestComputeTotalsIsSumOfLineTotals(t *testing.T) {
	items := []LineItem{
		{ID: "a", Quantity: 3, UnitPrice: 123456.78},
		{ID: "b", Quantity: 0.5, UnitPrice: 99},
		{ID: "c", Quantity: 7, UnitPrice: 0},
	}
	var want float64
	for _, it := range items {
		want += it.LineTotal()
	}
	got := ComputeTotals(items, 0)
	assert.InDelta(t, want, got.Subtotal, 1e-9)
	assert.Equal(t, got.Subtotal, got.Total)
}
