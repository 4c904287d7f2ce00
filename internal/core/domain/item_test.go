package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Item Tests
// =============================================================================

func TestItem_URL(t *testing.T) {
	i := Item{ID: "item-1"}
	assert.Equal(t, "/item/item-1", i.URL())
}

func TestItem_Price(t *testing.T) {
	i := Item{PriceInCents: 1999}
	assert.Equal(t, "19.99", i.Price().String())
}

func TestItem_PriceDisplay(t *testing.T) {
	i := Item{PriceInCents: 10000}
	assert.Equal(t, "$100.00", i.PriceDisplay())
	assert.Equal(t, FormatCurrency(i.Price()), i.PriceDisplay())
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{1, "$0.01"},
		{99, "$0.99"},
		{500, "$5.00"},
		{10000, "$100.00"},
		{125000, "$1,250.00"},
		{123456789, "$1,234,567.89"},
		{-250, "-$2.50"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(decimal.New(tt.cents, -2)))
		})
	}
}
