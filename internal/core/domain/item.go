package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// Item
// =============================================================================

// Item is a stocked product. It references exactly one category.
type Item struct {
	ID           string
	Name         string
	CategoryID   string
	PriceInCents int64
	Quantity     int64
}

// URL returns the detail page path for the item.
func (i Item) URL() string {
	return "/item/" + i.ID
}

// Price returns the item price in dollars.
func (i Item) Price() decimal.Decimal {
	return decimal.New(i.PriceInCents, -2)
}

// PriceDisplay returns the price formatted for display, e.g. "$1,250.00".
func (i Item) PriceDisplay() string {
	return FormatCurrency(i.Price())
}

// FormatCurrency formats a dollar amount with thousands separators.
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + "$" + b.String() + "." + frac
}
