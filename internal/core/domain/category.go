// Package domain contains the core inventory types.
// This is part of the Functional Core - all functions are pure with no I/O.
package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// =============================================================================
// Category
// =============================================================================

// Category groups items. Names are unique under case-insensitive comparison.
type Category struct {
	ID          string
	Name        string
	Description string
}

// URL returns the detail page path for the category.
func (c Category) URL() string {
	return "/category/" + c.ID
}

// NameKey returns the comparison key used for category name uniqueness.
//
// Two names share a key when they differ only in letter case or character
// width. Accents are significant, so "Cafe" and "Café" get different keys.
//
// Example:
//
//	NameKey("Hat")    // "hat"
//	NameKey(" HAT ")  // "hat"
//	NameKey("Ｈａｔ")  // "hat"
func NameKey(name string) string {
	folded := width.Fold.String(strings.TrimSpace(name))
	folded = cases.Fold().String(folded)
	return norm.NFC.String(folded)
}

// SameName reports whether two category names collide.
func SameName(a, b string) bool {
	return NameKey(a) == NameKey(b)
}
