package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Category Tests
// =============================================================================

func TestCategory_URL(t *testing.T) {
	c := Category{ID: "abc123", Name: "Hat"}
	assert.Equal(t, "/category/abc123", c.URL())
}

func TestNameKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase unchanged", "hat", "hat"},
		{"uppercase folded", "HAT", "hat"},
		{"mixed case folded", "T-Shirt", "t-shirt"},
		{"surrounding space trimmed", "  Hoodie ", "hoodie"},
		{"fullwidth folded", "Ｈａｔ", "hat"},
		{"sharp s folded", "STRASSE", "strasse"},
		{"accent kept", "Caf\u00e9", "caf\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NameKey(tt.input))
		})
	}
}

func TestSameName(t *testing.T) {
	assert.True(t, SameName("Hat", "hat"))
	assert.True(t, SameName("HAT", "hAt"))
	assert.False(t, SameName("Hat", "Hats"))
	assert.False(t, SameName("Cafe", "Caf\u00e9"))
}

func TestNameKey_ComposedAndDecomposedMatch(t *testing.T) {
	composed := "Caf\u00e9"
	decomposed := "Cafe\u0301"
	assert.Equal(t, NameKey(composed), NameKey(decomposed))
}
