package seed

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/artpar/inventory/internal/shell/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// =============================================================================
// Fixture Tests
// =============================================================================

func TestDefaultFixture(t *testing.T) {
	f, err := DefaultFixture()
	require.NoError(t, err)

	assert.Len(t, f.Categories, 3)
	assert.Len(t, f.Items, 7)
	assert.Equal(t, "T-Shirt", f.Categories[0].Name)
	assert.Equal(t, "Short sleeve t-shirts", f.Categories[0].Description)
	for _, i := range f.Items {
		assert.Equal(t, int64(10000), i.PriceInCents, i.Name)
	}
}

func TestParseFixture_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "malformed",
			yaml: "categories: [[[",
			want: "failed to parse fixture",
		},
		{
			name: "missing key",
			yaml: "categories:\n  - name: Hat\n    description: x\n",
			want: "has no key",
		},
		{
			name: "duplicate key",
			yaml: "categories:\n  - key: a\n    name: A1\n  - key: a\n    name: A2\n",
			want: "duplicate category key",
		},
		{
			name: "unknown category",
			yaml: "categories:\n  - key: a\n    name: Abc\nitems:\n  - name: Thing\n    category: b\n",
			want: "unknown category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

// =============================================================================
// Populate Tests
// =============================================================================

func TestPopulate(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	f, err := DefaultFixture()
	require.NoError(t, err)

	res, err := Populate(ctx, s, f, logger)
	require.NoError(t, err)
	assert.Len(t, res.Categories, 3)
	assert.Len(t, res.Items, 7)

	hats, err := s.ListItemsByCategory(ctx, res.Categories[2].ID)
	require.NoError(t, err)
	assert.Len(t, hats, 2)

	assert.Contains(t, buf.String(), "added category")
	assert.Contains(t, buf.String(), "Lord Nermal 6 Panel Pocket Hat - Black")
}

func TestPopulate_SecondRunRollsBack(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	f, err := DefaultFixture()
	require.NoError(t, err)
	_, err = Populate(ctx, s, f, logger)
	require.NoError(t, err)

	_, err = Populate(ctx, s, f, logger)
	require.Error(t, err)
	assert.True(t, store.IsDuplicateName(err))

	n, err := s.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
