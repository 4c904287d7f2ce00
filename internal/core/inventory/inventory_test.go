package inventory

import (
	"testing"

	"github.com/artpar/inventory/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ResolveNameConflict Tests
// =============================================================================

func TestResolveNameConflict(t *testing.T) {
	hat := &domain.Category{ID: "hat", Name: "Hat"}

	tests := []struct {
		name        string
		policy      ConflictPolicy
		candidateID string
		existing    *domain.Category
		want        Resolution
	}{
		{"create without match", MergeIntoExisting, "", nil, NoConflict},
		{"create with match merges", MergeIntoExisting, "", hat, MergedIntoExisting},
		{"update without match", RejectDuplicate, "cap", nil, NoConflict},
		{"update onto other record rejected", RejectDuplicate, "cap", hat, RejectedAsDuplicate},
		{"update onto own name allowed", RejectDuplicate, "hat", hat, NoConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveNameConflict(tt.policy, tt.candidateID, tt.existing))
		})
	}
}

// =============================================================================
// CanDeleteCategory Tests
// =============================================================================

func TestCanDeleteCategory(t *testing.T) {
	allowed, reason := CanDeleteCategory(0)
	assert.True(t, allowed)
	assert.Empty(t, reason)

	allowed, reason = CanDeleteCategory(1)
	assert.False(t, allowed)
	assert.NotEmpty(t, reason)
}

// =============================================================================
// View Helper Tests
// =============================================================================

func TestCategoryOptions(t *testing.T) {
	cats := []domain.Category{{ID: "a", Name: "Hat"}, {ID: "b", Name: "Hoodie"}}

	opts := CategoryOptions(cats, "b")
	require.Len(t, opts, 2)
	assert.False(t, opts[0].Selected)
	assert.True(t, opts[1].Selected)
	assert.Equal(t, "Hoodie", opts[1].Name)

	for _, o := range CategoryOptions(cats, "") {
		assert.False(t, o.Selected)
	}
}

func TestJoinItems(t *testing.T) {
	cats := []domain.Category{{ID: "a", Name: "Hat"}}
	items := []domain.Item{
		{ID: "2", Name: "Zed Cap", CategoryID: "a"},
		{ID: "1", Name: "Beanie", CategoryID: "gone"},
	}

	got := JoinItems(items, cats)

	require.Len(t, got, 2)
	assert.Equal(t, "Zed Cap", got[0].Name)
	assert.Equal(t, "Hat", got[0].CategoryName)
	assert.Equal(t, "Beanie", got[1].Name)
	assert.Equal(t, "", got[1].CategoryName)
}
