// Package inventory contains the pure decision logic of the category and
// item mutation workflows.
//
// Nothing here touches the store. The shell service performs the reads,
// hands the results to these functions and acts on what they decide.
package inventory

import (
	"github.com/artpar/inventory/internal/core/domain"
	"github.com/artpar/inventory/internal/core/validation"
)

// =============================================================================
// Outcomes
// =============================================================================

// Outcome is the result kind of a workflow call.
type Outcome string

const (
	OutcomeCreated     Outcome = "created"
	OutcomeExisting    Outcome = "existing"
	OutcomeUpdated     Outcome = "updated"
	OutcomeInvalid     Outcome = "invalid"
	OutcomeConflict    Outcome = "conflict"
	OutcomeDeleted     Outcome = "deleted"
	OutcomeBlocked     Outcome = "blocked"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeUnsupported Outcome = "unsupported"
)

// ConflictMessage is reported when a rename collides with another category.
const ConflictMessage = "Category already exists."

// CategoryResult is the outcome of a category create or update.
// Category is the persisted record on success, the existing record on
// OutcomeExisting, and the sanitized candidate otherwise.
type CategoryResult struct {
	Outcome  Outcome
	Category domain.Category
	Errors   validation.Errors
}

// ItemResult is the outcome of an item create, delete or update.
// Options is filled when the form must be shown again.
type ItemResult struct {
	Outcome Outcome
	Item    domain.Item
	Errors  validation.Errors
	Options []CategoryOption
}

// DeleteCategoryResult is the outcome of a category delete. Items lists the
// blocking items on OutcomeBlocked.
type DeleteCategoryResult struct {
	Outcome  Outcome
	Category *domain.Category
	Items    []domain.Item
}

// =============================================================================
// Name Conflicts
// =============================================================================

// ConflictPolicy selects how a colliding name is treated.
type ConflictPolicy int

const (
	// MergeIntoExisting treats a create with a taken name as a request for
	// the existing record.
	MergeIntoExisting ConflictPolicy = iota
	// RejectDuplicate refuses a rename onto a name held by another record.
	RejectDuplicate
)

// Resolution is the decision of ResolveNameConflict.
type Resolution int

const (
	NoConflict Resolution = iota
	MergedIntoExisting
	RejectedAsDuplicate
)

// ResolveNameConflict decides what to do with a candidate whose name lookup
// returned existing (nil when no record holds the name). candidateID is the
// ID of the record being updated, or "" for a create. A record never
// conflicts with itself.
func ResolveNameConflict(policy ConflictPolicy, candidateID string, existing *domain.Category) Resolution {
	if existing == nil {
		return NoConflict
	}
	if candidateID != "" && existing.ID == candidateID {
		return NoConflict
	}
	if policy == MergeIntoExisting {
		return MergedIntoExisting
	}
	return RejectedAsDuplicate
}

// CanDeleteCategory checks whether a category owning itemCount items may be
// deleted. Returns whether deletion is allowed and a reason if not.
func CanDeleteCategory(itemCount int) (allowed bool, reason string) {
	if itemCount > 0 {
		return false, "category still has items"
	}
	return true, ""
}

// =============================================================================
// Views
// =============================================================================

// CategoryOption is a category choice on the item form.
type CategoryOption struct {
	domain.Category
	Selected bool
}

// CategoryOptions marks the category with selectedID as selected.
func CategoryOptions(categories []domain.Category, selectedID string) []CategoryOption {
	options := make([]CategoryOption, 0, len(categories))
	for _, c := range categories {
		options = append(options, CategoryOption{
			Category: c,
			Selected: selectedID != "" && c.ID == selectedID,
		})
	}
	return options
}

// ItemListing is an item shown with the name of its category.
type ItemListing struct {
	domain.Item
	CategoryName string
}

// JoinItems pairs each item with its category name, keeping item order.
// Items whose category is missing get an empty name.
func JoinItems(items []domain.Item, categories []domain.Category) []ItemListing {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	out := make([]ItemListing, 0, len(items))
	for _, it := range items {
		out = append(out, ItemListing{Item: it, CategoryName: names[it.CategoryID]})
	}
	return out
}
