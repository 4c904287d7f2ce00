// Package inventory runs the category and item workflows against a store.
//
// Each mutation follows the same shape: validate the form, build a
// candidate, consult the store where a decision needs data, then persist
// or report. The decisions themselves live in internal/core/inventory.
package inventory

import (
	"context"
	"log/slog"

	"github.com/artpar/inventory/internal/core/domain"
	core "github.com/artpar/inventory/internal/core/inventory"
	"github.com/artpar/inventory/internal/core/validation"
	"github.com/artpar/inventory/internal/shell/metrics"
	"github.com/artpar/inventory/internal/shell/store"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// Service
// =============================================================================

// Service implements the inventory workflows. It is safe for concurrent use.
type Service struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewService creates a service over s, validating input with v.
func NewService(s store.Store, v *validation.Validator, l *slog.Logger) *Service {
	if v == nil {
		v = validation.New()
	}
	if l == nil {
		l = slog.Default()
	}
	return &Service{store: s, validator: v, logger: l}
}

// =============================================================================
// Category Workflows
// =============================================================================

// CreateCategory validates form and creates the category. A name already
// taken under case-insensitive comparison yields OutcomeExisting with the
// record holding it, and nothing is written.
func (s *Service) CreateCategory(ctx context.Context, form validation.CategoryForm) (core.CategoryResult, error) {
	input, errs := s.validator.Category(form)
	candidate := domain.Category{Name: input.Name, Description: input.Description}

	if errs.Any() {
		return s.categoryResult("category_create", core.OutcomeInvalid, candidate, errs), nil
	}

	existing, err := s.findCategoryByName(ctx, input.Name)
	if err != nil {
		return core.CategoryResult{}, err
	}
	if core.ResolveNameConflict(core.MergeIntoExisting, "", existing) == core.MergedIntoExisting {
		s.logger.Info("category create merged into existing", "id", existing.ID, "name", existing.Name)
		return s.categoryResult("category_create", core.OutcomeExisting, *existing, nil), nil
	}

	if err := s.store.CreateCategory(ctx, &candidate); err != nil {
		if !store.IsDuplicateName(err) {
			return core.CategoryResult{}, err
		}
		// A concurrent create took the name between lookup and insert.
		winner, ferr := s.findCategoryByName(ctx, input.Name)
		if ferr != nil || winner == nil {
			return core.CategoryResult{}, err
		}
		return s.categoryResult("category_create", core.OutcomeExisting, *winner, nil), nil
	}

	s.logger.Info("category created", "id", candidate.ID, "name", candidate.Name)
	return s.categoryResult("category_create", core.OutcomeCreated, candidate, nil), nil
}

// UpdateCategory renames category id. Only the name is validated and only
// the name changes. A name held by a different category is rejected with a
// single conflict error.
func (s *Service) UpdateCategory(ctx context.Context, id string, form validation.CategoryNameForm) (core.CategoryResult, error) {
	current, err := s.store.GetCategory(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return s.categoryResult("category_update", core.OutcomeNotFound, domain.Category{ID: id}, nil), nil
		}
		return core.CategoryResult{}, err
	}

	input, errs := s.validator.CategoryName(form)
	candidate := domain.Category{ID: id, Name: input.Name, Description: current.Description}

	if errs.Any() {
		return s.categoryResult("category_update", core.OutcomeInvalid, candidate, errs), nil
	}

	// Re-casing its own name cannot collide with another record.
	if !domain.SameName(current.Name, input.Name) {
		existing, err := s.findCategoryByName(ctx, input.Name)
		if err != nil {
			return core.CategoryResult{}, err
		}
		if core.ResolveNameConflict(core.RejectDuplicate, id, existing) == core.RejectedAsDuplicate {
			return s.categoryResult("category_update", core.OutcomeConflict, candidate, conflictErrors()), nil
		}
	}

	if err := s.store.RenameCategory(ctx, id, input.Name); err != nil {
		switch {
		case store.IsNotFound(err):
			return s.categoryResult("category_update", core.OutcomeNotFound, candidate, nil), nil
		case store.IsDuplicateName(err):
			return s.categoryResult("category_update", core.OutcomeConflict, candidate, conflictErrors()), nil
		}
		return core.CategoryResult{}, err
	}

	s.logger.Info("category renamed", "id", id, "from", current.Name, "to", candidate.Name)
	return s.categoryResult("category_update", core.OutcomeUpdated, candidate, nil), nil
}

// DeleteCategory deletes category id unless items still reference it.
// A category that is already gone counts as deleted.
func (s *Service) DeleteCategory(ctx context.Context, id string) (core.DeleteCategoryResult, error) {
	var (
		category *domain.Category
		items    []domain.Item
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.store.GetCategory(gCtx, id)
		if store.IsNotFound(err) {
			return nil
		}
		category = c
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.store.ListItemsByCategory(gCtx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.DeleteCategoryResult{}, err
	}

	if allowed, reason := core.CanDeleteCategory(len(items)); !allowed {
		s.logger.Info("category delete blocked", "id", id, "reason", reason, "items", len(items))
		metrics.RecordOutcome("category_delete", string(core.OutcomeBlocked))
		return core.DeleteCategoryResult{Outcome: core.OutcomeBlocked, Category: category, Items: items}, nil
	}

	if err := s.store.DeleteCategory(ctx, id); err != nil && !store.IsNotFound(err) {
		return core.DeleteCategoryResult{}, err
	}

	s.logger.Info("category deleted", "id", id)
	metrics.RecordOutcome("category_delete", string(core.OutcomeDeleted))
	return core.DeleteCategoryResult{Outcome: core.OutcomeDeleted, Category: category}, nil
}

func (s *Service) findCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	c, err := s.store.FindCategoryByName(ctx, name)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) categoryResult(workflow string, outcome core.Outcome, c domain.Category, errs validation.Errors) core.CategoryResult {
	metrics.RecordOutcome(workflow, string(outcome))
	return core.CategoryResult{Outcome: outcome, Category: c, Errors: errs}
}

func conflictErrors() validation.Errors {
	return validation.Errors{{Field: "name", Message: core.ConflictMessage}}
}

// =============================================================================
// Item Workflows
// =============================================================================

// MissingCategoryMessage is reported when an item names a category that
// does not exist.
const MissingCategoryMessage = "Selected category does not exist."

// CreateItem validates form and creates the item. On invalid input the
// result carries the category choices with the submitted one selected.
func (s *Service) CreateItem(ctx context.Context, form validation.ItemForm) (core.ItemResult, error) {
	input, errs := s.validator.Item(form)
	candidate := domain.Item{
		Name:         input.Name,
		CategoryID:   input.CategoryID,
		PriceInCents: input.PriceInCents,
		Quantity:     input.Quantity,
	}

	if !errs.Any() {
		if _, err := s.store.GetCategory(ctx, input.CategoryID); err != nil {
			if !store.IsNotFound(err) {
				return core.ItemResult{}, err
			}
			errs = append(errs, validation.FieldError{Field: "category", Message: MissingCategoryMessage})
		}
	}

	if errs.Any() {
		categories, err := s.store.ListCategories(ctx)
		if err != nil {
			return core.ItemResult{}, err
		}
		metrics.RecordOutcome("item_create", string(core.OutcomeInvalid))
		return core.ItemResult{
			Outcome: core.OutcomeInvalid,
			Item:    candidate,
			Errors:  errs,
			Options: core.CategoryOptions(categories, candidate.CategoryID),
		}, nil
	}

	if err := s.store.CreateItem(ctx, &candidate); err != nil {
		return core.ItemResult{}, err
	}

	s.logger.Info("item created", "id", candidate.ID, "name", candidate.Name, "category", candidate.CategoryID)
	metrics.RecordOutcome("item_create", string(core.OutcomeCreated))
	return core.ItemResult{Outcome: core.OutcomeCreated, Item: candidate}, nil
}

// DeleteItem deletes item id. A missing item counts as deleted.
func (s *Service) DeleteItem(ctx context.Context, id string) (core.ItemResult, error) {
	if err := s.store.DeleteItem(ctx, id); err != nil && !store.IsNotFound(err) {
		return core.ItemResult{}, err
	}

	s.logger.Info("item deleted", "id", id)
	metrics.RecordOutcome("item_delete", string(core.OutcomeDeleted))
	return core.ItemResult{Outcome: core.OutcomeDeleted, Item: domain.Item{ID: id}}, nil
}

// UpdateItem is not supported. It changes nothing.
func (s *Service) UpdateItem(ctx context.Context, id string) (core.ItemResult, error) {
	metrics.RecordOutcome("item_update", string(core.OutcomeUnsupported))
	return core.ItemResult{Outcome: core.OutcomeUnsupported, Item: domain.Item{ID: id}}, nil
}
