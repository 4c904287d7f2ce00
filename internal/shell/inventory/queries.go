package inventory

import (
	"context"

	"github.com/artpar/inventory/internal/core/domain"
	core "github.com/artpar/inventory/internal/core/inventory"
	"github.com/artpar/inventory/internal/shell/store"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// Read Models
// =============================================================================

// Summary holds the record counts shown on the home page.
type Summary struct {
	Items      int
	Categories int
}

// CategoryDetail is a category with the items that reference it.
type CategoryDetail struct {
	Category domain.Category
	Items    []domain.Item
}

// ItemDetail is an item with its category. Category is nil when the
// referenced category no longer exists.
type ItemDetail struct {
	Item     domain.Item
	Category *domain.Category
}

// =============================================================================
// Queries
// =============================================================================

// Summary counts items and categories concurrently.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var sum Summary

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sum.Items, err = s.store.CountItems(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		sum.Categories, err = s.store.CountCategories(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return sum, nil
}

// ListCategories returns all categories sorted by name.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.store.ListCategories(ctx)
}

// GetCategory returns category id or a not-found store error.
func (s *Service) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.store.GetCategory(ctx, id)
}

// CategoryDetail loads category id and its items concurrently. A missing
// category is reported as a not-found store error.
func (s *Service) CategoryDetail(ctx context.Context, id string) (*CategoryDetail, error) {
	var detail CategoryDetail

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.store.GetCategory(gCtx, id)
		if err != nil {
			return err
		}
		detail.Category = *c
		return nil
	})
	g.Go(func() error {
		var err error
		detail.Items, err = s.store.ListItemsByCategory(gCtx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListItems returns all items sorted by name, each with its category name.
func (s *Service) ListItems(ctx context.Context) ([]core.ItemListing, error) {
	var (
		items      []domain.Item
		categories []domain.Category
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.store.ListItems(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return core.JoinItems(items, categories), nil
}

// ItemDetail loads item id and its category. A missing item is reported as
// a not-found store error; a missing category is not an error.
func (s *Service) ItemDetail(ctx context.Context, id string) (*ItemDetail, error) {
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ItemDetail{Item: *item}
	category, err := s.store.GetCategory(ctx, item.CategoryID)
	if err != nil {
		if store.IsNotFound(err) {
			return detail, nil
		}
		return nil, err
	}
	detail.Category = category
	return detail, nil
}

// CategoryOptions returns the category choices for an empty item form.
func (s *Service) CategoryOptions(ctx context.Context) ([]core.CategoryOption, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return core.CategoryOptions(categories, ""), nil
}
