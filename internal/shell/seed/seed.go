// Package seed loads the demonstration categories and items.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/artpar/inventory/internal/core/domain"
	"github.com/artpar/inventory/internal/shell/store"
	"gopkg.in/yaml.v3"
)

//go:embed fixture.yaml
var fixtureYAML []byte

// =============================================================================
// Fixture
// =============================================================================

// Fixture is the seed data set. Items name their category by key.
type Fixture struct {
	Categories []CategoryEntry `yaml:"categories"`
	Items      []ItemEntry     `yaml:"items"`
}

// CategoryEntry is one seeded category.
type CategoryEntry struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ItemEntry is one seeded item.
type ItemEntry struct {
	Name         string `yaml:"name"`
	Category     string `yaml:"category"`
	PriceInCents int64  `yaml:"price_in_cents"`
	Quantity     int64  `yaml:"quantity"`
}

// DefaultFixture returns the embedded data set.
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(fixtureYAML)
}

// ParseFixture decodes a fixture and checks that every item names a
// category declared in it.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}

	keys := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		if c.Key == "" {
			return nil, fmt.Errorf("category %q has no key", c.Name)
		}
		if keys[c.Key] {
			return nil, fmt.Errorf("duplicate category key %q", c.Key)
		}
		keys[c.Key] = true
	}
	for _, i := range f.Items {
		if !keys[i.Category] {
			return nil, fmt.Errorf("item %q references unknown category %q", i.Name, i.Category)
		}
	}
	return &f, nil
}

// =============================================================================
// Populate
// =============================================================================

// Result lists the records Populate created.
type Result struct {
	Categories []domain.Category
	Items      []domain.Item
}

// Populate writes the fixture inside one store transaction. Categories are
// created first so items can reference their assigned IDs.
func Populate(ctx context.Context, s store.Store, f *Fixture, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var res Result
	err := s.WithTx(ctx, func(tx store.Store) error {
		res = Result{}
		ids := make(map[string]string, len(f.Categories))

		logger.Info("adding categories", "count", len(f.Categories))
		for _, entry := range f.Categories {
			c := domain.Category{Name: entry.Name, Description: entry.Description}
			if err := tx.CreateCategory(ctx, &c); err != nil {
				return fmt.Errorf("category %q: %w", entry.Name, err)
			}
			ids[entry.Key] = c.ID
			res.Categories = append(res.Categories, c)
			logger.Info("added category", "id", c.ID, "name", c.Name)
		}

		logger.Info("adding items", "count", len(f.Items))
		for _, entry := range f.Items {
			i := domain.Item{
				Name:         entry.Name,
				CategoryID:   ids[entry.Category],
				PriceInCents: entry.PriceInCents,
				Quantity:     entry.Quantity,
			}
			if err := tx.CreateItem(ctx, &i); err != nil {
				return fmt.Errorf("item %q: %w", entry.Name, err)
			}
			res.Items = append(res.Items, i)
			logger.Info("added item", "id", i.ID, "name", i.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
