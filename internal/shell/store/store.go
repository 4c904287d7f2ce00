package store

import (
	"context"
	"strings"

	"github.com/artpar/inventory/internal/core/domain"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for categories and items.
// Every call is atomic on its own; callers needing several writes together
// use WithTx.
type Store interface {
	// Category operations
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*domain.Category, error)
	RenameCategory(ctx context.Context, id, name string) error
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CountCategories(ctx context.Context) (int, error)

	// Item operations
	CreateItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context) ([]domain.Item, error)
	ListItemsByCategory(ctx context.Context, categoryID string) ([]domain.Item, error)
	CountItems(ctx context.Context) (int, error)

	// Transaction support
	WithTx(ctx context.Context, fn func(Store) error) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// =============================================================================
// Opening
// =============================================================================

// Open returns the store selected by dsn. MongoDB connection strings
// (mongodb:// and mongodb+srv://) open a MongoStore; anything else is a
// SQLite path or DSN.
func Open(ctx context.Context, dsn string) (Store, error) {
	if IsMongoDSN(dsn) {
		return NewMongoStore(ctx, dsn)
	}
	return NewSQLiteStore(dsn)
}

// IsMongoDSN reports whether dsn is a MongoDB connection string.
func IsMongoDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://")
}
