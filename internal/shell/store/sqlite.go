package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/artpar/inventory/internal/core/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// =============================================================================
// Executor Interface - Shared by DB and Transaction
// =============================================================================

// executor abstracts database operations that can be performed on both
// a database connection and a transaction.
type executor interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", withPragmas(dsn))
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to open database", ErrConnectionFailed)
	}

	// One connection: an in-memory database exists per connection, and
	// SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db}, nil
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_busy_timeout=5000"
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStoreError("Ping", "", "", err.Error(), ErrConnectionFailed)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// Category Operations
// =============================================================================

// categoryRow represents a category row in the database.
type categoryRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	NameKey     string `db:"name_key"`
	Description string `db:"description"`
}

func (s *SQLiteStore) CreateCategory(ctx context.Context, category *domain.Category) error {
	return createCategory(ctx, s.db, category)
}

func (s *SQLiteStore) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return getCategory(ctx, s.db, id)
}

func (s *SQLiteStore) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	return findCategoryByName(ctx, s.db, name)
}

func (s *SQLiteStore) RenameCategory(ctx context.Context, id, name string) error {
	return renameCategory(ctx, s.db, id, name)
}

func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	return deleteCategory(ctx, s.db, id)
}

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return listCategories(ctx, s.db)
}

func (s *SQLiteStore) CountCategories(ctx context.Context) (int, error) {
	return count(ctx, s.db, "CountCategories", "category", "categories")
}

// =============================================================================
// Item Operations
// =============================================================================

// itemRow represents an item row in the database.
type itemRow struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	CategoryID   string `db:"category_id"`
	PriceInCents int64  `db:"price_in_cents"`
	Quantity     int64  `db:"quantity"`
}

func (s *SQLiteStore) CreateItem(ctx context.Context, item *domain.Item) error {
	return createItem(ctx, s.db, item)
}

func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	return getItem(ctx, s.db, id)
}

func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) error {
	return deleteItem(ctx, s.db, id)
}

func (s *SQLiteStore) ListItems(ctx context.Context) ([]domain.Item, error) {
	return listItems(ctx, s.db)
}

func (s *SQLiteStore) ListItemsByCategory(ctx context.Context, categoryID string) ([]domain.Item, error) {
	return listItemsByCategory(ctx, s.db, categoryID)
}

func (s *SQLiteStore) CountItems(ctx context.Context) (int, error) {
	return count(ctx, s.db, "CountItems", "item", "items")
}

// =============================================================================
// Transaction Support
// =============================================================================

func (s *SQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return NewStoreError("WithTx", "", "", "failed to begin transaction", ErrTxFailed)
	}

	txS := &txSQLiteStore{tx: tx}

	if err := fn(txS); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return NewStoreError("WithTx", "", "", fmt.Sprintf("rollback failed after error: %v", err), ErrTxFailed)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return NewStoreError("WithTx", "", "", "failed to commit transaction", ErrTxFailed)
	}

	return nil
}

// =============================================================================
// Transaction Store
// =============================================================================

// txSQLiteStore implements Store within a transaction.
type txSQLiteStore struct {
	tx *sqlx.Tx
}

func (s *txSQLiteStore) CreateCategory(ctx context.Context, category *domain.Category) error {
	return createCategory(ctx, s.tx, category)
}

func (s *txSQLiteStore) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return getCategory(ctx, s.tx, id)
}

func (s *txSQLiteStore) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	return findCategoryByName(ctx, s.tx, name)
}

func (s *txSQLiteStore) RenameCategory(ctx context.Context, id, name string) error {
	return renameCategory(ctx, s.tx, id, name)
}

func (s *txSQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	return deleteCategory(ctx, s.tx, id)
}

func (s *txSQLiteStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return listCategories(ctx, s.tx)
}

func (s *txSQLiteStore) CountCategories(ctx context.Context) (int, error) {
	return count(ctx, s.tx, "CountCategories", "category", "categories")
}

func (s *txSQLiteStore) CreateItem(ctx context.Context, item *domain.Item) error {
	return createItem(ctx, s.tx, item)
}

func (s *txSQLiteStore) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	return getItem(ctx, s.tx, id)
}

func (s *txSQLiteStore) DeleteItem(ctx context.Context, id string) error {
	return deleteItem(ctx, s.tx, id)
}

func (s *txSQLiteStore) ListItems(ctx context.Context) ([]domain.Item, error) {
	return listItems(ctx, s.tx)
}

func (s *txSQLiteStore) ListItemsByCategory(ctx context.Context, categoryID string) ([]domain.Item, error) {
	return listItemsByCategory(ctx, s.tx, categoryID)
}

func (s *txSQLiteStore) CountItems(ctx context.Context) (int, error) {
	return count(ctx, s.tx, "CountItems", "item", "items")
}

func (s *txSQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	// Already in a transaction, just run the function
	return fn(s)
}

func (s *txSQLiteStore) Ping(ctx context.Context) error {
	return nil
}

func (s *txSQLiteStore) Close() error {
	// No-op for tx store
	return nil
}

// =============================================================================
// Shared Implementation Functions
// =============================================================================

func createCategory(ctx context.Context, exec executor, category *domain.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}

	query := `
		INSERT INTO categories (id, name, name_key, description)
		VALUES (:id, :name, :name_key, :description)`

	row := categoryRow{
		ID:          category.ID,
		Name:        category.Name,
		NameKey:     domain.NameKey(category.Name),
		Description: category.Description,
	}

	_, err := exec.NamedExecContext(ctx, query, row)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: categories.name_key") {
			return NewStoreError("CreateCategory", "category", category.ID, "category with this name already exists", ErrDuplicateName)
		}
		return NewStoreError("CreateCategory", "category", category.ID, err.Error(), err)
	}

	return nil
}

func getCategory(ctx context.Context, exec executor, id string) (*domain.Category, error) {
	query := `SELECT * FROM categories WHERE id = ?`

	var row categoryRow
	err := exec.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetCategory", "category", id, "category not found", ErrNotFound)
		}
		return nil, NewStoreError("GetCategory", "category", id, err.Error(), err)
	}

	return rowToCategory(&row), nil
}

func findCategoryByName(ctx context.Context, exec executor, name string) (*domain.Category, error) {
	query := `SELECT * FROM categories WHERE name_key = ?`

	var row categoryRow
	err := exec.GetContext(ctx, &row, query, domain.NameKey(name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("FindCategoryByName", "category", name, "category not found", ErrNotFound)
		}
		return nil, NewStoreError("FindCategoryByName", "category", name, err.Error(), err)
	}

	return rowToCategory(&row), nil
}

func renameCategory(ctx context.Context, exec executor, id, name string) error {
	query := `UPDATE categories SET name = ?, name_key = ? WHERE id = ?`

	result, err := exec.ExecContext(ctx, query, name, domain.NameKey(name), id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: categories.name_key") {
			return NewStoreError("RenameCategory", "category", id, "category with this name already exists", ErrDuplicateName)
		}
		return NewStoreError("RenameCategory", "category", id, err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("RenameCategory", "category", id, "category not found", ErrNotFound)
	}

	return nil
}

func deleteCategory(ctx context.Context, exec executor, id string) error {
	query := `DELETE FROM categories WHERE id = ?`

	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return NewStoreError("DeleteCategory", "category", id, err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeleteCategory", "category", id, "category not found", ErrNotFound)
	}

	return nil
}

func listCategories(ctx context.Context, exec executor) ([]domain.Category, error) {
	query := `SELECT * FROM categories ORDER BY name_key, id`

	var rows []categoryRow
	if err := exec.SelectContext(ctx, &rows, query); err != nil {
		return nil, NewStoreError("ListCategories", "category", "", err.Error(), err)
	}

	categories := make([]domain.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, *rowToCategory(&rows[i]))
	}

	return categories, nil
}

func createItem(ctx context.Context, exec executor, item *domain.Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	query := `
		INSERT INTO items (id, name, category_id, price_in_cents, quantity)
		VALUES (:id, :name, :category_id, :price_in_cents, :quantity)`

	_, err := exec.NamedExecContext(ctx, query, itemToRow(item))
	if err != nil {
		return NewStoreError("CreateItem", "item", item.ID, err.Error(), err)
	}

	return nil
}

func getItem(ctx context.Context, exec executor, id string) (*domain.Item, error) {
	query := `SELECT * FROM items WHERE id = ?`

	var row itemRow
	err := exec.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetItem", "item", id, "item not found", ErrNotFound)
		}
		return nil, NewStoreError("GetItem", "item", id, err.Error(), err)
	}

	return rowToItem(&row), nil
}

func deleteItem(ctx context.Context, exec executor, id string) error {
	query := `DELETE FROM items WHERE id = ?`

	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return NewStoreError("DeleteItem", "item", id, err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeleteItem", "item", id, "item not found", ErrNotFound)
	}

	return nil
}

func listItems(ctx context.Context, exec executor) ([]domain.Item, error) {
	query := `SELECT * FROM items ORDER BY name COLLATE NOCASE, id`

	var rows []itemRow
	if err := exec.SelectContext(ctx, &rows, query); err != nil {
		return nil, NewStoreError("ListItems", "item", "", err.Error(), err)
	}

	return rowsToItems(rows), nil
}

func listItemsByCategory(ctx context.Context, exec executor, categoryID string) ([]domain.Item, error) {
	query := `SELECT * FROM items WHERE category_id = ? ORDER BY name COLLATE NOCASE, id`

	var rows []itemRow
	if err := exec.SelectContext(ctx, &rows, query, categoryID); err != nil {
		return nil, NewStoreError("ListItemsByCategory", "item", "", err.Error(), err)
	}

	return rowsToItems(rows), nil
}

// count returns the number of rows in table. table is never user input.
func count(ctx context.Context, exec executor, op, entity, table string) (int, error) {
	var n int
	if err := exec.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, NewStoreError(op, entity, "", err.Error(), err)
	}
	return n, nil
}

// =============================================================================
// Row Conversion Functions
// =============================================================================

func rowToCategory(row *categoryRow) *domain.Category {
	return &domain.Category{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
	}
}

func itemToRow(item *domain.Item) itemRow {
	return itemRow{
		ID:           item.ID,
		Name:         item.Name,
		CategoryID:   item.CategoryID,
		PriceInCents: item.PriceInCents,
		Quantity:     item.Quantity,
	}
}

func rowToItem(row *itemRow) *domain.Item {
	return &domain.Item{
		ID:           row.ID,
		Name:         row.Name,
		CategoryID:   row.CategoryID,
		PriceInCents: row.PriceInCents,
		Quantity:     row.Quantity,
	}
}

func rowsToItems(rows []itemRow) []domain.Item {
	items := make([]domain.Item, 0, len(rows))
	for i := range rows {
		items = append(items, *rowToItem(&rows[i]))
	}
	return items
}
