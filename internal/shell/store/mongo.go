package store

import (
	"context"
	"errors"

	"github.com/artpar/inventory/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// DefaultMongoDatabase is used when the connection string names no database.
const DefaultMongoDatabase = "inventory"

// nameCollation compares names case-insensitively but accent-sensitively.
var nameCollation = &options.Collation{Locale: "en", Strength: 2}

// =============================================================================
// Documents
// =============================================================================

type categoryDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
}

type itemDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Category     primitive.ObjectID `bson:"category"`
	PriceInCents int64              `bson:"priceInCents"`
	Quantity     int64              `bson:"quantity"`
}

// =============================================================================
// MongoStore
// =============================================================================

// MongoStore implements Store using MongoDB. Category name uniqueness is
// enforced by a unique index with a strength-2 English collation.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to uri and ensures indexes. The database is taken
// from the connection string path, falling back to DefaultMongoDatabase.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, NewStoreError("NewMongoStore", "", "", err.Error(), ErrConnectionFailed)
	}
	return NewMongoStoreWithDatabase(ctx, uri, cs.Database)
}

// NewMongoStoreWithDatabase connects to uri and uses the named database.
func NewMongoStoreWithDatabase(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, NewStoreError("NewMongoStore", "", "", "failed to connect", ErrConnectionFailed)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, NewStoreError("NewMongoStore", "", "", "failed to ping database", ErrConnectionFailed)
	}

	s := &MongoStore{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, NewStoreError("NewMongoStore", "", "", err.Error(), ErrMigrationFailed)
	}

	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.categories().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("name_ci_unique").SetUnique(true).SetCollation(nameCollation),
	})
	if err != nil {
		return err
	}

	_, err = s.items().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}},
		Options: options.Index().SetName("category"),
	})
	return err
}

func (s *MongoStore) categories() *mongo.Collection {
	return s.db.Collection("categories")
}

func (s *MongoStore) items() *mongo.Collection {
	return s.db.Collection("items")
}

// Ping checks the server connection.
func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return NewStoreError("Ping", "", "", err.Error(), ErrConnectionFailed)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// WithTx runs fn against the store directly. Standalone servers have no
// multi-document transactions; every single call is still atomic.
func (s *MongoStore) WithTx(ctx context.Context, fn func(Store) error) error {
	return fn(s)
}

// =============================================================================
// Category Operations
// =============================================================================

func (s *MongoStore) CreateCategory(ctx context.Context, category *domain.Category) error {
	doc := categoryDoc{Name: category.Name, Description: category.Description}
	if category.ID != "" {
		oid, err := primitive.ObjectIDFromHex(category.ID)
		if err != nil {
			return NewStoreError("CreateCategory", "category", category.ID, "malformed id", ErrInvalidID)
		}
		doc.ID = oid
	} else {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := s.categories().InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return NewStoreError("CreateCategory", "category", doc.ID.Hex(), "category with this name already exists", ErrDuplicateName)
		}
		return NewStoreError("CreateCategory", "category", doc.ID.Hex(), err.Error(), err)
	}

	category.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, NewStoreError("GetCategory", "category", id, "malformed id", ErrInvalidID)
	}

	var doc categoryDoc
	err = s.categories().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewStoreError("GetCategory", "category", id, "category not found", ErrNotFound)
		}
		return nil, NewStoreError("GetCategory", "category", id, err.Error(), err)
	}

	return docToCategory(&doc), nil
}

func (s *MongoStore) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	var doc categoryDoc
	err := s.categories().
		FindOne(ctx, bson.M{"name": name}, options.FindOne().SetCollation(nameCollation)).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewStoreError("FindCategoryByName", "category", name, "category not found", ErrNotFound)
		}
		return nil, NewStoreError("FindCategoryByName", "category", name, err.Error(), err)
	}

	return docToCategory(&doc), nil
}

func (s *MongoStore) RenameCategory(ctx context.Context, id, name string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return NewStoreError("RenameCategory", "category", id, "malformed id", ErrInvalidID)
	}

	result, err := s.categories().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return NewStoreError("RenameCategory", "category", id, "category with this name already exists", ErrDuplicateName)
		}
		return NewStoreError("RenameCategory", "category", id, err.Error(), err)
	}
	if result.MatchedCount == 0 {
		return NewStoreError("RenameCategory", "category", id, "category not found", ErrNotFound)
	}

	return nil
}

func (s *MongoStore) DeleteCategory(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return NewStoreError("DeleteCategory", "category", id, "malformed id", ErrInvalidID)
	}

	result, err := s.categories().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return NewStoreError("DeleteCategory", "category", id, err.Error(), err)
	}
	if result.DeletedCount == 0 {
		return NewStoreError("DeleteCategory", "category", id, "category not found", ErrNotFound)
	}

	return nil
}

func (s *MongoStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}).
		SetCollation(nameCollation)

	cursor, err := s.categories().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, NewStoreError("ListCategories", "category", "", err.Error(), err)
	}

	var docs []categoryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, NewStoreError("ListCategories", "category", "", err.Error(), err)
	}

	categories := make([]domain.Category, 0, len(docs))
	for i := range docs {
		categories = append(categories, *docToCategory(&docs[i]))
	}
	return categories, nil
}

func (s *MongoStore) CountCategories(ctx context.Context) (int, error) {
	n, err := s.categories().CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, NewStoreError("CountCategories", "category", "", err.Error(), err)
	}
	return int(n), nil
}

// =============================================================================
// Item Operations
// =============================================================================

func (s *MongoStore) CreateItem(ctx context.Context, item *domain.Item) error {
	categoryID, err := primitive.ObjectIDFromHex(item.CategoryID)
	if err != nil {
		return NewStoreError("CreateItem", "item", item.ID, "malformed category id", ErrInvalidID)
	}

	doc := itemDoc{
		Name:         item.Name,
		Category:     categoryID,
		PriceInCents: item.PriceInCents,
		Quantity:     item.Quantity,
	}
	if item.ID != "" {
		oid, err := primitive.ObjectIDFromHex(item.ID)
		if err != nil {
			return NewStoreError("CreateItem", "item", item.ID, "malformed id", ErrInvalidID)
		}
		doc.ID = oid
	} else {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := s.items().InsertOne(ctx, doc); err != nil {
		return NewStoreError("CreateItem", "item", doc.ID.Hex(), err.Error(), err)
	}

	item.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, NewStoreError("GetItem", "item", id, "malformed id", ErrInvalidID)
	}

	var doc itemDoc
	err = s.items().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewStoreError("GetItem", "item", id, "item not found", ErrNotFound)
		}
		return nil, NewStoreError("GetItem", "item", id, err.Error(), err)
	}

	return docToItem(&doc), nil
}

func (s *MongoStore) DeleteItem(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return NewStoreError("DeleteItem", "item", id, "malformed id", ErrInvalidID)
	}

	result, err := s.items().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return NewStoreError("DeleteItem", "item", id, err.Error(), err)
	}
	if result.DeletedCount == 0 {
		return NewStoreError("DeleteItem", "item", id, "item not found", ErrNotFound)
	}

	return nil
}

func (s *MongoStore) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.findItems(ctx, "ListItems", bson.D{})
}

func (s *MongoStore) ListItemsByCategory(ctx context.Context, categoryID string) ([]domain.Item, error) {
	oid, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		// No item can reference a malformed id.
		return []domain.Item{}, nil
	}
	return s.findItems(ctx, "ListItemsByCategory", bson.D{{Key: "category", Value: oid}})
}

func (s *MongoStore) CountItems(ctx context.Context) (int, error) {
	n, err := s.items().CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, NewStoreError("CountItems", "item", "", err.Error(), err)
	}
	return int(n), nil
}

func (s *MongoStore) findItems(ctx context.Context, op string, filter bson.D) ([]domain.Item, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}).
		SetCollation(nameCollation)

	cursor, err := s.items().Find(ctx, filter, opts)
	if err != nil {
		return nil, NewStoreError(op, "item", "", err.Error(), err)
	}

	var docs []itemDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, NewStoreError(op, "item", "", err.Error(), err)
	}

	items := make([]domain.Item, 0, len(docs))
	for i := range docs {
		items = append(items, *docToItem(&docs[i]))
	}
	return items, nil
}

// =============================================================================
// Document Conversion Functions
// =============================================================================

func docToCategory(doc *categoryDoc) *domain.Category {
	return &domain.Category{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Description: doc.Description,
	}
}

func docToItem(doc *itemDoc) *domain.Item {
	return &domain.Item{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		CategoryID:   doc.Category.Hex(),
		PriceInCents: doc.PriceInCents,
		Quantity:     doc.Quantity,
	}
}
