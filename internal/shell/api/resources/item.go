package resources

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/artpar/inventory/internal/core/domain"
	core "github.com/artpar/inventory/internal/core/inventory"
	"github.com/artpar/inventory/internal/core/validation"
	"github.com/artpar/inventory/internal/shell/inventory"
	"github.com/artpar/inventory/internal/shell/store"
	"github.com/manyminds/api2go"
	"github.com/manyminds/api2go/jsonapi"
)

// =============================================================================
// Item JSON:API Model
// =============================================================================

// Item is the JSON:API representation of domain.Item. The category is a
// to-one relationship. Numeric attributes are pointers so an omitted one is
// reported as missing rather than read as zero.
type Item struct {
	ID           string `json:"-"`
	Name         string `json:"name" validate:"required,max=100"`
	PriceInCents *int64 `json:"price_in_cents" validate:"required,gte=1"`
	Quantity     *int64 `json:"quantity" validate:"required,gte=0"`
	Price        string `json:"price"`
	CategoryID   string `json:"-"`
}

// GetID returns the item ID for JSON:API.
func (i Item) GetID() string {
	return i.ID
}

// SetID sets the item ID for JSON:API.
func (i *Item) SetID(id string) error {
	i.ID = id
	return nil
}

// GetName returns the JSON:API resource type name.
func (i Item) GetName() string {
	return "items"
}

// GetReferences returns the relationships this resource has.
func (i Item) GetReferences() []jsonapi.Reference {
	return []jsonapi.Reference{
		{Type: "categories", Name: "category", Relationship: jsonapi.ToOneRelationship},
	}
}

// GetReferencedIDs returns the linkage of the category relationship.
func (i Item) GetReferencedIDs() []jsonapi.ReferenceID {
	if i.CategoryID == "" {
		return nil
	}
	return []jsonapi.ReferenceID{
		{ID: i.CategoryID, Type: "categories", Name: "category", Relationship: jsonapi.ToOneRelationship},
	}
}

// SetToOneReferenceID sets the category from a request's relationships.
func (i *Item) SetToOneReferenceID(name, id string) error {
	if name != "category" {
		return errors.New("unknown relationship " + name)
	}
	i.CategoryID = id
	return nil
}

// ItemFromDomain converts a domain.Item to its JSON:API model.
func ItemFromDomain(i domain.Item) Item {
	price, quantity := i.PriceInCents, i.Quantity
	return Item{
		ID:           i.ID,
		Name:         i.Name,
		PriceInCents: &price,
		Quantity:     &quantity,
		Price:        i.PriceDisplay(),
		CategoryID:   i.CategoryID,
	}
}

// =============================================================================
// ItemResource - CRUD Operations
// =============================================================================

// ItemResource implements the api2go resource interface for items.
type ItemResource struct {
	Service *inventory.Service
}

// NewItemResource creates an item resource over svc.
func NewItemResource(svc *inventory.Service) *ItemResource {
	return &ItemResource{Service: svc}
}

// FindAll returns all items sorted by name.
// GET /api/v1/items
func (r ItemResource) FindAll(req api2go.Request) (api2go.Responder, error) {
	listing, err := r.Service.ListItems(req.PlainRequest.Context())
	if err != nil {
		return &Response{Code: http.StatusInternalServerError}, err
	}

	result := make([]Item, 0, len(listing))
	for _, l := range listing {
		result = append(result, ItemFromDomain(l.Item))
	}
	return &Response{
		Code: http.StatusOK,
		Res:  result,
		Meta: map[string]interface{}{"total": len(result)},
	}, nil
}

// FindOne returns a single item.
// GET /api/v1/items/{id}
func (r ItemResource) FindOne(id string, req api2go.Request) (api2go.Responder, error) {
	detail, err := r.Service.ItemDetail(req.PlainRequest.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			return notFound("item", "Item not found")
		}
		return &Response{Code: http.StatusInternalServerError}, err
	}
	return &Response{Code: http.StatusOK, Res: ItemFromDomain(detail.Item)}, nil
}

// Create runs the item create workflow.
// POST /api/v1/items
func (r ItemResource) Create(obj interface{}, req api2go.Request) (api2go.Responder, error) {
	item, ok := obj.(Item)
	if !ok {
		return invalidBody()
	}

	form := validation.ItemForm{
		Name:         item.Name,
		PriceInCents: formatOptional(item.PriceInCents),
		Quantity:     formatOptional(item.Quantity),
	}
	if item.CategoryID != "" {
		form.Category = []string{item.CategoryID}
	}

	res, err := r.Service.CreateItem(req.PlainRequest.Context(), form)
	if err != nil {
		return &Response{Code: http.StatusInternalServerError}, err
	}
	if res.Outcome != core.OutcomeCreated {
		return validationFailed(res.Errors)
	}
	return &Response{Code: http.StatusCreated, Res: ItemFromDomain(res.Item)}, nil
}

// Update is not supported.
// PATCH /api/v1/items/{id}
func (r ItemResource) Update(obj interface{}, req api2go.Request) (api2go.Responder, error) {
	item, _ := obj.(Item)
	if _, err := r.Service.UpdateItem(req.PlainRequest.Context(), item.ID); err != nil {
		return &Response{Code: http.StatusInternalServerError}, err
	}
	return &Response{Code: http.StatusNotImplemented}, api2go.NewHTTPError(
		fmt.Errorf("item update not supported"),
		"Updating items is not supported",
		http.StatusNotImplemented,
	)
}

// Delete removes an item. A missing item counts as deleted.
// DELETE /api/v1/items/{id}
func (r ItemResource) Delete(id string, req api2go.Request) (api2go.Responder, error) {
	if _, err := r.Service.DeleteItem(req.PlainRequest.Context(), id); err != nil {
		return &Response{Code: http.StatusInternalServerError}, err
	}
	return &Response{Code: http.StatusNoContent}, nil
}

// formatOptional renders an attribute the way a form would post it. An
// absent attribute becomes a blank field.
func formatOptional(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}
