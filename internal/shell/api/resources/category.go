// Package resources provides the JSON:API resources of the inventory API.
// Every mutation runs through the same workflows as the HTML forms.
package resources

import (
	"fmt"
	"net/http"

	"github.com/artpar/inventory/internal/core/domain"
	core "github.com/artpar/inventory/internal/core/inventory"
	"github.com/artpar/inventory/internal/core/validation"
	"github.com/artpar/inventory/internal/shell/inventory"
	"github.com/artpar/inventory/internal/shell/store"
	"github.com/manyminds/api2go"
	"github.com/manyminds/api2go/jsonapi"
)

// =============================================================================
// Category JSON:API Model
// =============================================================================

// Category is the JSON:API representation of domain.Category. The
// validate tags document the rules the create workflow enforces.
type Category struct {
	ID          string `json:"-"`
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,min=1"`
}

// GetID returns the category ID for JSON:API.
func (c Category) GetID() string {
	return c.ID
}

// SetID sets the category ID for JSON:API.
func (c *Category) SetID(id string) error {
	c.ID = id
	return nil
}

// GetName returns the JSON:API resource type name.
func (c Category) GetName() string {
	return "categories"
}

// GetReferences returns the relationships this resource has.
func (c Category) GetReferences() []jsonapi.Reference {
	return []jsonapi.Reference{
		{Type: "items", Name: "items", IsNotLoaded: true, Relationship: jsonapi.ToManyRelationship},
	}
}

// GetReferencedIDs returns nil; items are fetched through their own
// endpoint.
func (c Category) GetReferencedIDs() []jsonapi.ReferenceID {
	return nil
}

// DescriptionImmutableMessage is reported when an update tries to change the
// description.
const DescriptionImmutableMessage = "Description cannot be changed."

// CategoryFromDomain converts a domain.Category to its JSON:API model.
func CategoryFromDomain(c domain.Category) Category {
	return Category{ID: c.ID, Name: c.Name, Description: c.Description}
}

// =============================================================================
// CategoryResource - CRUD Operations
// =============================================================================

// CategoryResource implements the api2go resource interface for categories.
type CategoryResource struct {
	Service *inventory.Service
}

// NewCategoryResource creates a category resource over svc.
func NewCategoryResource(svc *inventory.Service) *CategoryResource {
	return &CategoryResource{Service: svc}
}

// FindAll returns all categories sorted by name.
// GET /api/v1/categories
func (r CategoryResource) FindAll(req api2go.Request) (api2go.Responder, error) {
	categories, err := r.Service.ListCategories(req.PlainRequest.Context())
	if err != nil {
		return &Response{Code: http.StatusInternalServerError}, err
	}

	result := make([]Category, 0, len(categories))
	for _, c := range categories {
		result = append(result, CategoryFromDomain(c))
	}
	return &Response{
		Code: http.StatusOK,
		Res:  result,
		Meta: map[string]interface{}{"total": len(result)},
	}, nil
}

// FindOne returns a single category.
// GET /api/v1/categories/{id}
func (r CategoryResource) FindOne(id string, req api2go.Request) (api2go.Responder, error) {
	category, err := r.Service.GetCategory(req.PlainRequest.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			return notFound("category", "Category not found")
		}
		return &Response{Code: http.StatusInternalServerError}, err
	}
	return &Response{Code: http.StatusOK, Res: CategoryFromDomain(*category)}, nil
}

// Create runs the category create workflow. A name that is already taken
// answers with the existing category and meta.existing set.
// POST /api/v1/categories
func (r CategoryResource) Create(obj interface{}, req api2go.Request) (api2go.Responder, error) {
	category, ok := obj.(Category)
	if !ok {
		return invalidBody()
	}

	res, err := r.Service.CreateCategory(req.PlainRequest.Context(), validation.CategoryForm{
		Name:        category.Name,
		Description: category.Description,
	})
	if err != nil {
		return &Response{Code: http.StatusInternalServerError}, err
	}

	switch res.Outcome {
	case core.OutcomeCreated, core.OutcomeExisting:
		// api2go only accepts 201, 202 or 204 from Create
		return &Response{
			Code: http.StatusCreated,
			Res:  CategoryFromDomain(res.Category),
			Meta: map[string]interface{}{"existing": res.Outcome == core.OutcomeExisting},
		}, nil
	}
	return validationFailed(res.Errors)
}

// Update renames a category. The description is fixed at creation; a
// request changing it is rejected.
// PATCH /api/v1/categories/{id}
func (r CategoryResource) Update(obj interface{}, req api2go.Request) (api2go.Responder, error) {
	category, ok := obj.(Category)
	if !ok {
		return invalidBody()
	}
	ctx := req.PlainRequest.Context()

	// api2go merges the request onto the stored record, so a differing
	// description means the client sent one
	current, err := r.Service.GetCategory(ctx, category.ID)
	if err != nil {
		if store.IsNotFound(err) {
			return notFound("category", "Category not found")
		}
		return &Response{Code: http.StatusInternalServerError}, err
	}
	if category.Description != current.Description {
		return validationFailed(validation.Errors{{Field: "description", Message: DescriptionImmutableMessage}})
	}

	res, err := r.Service.UpdateCategory(ctx, category.ID, validation.CategoryNameForm{
		Name: category.Name,
	})
	if err != nil {
		return &Response{Code: http.StatusInternalServerError}, err
	}

	switch res.Outcome {
	case core.OutcomeUpdated:
		return &Response{Code: http.StatusOK, Res: CategoryFromDomain(res.Category)}, nil
	case core.OutcomeNotFound:
		return notFound("category", "Category not found")
	}
	return validationFailed(res.Errors)
}

// Delete removes a category that no item references.
// DELETE /api/v1/categories/{id}
func (r CategoryResource) Delete(id string, req api2go.Request) (api2go.Responder, error) {
	res, err := r.Service.DeleteCategory(req.PlainRequest.Context(), id)
	if err != nil {
		return &Response{Code: http.StatusInternalServerError}, err
	}

	if res.Outcome == core.OutcomeBlocked {
		msg := fmt.Sprintf("Category has %d item(s); delete them first", len(res.Items))
		return &Response{Code: http.StatusConflict}, api2go.NewHTTPError(
			fmt.Errorf("category %s still referenced", id),
			msg,
			http.StatusConflict,
		)
	}
	return &Response{Code: http.StatusNoContent}, nil
}
