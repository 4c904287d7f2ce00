package openapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID    string `json:"-"`
	Name  string `json:"name" validate:"required,min=3,max=100"`
	Count int64  `json:"count" validate:"gte=0"`
	Note  *string
	Limit *int64   `json:"limit" validate:"required,gte=1"`
	Tags  []string `json:"tags"`
}

func newWidgetGenerator() *Generator {
	gen := NewGenerator(WithTitle("Widgets"), WithServer("/"))
	gen.RegisterResource(ResourceInfo{
		Name:           "widgets",
		Model:          widget{},
		Relationships:  []Relationship{{Name: "owner", Type: "people"}},
		SupportsFind:   true,
		SupportsCreate: true,
		SupportsDelete: true,
	})
	return gen
}

func TestGenerate_Paths(t *testing.T) {
	spec := newWidgetGenerator().Generate()

	assert.Equal(t, "Widgets", spec.Info.Title)
	assert.Equal(t, "1.0.0", spec.Info.Version)
	require.Len(t, spec.Servers, 1)

	collection := spec.Paths.Value("/api/v1/widgets")
	require.NotNil(t, collection)
	assert.NotNil(t, collection.Get)
	require.NotNil(t, collection.Post)
	assert.NotNil(t, collection.Post.Responses.Value("201"))
	assert.NotNil(t, collection.Post.Responses.Value("422"))

	member := spec.Paths.Value("/api/v1/widgets/{id}")
	require.NotNil(t, member)
	assert.NotNil(t, member.Get)
	assert.Nil(t, member.Patch)
	require.NotNil(t, member.Delete)
	assert.NotNil(t, member.Delete.Responses.Value("409"))
	assert.Equal(t, "deleteWidget", member.Delete.OperationID)
}

func TestGenerate_AttributeConstraints(t *testing.T) {
	spec := newWidgetGenerator().Generate()

	attrs := spec.Components.Schemas["WidgetAttributes"].Value
	require.NotNil(t, attrs)
	assert.Equal(t, []string{"name", "limit"}, attrs.Required)
	assert.NotContains(t, attrs.Properties, "ID")
	assert.NotContains(t, attrs.Properties, "tags")

	name := attrs.Properties["name"].Value
	assert.Equal(t, uint64(3), name.MinLength)
	require.NotNil(t, name.MaxLength)
	assert.Equal(t, uint64(100), *name.MaxLength)

	count := attrs.Properties["count"].Value
	require.NotNil(t, count.Min)
	assert.Equal(t, float64(0), *count.Min)

	assert.True(t, attrs.Properties["Note"].Value.Nullable)
	assert.False(t, attrs.Properties["limit"].Value.Nullable)

	assert.Contains(t, spec.Components.Schemas["Widget"].Value.Properties, "relationships")
}

func TestGenerate_CachesUntilRegister(t *testing.T) {
	gen := newWidgetGenerator()

	first := gen.Generate()
	assert.Same(t, first, gen.Generate())

	gen.RegisterResource(ResourceInfo{Name: "gadgets", Model: widget{}, SupportsFind: true})
	second := gen.Generate()
	assert.NotSame(t, first, second)
	assert.NotNil(t, second.Paths.Value("/api/v1/gadgets"))
}

func TestHandler_ServesJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	newWidgetGenerator().Handler()(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
}

func TestSingularize(t *testing.T) {
	assert.Equal(t, "category", singularize("categories"))
	assert.Equal(t, "item", singularize("items"))
	assert.Equal(t, "fish", singularize("fish"))
}
