// Package openapi builds the OpenAPI 3.0 document for the JSON:API
// resources by reflecting on their models.
package openapi

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

const mediaType = "application/vnd.api+json"

// =============================================================================
// Generator
// =============================================================================

// Generator produces an OpenAPI document from registered resources. The
// document is built once and cached until another resource is registered.
type Generator struct {
	title       string
	version     string
	description string
	servers     []string
	resources   []ResourceInfo
	mu          sync.RWMutex
	cachedSpec  *openapi3.T
}

// ResourceInfo describes one JSON:API resource.
type ResourceInfo struct {
	Name           string // resource type, e.g. "categories"
	Model          any    // model struct; json tags name attributes, validate tags add constraints
	Relationships  []Relationship
	SupportsFind   bool // GET /{type} and GET /{type}/{id}
	SupportsCreate bool // POST /{type}
	SupportsUpdate bool // PATCH /{type}/{id}
	SupportsDelete bool // DELETE /{type}/{id}
}

// Relationship is a to-one link from a resource to another resource type.
type Relationship struct {
	Name string
	Type string
}

// Option configures the generator.
type Option func(*Generator)

// WithTitle sets the API title.
func WithTitle(title string) Option {
	return func(g *Generator) {
		g.title = title
	}
}

// WithVersion sets the API version.
func WithVersion(version string) Option {
	return func(g *Generator) {
		g.version = version
	}
}

// WithDescription sets the API description.
func WithDescription(description string) Option {
	return func(g *Generator) {
		g.description = description
	}
}

// WithServer adds a server URL.
func WithServer(url string) Option {
	return func(g *Generator) {
		g.servers = append(g.servers, url)
	}
}

// NewGenerator creates a new OpenAPI generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		title:   "Inventory API",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RegisterResource adds a resource to the document.
func (g *Generator) RegisterResource(info ResourceInfo) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resources = append(g.resources, info)
	g.cachedSpec = nil
}

// Generate returns the OpenAPI document.
func (g *Generator) Generate() *openapi3.T {
	g.mu.RLock()
	if spec := g.cachedSpec; spec != nil {
		g.mu.RUnlock()
		return spec
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cachedSpec != nil {
		return g.cachedSpec
	}

	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       g.title,
			Version:     g.version,
			Description: g.description,
		},
		Paths: &openapi3.Paths{},
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}
	for _, url := range g.servers {
		spec.Servers = append(spec.Servers, &openapi3.Server{URL: url})
	}

	spec.Components.Schemas["Error"] = errorSchema()
	for _, res := range g.resources {
		g.addResource(spec, res)
	}

	g.cachedSpec = spec
	return spec
}

// Handler serves the document as JSON.
func (g *Generator) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec := g.Generate()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(spec); err != nil {
			http.Error(w, "Failed to encode OpenAPI document", http.StatusInternalServerError)
		}
	}
}

// =============================================================================
// Schemas
// =============================================================================

func errorSchema() *openapi3.SchemaRef {
	str := openapi3.NewStringSchema()
	source := openapi3.NewObjectSchema().WithProperty("pointer", str)
	item := openapi3.NewObjectSchema().
		WithProperty("status", str).
		WithProperty("title", str).
		WithProperty("detail", str).
		WithPropertyRef("source", source.NewRef())
	return openapi3.NewObjectSchema().
		WithPropertyRef("errors", openapi3.NewArraySchema().WithItems(item).NewRef()).
		NewRef()
}

func (g *Generator) addResource(spec *openapi3.T, res ResourceInfo) {
	name := capitalize(singularize(res.Name))
	schemas := spec.Components.Schemas

	schemas[name+"Attributes"] = extractSchema(res.Model)

	resource := openapi3.NewObjectSchema().
		WithPropertyRef("type", openapi3.NewStringSchema().WithEnum(res.Name).NewRef()).
		WithProperty("id", openapi3.NewStringSchema()).
		WithPropertyRef("attributes", ref(name+"Attributes"))
	resource.Required = []string{"type", "id"}

	if len(res.Relationships) > 0 {
		rels := openapi3.NewObjectSchema()
		for _, rel := range res.Relationships {
			linkage := openapi3.NewObjectSchema().
				WithPropertyRef("type", openapi3.NewStringSchema().WithEnum(rel.Type).NewRef()).
				WithProperty("id", openapi3.NewStringSchema())
			rels.WithPropertyRef(rel.Name, openapi3.NewObjectSchema().WithPropertyRef("data", linkage.NewRef()).NewRef())
		}
		resource.WithPropertyRef("relationships", rels.NewRef())
	}
	schemas[name] = resource.NewRef()

	schemas[name+"Document"] = openapi3.NewObjectSchema().
		WithPropertyRef("data", ref(name)).
		NewRef()
	schemas[name+"ListDocument"] = openapi3.NewObjectSchema().
		WithPropertyRef("data", openapi3.NewArraySchema().WithItems(resource).NewRef()).
		WithPropertyRef("meta", openapi3.NewObjectSchema().WithProperty("total", openapi3.NewIntegerSchema()).NewRef()).
		NewRef()

	base := "/api/v1/" + res.Name

	collection := &openapi3.PathItem{}
	if res.SupportsFind {
		collection.Get = operation("list"+capitalize(res.Name), "List "+res.Name, res,
			response(http.StatusOK, "The "+res.Name, name+"ListDocument"))
	}
	if res.SupportsCreate {
		op := operation("create"+name, "Create a "+singularize(res.Name), res,
			response(http.StatusCreated, "Created, or the record already holding the name (meta.existing)", name+"Document"),
			response(http.StatusUnprocessableEntity, "Validation failed", "Error"))
		op.RequestBody = requestBody(name + "Document")
		collection.Post = op
	}
	spec.Paths.Set(base, collection)

	member := &openapi3.PathItem{
		Parameters: openapi3.Parameters{
			&openapi3.ParameterRef{Value: openapi3.NewPathParameter("id").WithSchema(openapi3.NewStringSchema())},
		},
	}
	if res.SupportsFind {
		member.Get = operation("get"+name, "Get a "+singularize(res.Name), res,
			response(http.StatusOK, "The "+singularize(res.Name), name+"Document"),
			response(http.StatusNotFound, "Not found", "Error"))
	}
	if res.SupportsUpdate {
		op := operation("update"+name, "Update a "+singularize(res.Name), res,
			response(http.StatusOK, "Updated", name+"Document"),
			response(http.StatusNotFound, "Not found", "Error"),
			response(http.StatusUnprocessableEntity, "Validation failed, name taken or read-only attribute changed", "Error"))
		op.RequestBody = requestBody(name + "Document")
		member.Patch = op
	}
	if res.SupportsDelete {
		member.Delete = operation("delete"+name, "Delete a "+singularize(res.Name), res,
			&respEntry{status: http.StatusNoContent, value: openapi3.NewResponse().WithDescription("Deleted")},
			response(http.StatusConflict, "Still referenced", "Error"))
	}
	spec.Paths.Set(base+"/{id}", member)
}

// extractSchema builds the attributes schema of a model struct. Fields
// tagged json:"-" are skipped; validate tags become constraints.
func extractSchema(model any) *openapi3.SchemaRef {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	schema := openapi3.NewObjectSchema()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := field.Name
		if parts := strings.Split(jsonTag, ","); parts[0] != "" {
			name = parts[0]
		}

		prop := goTypeToSchema(field.Type)
		if prop == nil {
			continue
		}
		if applyConstraints(prop, field.Tag.Get("validate")) {
			prop.Nullable = false
			schema.Required = append(schema.Required, name)
		}
		schema.Properties[name] = prop.NewRef()
	}
	return schema.NewRef()
}

func goTypeToSchema(t reflect.Type) *openapi3.Schema {
	switch t.Kind() {
	case reflect.String:
		return openapi3.NewStringSchema()
	case reflect.Int, reflect.Int32:
		return openapi3.NewInt32Schema()
	case reflect.Int64:
		return openapi3.NewInt64Schema()
	case reflect.Bool:
		return openapi3.NewBoolSchema()
	case reflect.Float64:
		return openapi3.NewFloat64Schema()
	case reflect.Ptr:
		s := goTypeToSchema(t.Elem())
		if s != nil {
			s.Nullable = true
		}
		return s
	}
	return nil
}

// applyConstraints copies validator rules onto s and reports whether the
// field is required.
func applyConstraints(s *openapi3.Schema, tag string) (required bool) {
	if tag == "" {
		return false
	}
	for _, rule := range strings.Split(tag, ",") {
		key, arg, _ := strings.Cut(rule, "=")
		n, err := strconv.ParseInt(arg, 10, 64)
		switch {
		case key == "required":
			required = true
		case err != nil:
		case key == "min" && s.Type.Is(openapi3.TypeString):
			s.MinLength = uint64(n)
		case key == "max" && s.Type.Is(openapi3.TypeString):
			maxLen := uint64(n)
			s.MaxLength = &maxLen
		case key == "min" || key == "gte":
			s.WithMin(float64(n))
		case key == "max" || key == "lte":
			s.WithMax(float64(n))
		}
	}
	return required
}

// =============================================================================
// Operations
// =============================================================================

type respEntry struct {
	status int
	value  *openapi3.Response
}

func response(status int, description, schema string) *respEntry {
	content := openapi3.NewContentWithSchemaRef(ref(schema), []string{mediaType})
	return &respEntry{
		status: status,
		value:  openapi3.NewResponse().WithDescription(description).WithContent(content),
	}
}

func operation(id, summary string, res ResourceInfo, entries ...*respEntry) *openapi3.Operation {
	responses := &openapi3.Responses{}
	for _, e := range entries {
		responses.Set(strconv.Itoa(e.status), &openapi3.ResponseRef{Value: e.value})
	}
	return &openapi3.Operation{
		OperationID: id,
		Summary:     summary,
		Tags:        []string{capitalize(res.Name)},
		Responses:   responses,
	}
}

func requestBody(schema string) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.NewContentWithSchemaRef(ref(schema), []string{mediaType})),
	}
}

func ref(schema string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+schema, nil)
}

// =============================================================================
// Helpers
// =============================================================================

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// singularize handles the regular English plurals used by resource names.
func singularize(s string) string {
	switch {
	case strings.HasSuffix(s, "ies"):
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(s, "s"):
		return s[:len(s)-1]
	}
	return s
}
