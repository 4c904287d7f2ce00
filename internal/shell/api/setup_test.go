package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/artpar/inventory/internal/core/domain"
	"github.com/artpar/inventory/internal/core/validation"
	"github.com/artpar/inventory/internal/shell/inventory"
	"github.com/artpar/inventory/internal/shell/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

type testServer struct {
	store   store.Store
	handler http.Handler
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := SetupAPI(APIConfig{
		Service:        inventory.NewService(s, validation.New(), logger),
		Store:          s,
		Logger:         logger,
		MetricsEnabled: true,
	})
	require.NoError(t, err)

	return &testServer{store: s, handler: h}
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/vnd.api+json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc), rec.Body.String())
	return doc
}

func errorTitles(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	doc := decode(t, rec)
	raw, ok := doc["errors"].([]interface{})
	require.True(t, ok, rec.Body.String())

	titles := make([]string, 0, len(raw))
	for _, e := range raw {
		titles = append(titles, e.(map[string]interface{})["title"].(string))
	}
	return titles
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

// =============================================================================
// Operational Endpoint Tests
// =============================================================================

func TestHealth(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestReady(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodGet, "/ready", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode(t, rec)["status"])
}

func TestReadyStoreDown(t *testing.T) {
	rec := httptest.NewRecorder()
	readyHandler(failingPinger{})(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", decode(t, rec)["status"])
}

func TestMetricsRecordsRoutePatterns(t *testing.T) {
	ts := setupTestServer(t)

	ts.do(http.MethodGet, "/category/missing", "")
	rec := ts.do(http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `inventory_http_requests_total{method="GET",route="/category/{id}",status="404"}`)
}

func TestOpenAPIDocument(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodGet, "/openapi.json", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	doc := decode(t, rec)
	paths := doc["paths"].(map[string]interface{})
	assert.Contains(t, paths, "/api/v1/categories")
	assert.Contains(t, paths, "/api/v1/items/{id}")
}

func TestHTMLPagesServedByCatchAll(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodGet, "/categories", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

// =============================================================================
// JSON:API Category Tests
// =============================================================================

const hatBody = `{"data":{"type":"categories","attributes":{"name":"Hat","description":"Headwear"}}}`

func TestCategoryCreateAndFetch(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodPost, "/api/v1/categories", hatBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decode(t, rec)["data"].(map[string]interface{})
	id := data["id"].(string)
	assert.Equal(t, "categories", data["type"])
	assert.Equal(t, "Hat", data["attributes"].(map[string]interface{})["name"])

	rec = ts.do(http.MethodGet, "/api/v1/categories/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/categories", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)
}

func TestCategoryCreateDuplicateReturnsExisting(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodPost, "/api/v1/categories", hatBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	doc := decode(t, rec)
	first := doc["data"].(map[string]interface{})["id"]
	assert.Equal(t, false, doc["meta"].(map[string]interface{})["existing"])

	rec = ts.do(http.MethodPost, "/api/v1/categories",
		`{"data":{"type":"categories","attributes":{"name":"HAT","description":"Other"}}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	doc = decode(t, rec)
	assert.Equal(t, first, doc["data"].(map[string]interface{})["id"])
	assert.Equal(t, "Hat", doc["data"].(map[string]interface{})["attributes"].(map[string]interface{})["name"])
	assert.Equal(t, true, doc["meta"].(map[string]interface{})["existing"])

	n, err := ts.store.CountCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCategoryCreateInvalidReportsAllErrors(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodPost, "/api/v1/categories",
		`{"data":{"type":"categories","attributes":{"name":"ab","description":""}}}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{
		"Category name must contain at least 3 characters",
		"Description must not be empty.",
	}, errorTitles(t, rec))
}

func TestCategoryRenameConflict(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	hat := &domain.Category{Name: "Hat", Description: "a"}
	hoodie := &domain.Category{Name: "Hoodie", Description: "b"}
	require.NoError(t, ts.store.CreateCategory(ctx, hat))
	require.NoError(t, ts.store.CreateCategory(ctx, hoodie))

	rec := ts.do(http.MethodPatch, "/api/v1/categories/"+hoodie.ID,
		`{"data":{"type":"categories","id":"`+hoodie.ID+`","attributes":{"name":"hat"}}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"Category already exists."}, errorTitles(t, rec))

	rec = ts.do(http.MethodPatch, "/api/v1/categories/"+hoodie.ID,
		`{"data":{"type":"categories","id":"`+hoodie.ID+`","attributes":{"name":"Sweaters"}}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := ts.store.GetCategory(ctx, hoodie.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sweaters", got.Name)
}

func TestCategoryUpdateRejectsDescriptionChange(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	hat := &domain.Category{Name: "Hat", Description: "Headwear"}
	require.NoError(t, ts.store.CreateCategory(ctx, hat))

	rec := ts.do(http.MethodPatch, "/api/v1/categories/"+hat.ID,
		`{"data":{"type":"categories","id":"`+hat.ID+`","attributes":{"description":"Caps"}}}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	errs := decode(t, rec)["errors"].([]interface{})
	require.Len(t, errs, 1)
	e := errs[0].(map[string]interface{})
	assert.Equal(t, "Description cannot be changed.", e["title"])
	assert.Equal(t, "/data/attributes/description", e["source"].(map[string]interface{})["pointer"])

	got, err := ts.store.GetCategory(ctx, hat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Headwear", got.Description)
}

func TestCategoryNotFound(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodGet, "/api/v1/categories/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryDeleteBlocked(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	hat := &domain.Category{Name: "Hat", Description: "a"}
	require.NoError(t, ts.store.CreateCategory(ctx, hat))
	require.NoError(t, ts.store.CreateItem(ctx, &domain.Item{Name: "Cap", CategoryID: hat.ID, PriceInCents: 500}))

	rec := ts.do(http.MethodDelete, "/api/v1/categories/"+hat.ID, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	_, err := ts.store.GetCategory(ctx, hat.ID)
	assert.NoError(t, err)
}

func TestCategoryDelete(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	hat := &domain.Category{Name: "Hat", Description: "a"}
	require.NoError(t, ts.store.CreateCategory(ctx, hat))

	rec := ts.do(http.MethodDelete, "/api/v1/categories/"+hat.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := ts.store.GetCategory(ctx, hat.ID)
	assert.True(t, store.IsNotFound(err))
}

// =============================================================================
// JSON:API Item Tests
// =============================================================================

func itemBody(categoryID string, price int) string {
	return fmt.Sprintf(`{"data":{"type":"items","attributes":{"name":"Cap","price_in_cents":%d,"quantity":10},`+
		`"relationships":{"category":{"data":{"type":"categories","id":%q}}}}}`, price, categoryID)
}

func TestItemCreate(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	hat := &domain.Category{Name: "Hat", Description: "a"}
	require.NoError(t, ts.store.CreateCategory(ctx, hat))

	rec := ts.do(http.MethodPost, "/api/v1/items", itemBody(hat.ID, 500))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decode(t, rec)["data"].(map[string]interface{})
	attrs := data["attributes"].(map[string]interface{})
	assert.Equal(t, "$5.00", attrs["price"])

	rel := data["relationships"].(map[string]interface{})["category"].(map[string]interface{})
	assert.Equal(t, hat.ID, rel["data"].(map[string]interface{})["id"])
}

func TestItemCreateInvalid(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	hat := &domain.Category{Name: "Hat", Description: "a"}
	require.NoError(t, ts.store.CreateCategory(ctx, hat))

	rec := ts.do(http.MethodPost, "/api/v1/items", itemBody(hat.ID, 0))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"Price must be at least 1 cent."}, errorTitles(t, rec))
}

func TestItemCreateMissingNumbers(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	hat := &domain.Category{Name: "Hat", Description: "a"}
	require.NoError(t, ts.store.CreateCategory(ctx, hat))

	rec := ts.do(http.MethodPost, "/api/v1/items",
		`{"data":{"type":"items","attributes":{"name":"Cap","price_in_cents":500},`+
			`"relationships":{"category":{"data":{"type":"categories","id":"`+hat.ID+`"}}}}}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"Quantity is required."}, errorTitles(t, rec))

	n, err := ts.store.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestItemUpdateNotImplemented(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	hat := &domain.Category{Name: "Hat", Description: "a"}
	require.NoError(t, ts.store.CreateCategory(ctx, hat))
	item := &domain.Item{Name: "Cap", CategoryID: hat.ID, PriceInCents: 500}
	require.NoError(t, ts.store.CreateItem(ctx, item))

	rec := ts.do(http.MethodPatch, "/api/v1/items/"+item.ID,
		`{"data":{"type":"items","id":"`+item.ID+`","attributes":{"name":"Beanie"}}}`)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	got, err := ts.store.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cap", got.Name)
}

func TestItemDelete(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	hat := &domain.Category{Name: "Hat", Description: "a"}
	require.NoError(t, ts.store.CreateCategory(ctx, hat))
	item := &domain.Item{Name: "Cap", CategoryID: hat.ID, PriceInCents: 500}
	require.NoError(t, ts.store.CreateItem(ctx, item))

	rec := ts.do(http.MethodDelete, "/api/v1/items/"+item.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/items/"+item.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
