package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/artpar/inventory/internal/core/domain"
	core "github.com/artpar/inventory/internal/core/inventory"
	"github.com/artpar/inventory/internal/core/validation"
	"github.com/artpar/inventory/internal/shell/inventory"
)

//go:embed templates/*.html
var templateFS embed.FS

// =============================================================================
// Views
// =============================================================================

// page is the payload every template receives. Data holds the view model
// of the page being rendered.
type page struct {
	Title string
	Data  any
}

type indexView struct {
	Summary inventory.Summary
}

type categoryListView struct {
	Categories []domain.Category
}

type categoryDetailView struct {
	Category domain.Category
	Items    []domain.Item
}

type categoryFormView struct {
	Action   string
	Update   bool
	Category domain.Category
	Errors   validation.Errors
	NameMin  int
	NameMax  int
}

type categoryDeleteView struct {
	Category domain.Category
	Items    []domain.Item
}

type itemListView struct {
	Items []core.ItemListing
}

type itemDetailView struct {
	Item     domain.Item
	Category *domain.Category
}

type itemFormView struct {
	Name         string
	PriceInCents string
	Quantity     string
	Options      []core.CategoryOption
	Errors       validation.Errors
}

type itemDeleteView struct {
	Item domain.Item
}

type messageView struct {
	Message string
}

// =============================================================================
// Template Set
// =============================================================================

// views holds one parsed template per page, each combined with the layout.
type views struct {
	pages map[string]*template.Template
}

// loadViews parses every page template in fsys together with layout.html.
func loadViews(fsys fs.FS) (*views, error) {
	names, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}

	v := &views{pages: make(map[string]*template.Template)}
	for _, name := range names {
		if name == "templates/layout.html" {
			continue
		}
		t, err := template.New("layout.html").ParseFS(fsys, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		v.pages[name[len("templates/"):]] = t
	}
	return v, nil
}

// render executes the named page into a buffer so a template failure can
// still produce a clean error response.
func (v *views) render(w http.ResponseWriter, status int, name, title string, data any) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, page{Title: title, Data: data}); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
