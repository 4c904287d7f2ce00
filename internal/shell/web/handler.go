// Package web serves the server-rendered inventory pages.
package web

import (
	"log/slog"
	"net/http"

	"github.com/artpar/inventory/internal/shell/inventory"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// =============================================================================
// Handler
// =============================================================================

// Handler renders the HTML pages and runs form submissions through the
// inventory workflows.
type Handler struct {
	svc    *inventory.Service
	views  *views
	logger *slog.Logger
}

// NewHandler creates a handler over svc with the embedded templates.
func NewHandler(svc *inventory.Service, l *slog.Logger) (*Handler, error) {
	if l == nil {
		l = slog.Default()
	}
	v, err := loadViews(templateFS)
	if err != nil {
		return nil, err
	}
	return &Handler{svc: svc, views: v, logger: l}, nil
}

// Routes returns the router with all pages configured. Literal segments
// such as "create" take precedence over {id}.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.requestIDHeader)

	r.Get("/", h.handleIndex)
	r.Get("/items", h.handleListItems)
	r.Get("/categories", h.handleListCategories)

	r.Route("/category", func(r chi.Router) {
		r.Get("/create", h.handleCategoryCreateForm)
		r.Post("/create", h.handleCreateCategory)
		r.Get("/{id}", h.handleGetCategory)
		r.Get("/{id}/delete", h.handleCategoryDeleteForm)
		r.Post("/{id}/delete", h.handleDeleteCategory)
		r.Get("/{id}/update", h.handleCategoryUpdateForm)
		r.Post("/{id}/update", h.handleUpdateCategory)
	})

	r.Route("/item", func(r chi.Router) {
		r.Get("/create", h.handleItemCreateForm)
		r.Post("/create", h.handleCreateItem)
		r.Get("/{id}", h.handleGetItem)
		r.Get("/{id}/delete", h.handleItemDeleteForm)
		r.Post("/{id}/delete", h.handleDeleteItem)
		r.Get("/{id}/update", h.handleUpdateItem)
		r.Post("/{id}/update", h.handleUpdateItem)
	})

	r.NotFound(h.handleNotFound)

	return r
}

// requestIDHeader copies the request ID to the response header.
func (h *Handler) requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Home
// =============================================================================

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context())
	if err != nil {
		h.serverError(w, r, "failed to count records", err)
		return
	}
	h.render(w, r, http.StatusOK, "index.html", "Inventory", indexView{Summary: sum})
}

// =============================================================================
// Helpers
// =============================================================================

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	if err := h.views.render(w, status, name, title, data); err != nil {
		h.logger.Error("failed to render page", "view", name, "error", err, "request_id", middleware.GetReqID(r.Context()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "message.html", "Not Found", messageView{
		Message: "The page or record you asked for does not exist.",
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("malformed form", "path", r.URL.Path, "error", err)
	h.render(w, r, http.StatusBadRequest, "message.html", "Bad Request", messageView{
		Message: "The submitted form could not be read.",
	})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg, "error", err, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
	h.render(w, r, http.StatusInternalServerError, "message.html", "Error", messageView{
		Message: "Something went wrong. Please try again later.",
	})
}
