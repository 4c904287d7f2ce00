package web

import (
	"net/http"

	"github.com/artpar/inventory/internal/core/domain"
	core "github.com/artpar/inventory/internal/core/inventory"
	"github.com/artpar/inventory/internal/core/validation"
	"github.com/artpar/inventory/internal/shell/store"
	"github.com/go-chi/chi/v5"
)

// =============================================================================
// Category Pages
// =============================================================================

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		h.serverError(w, r, "failed to list categories", err)
		return
	}
	h.render(w, r, http.StatusOK, "category_list.html", "Category List", categoryListView{Categories: categories})
}

func (h *Handler) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.CategoryDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if store.IsNotFound(err) {
			h.handleNotFound(w, r)
			return
		}
		h.serverError(w, r, "failed to get category", err)
		return
	}
	h.render(w, r, http.StatusOK, "category_detail.html", "Category: "+detail.Category.Name, categoryDetailView{
		Category: detail.Category,
		Items:    detail.Items,
	})
}

// =============================================================================
// Category Create / Update
// =============================================================================

func (h *Handler) handleCategoryCreateForm(w http.ResponseWriter, r *http.Request) {
	h.renderCategoryForm(w, r, http.StatusOK, false, domain.Category{}, nil)
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.badRequest(w, r, err)
		return
	}

	res, err := h.svc.CreateCategory(r.Context(), validation.CategoryForm{
		Name:        r.PostForm.Get("name"),
		Description: r.PostForm.Get("description"),
	})
	if err != nil {
		h.serverError(w, r, "failed to create category", err)
		return
	}

	switch res.Outcome {
	case core.OutcomeCreated, core.OutcomeExisting:
		h.redirect(w, r, res.Category.URL())
	default:
		h.renderCategoryForm(w, r, http.StatusUnprocessableEntity, false, res.Category, res.Errors)
	}
}

func (h *Handler) handleCategoryUpdateForm(w http.ResponseWriter, r *http.Request) {
	category, err := h.svc.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if store.IsNotFound(err) {
			h.handleNotFound(w, r)
			return
		}
		h.serverError(w, r, "failed to get category", err)
		return
	}
	h.renderCategoryForm(w, r, http.StatusOK, true, *category, nil)
}

func (h *Handler) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.badRequest(w, r, err)
		return
	}

	res, err := h.svc.UpdateCategory(r.Context(), chi.URLParam(r, "id"), validation.CategoryNameForm{
		Name: r.PostForm.Get("name"),
	})
	if err != nil {
		h.serverError(w, r, "failed to update category", err)
		return
	}

	switch res.Outcome {
	case core.OutcomeUpdated:
		h.redirect(w, r, res.Category.URL())
	case core.OutcomeNotFound:
		h.handleNotFound(w, r)
	default:
		h.renderCategoryForm(w, r, http.StatusUnprocessableEntity, true, res.Category, res.Errors)
	}
}

func (h *Handler) renderCategoryForm(w http.ResponseWriter, r *http.Request, status int, update bool, c domain.Category, errs validation.Errors) {
	view := categoryFormView{
		Action:   "/category/create",
		Update:   update,
		Category: c,
		Errors:   errs,
		NameMin:  validation.CategoryNameMin,
		NameMax:  validation.CategoryNameMax,
	}
	title := "Create Category"
	if update {
		view.Action = c.URL() + "/update"
		title = "Update Category"
	}
	h.render(w, r, status, "category_form.html", title, view)
}

// =============================================================================
// Category Delete
// =============================================================================

func (h *Handler) handleCategoryDeleteForm(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.CategoryDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if store.IsNotFound(err) {
			h.handleNotFound(w, r)
			return
		}
		h.serverError(w, r, "failed to get category", err)
		return
	}
	h.render(w, r, http.StatusOK, "category_delete.html", "Delete Category", categoryDeleteView{
		Category: detail.Category,
		Items:    detail.Items,
	})
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.svc.DeleteCategory(r.Context(), id)
	if err != nil {
		h.serverError(w, r, "failed to delete category", err)
		return
	}

	if res.Outcome == core.OutcomeBlocked {
		view := categoryDeleteView{Category: domain.Category{ID: id}, Items: res.Items}
		if res.Category != nil {
			view.Category = *res.Category
		}
		h.render(w, r, http.StatusConflict, "category_delete.html", "Delete Category", view)
		return
	}
	h.redirect(w, r, "/categories")
}
