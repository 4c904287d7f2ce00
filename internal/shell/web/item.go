package web

import (
	"net/http"

	core "github.com/artpar/inventory/internal/core/inventory"
	"github.com/artpar/inventory/internal/core/validation"
	"github.com/artpar/inventory/internal/shell/store"
	"github.com/go-chi/chi/v5"
)

// =============================================================================
// Item Pages
// =============================================================================

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListItems(r.Context())
	if err != nil {
		h.serverError(w, r, "failed to list items", err)
		return
	}
	h.render(w, r, http.StatusOK, "item_list.html", "Item List", itemListView{Items: items})
}

func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.ItemDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if store.IsNotFound(err) {
			h.handleNotFound(w, r)
			return
		}
		h.serverError(w, r, "failed to get item", err)
		return
	}
	h.render(w, r, http.StatusOK, "item_detail.html", "Item: "+detail.Item.Name, itemDetailView{
		Item:     detail.Item,
		Category: detail.Category,
	})
}

// =============================================================================
// Item Create
// =============================================================================

func (h *Handler) handleItemCreateForm(w http.ResponseWriter, r *http.Request) {
	options, err := h.svc.CategoryOptions(r.Context())
	if err != nil {
		h.serverError(w, r, "failed to list categories", err)
		return
	}
	h.render(w, r, http.StatusOK, "item_form.html", "Create Item", itemFormView{Options: options})
}

func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.badRequest(w, r, err)
		return
	}

	form := validation.ItemForm{
		Name:         r.PostForm.Get("name"),
		Category:     r.PostForm["category"],
		PriceInCents: r.PostForm.Get("priceInCents"),
		Quantity:     r.PostForm.Get("quantity"),
	}
	res, err := h.svc.CreateItem(r.Context(), form)
	if err != nil {
		h.serverError(w, r, "failed to create item", err)
		return
	}

	if res.Outcome == core.OutcomeCreated {
		h.redirect(w, r, res.Item.URL())
		return
	}
	h.render(w, r, http.StatusUnprocessableEntity, "item_form.html", "Create Item", itemFormView{
		Name:         res.Item.Name,
		PriceInCents: validation.SanitizeLine(form.PriceInCents),
		Quantity:     validation.SanitizeLine(form.Quantity),
		Options:      res.Options,
		Errors:       res.Errors,
	})
}

// =============================================================================
// Item Delete / Update
// =============================================================================

func (h *Handler) handleItemDeleteForm(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.ItemDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if store.IsNotFound(err) {
			h.handleNotFound(w, r)
			return
		}
		h.serverError(w, r, "failed to get item", err)
		return
	}
	h.render(w, r, http.StatusOK, "item_delete.html", "Delete Item", itemDeleteView{Item: detail.Item})
}

func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.serverError(w, r, "failed to delete item", err)
		return
	}
	h.redirect(w, r, "/items")
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.UpdateItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.serverError(w, r, "failed to update item", err)
		return
	}
	h.render(w, r, http.StatusNotImplemented, "message.html", "Update Item", messageView{
		Message: "Updating items is not supported.",
	})
}
