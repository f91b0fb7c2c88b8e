package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"proximart/webclient/internal/service"
	"proximart/webclient/internal/session"
)

// The /v1 endpoints return the same view-models the HTML pages render.

func (h *Handler) GetSuppliers(w http.ResponseWriter, r *http.Request) {
	page := h.suppliers.List(r.Context(), supplierFilter(r))
	writeJSON(w, sectionStatus(page.Suppliers.State), page)
}

// GetSupplier reports the supplier and the session's current draft without
// resetting it.
func (h *Handler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	page := h.suppliers.UpdateDraft(r.Context(), session.ID(r.Context()), chi.URLParam(r, "id"), nil)
	writeJSON(w, sectionStatus(page.Supplier.State), page)
}

func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	page := h.orders.History(r.Context())
	writeJSON(w, sectionStatus(page.Orders.State), page)
}

// GetInventory answers 200 while either section loaded.
func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	page := h.inventory.Overview(r.Context())
	status := http.StatusOK
	if !page.Inventory.Loaded() && !page.RecentOrders.Loaded() {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, page)
}

func (h *Handler) GetFAQs(w http.ResponseWriter, r *http.Request) {
	page := h.help.FAQs(r.Context())
	writeJSON(w, sectionStatus(page.FAQs.State), page)
}

func sectionStatus(state service.State) int {
	switch state {
	case service.StateNotFound:
		return http.StatusNotFound
	case service.StateFailed:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
