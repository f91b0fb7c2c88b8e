package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"proximart/webclient/internal/model"
	"proximart/webclient/internal/service"
	"proximart/webclient/internal/session"
	"proximart/webclient/internal/view"
)

func (h *Handler) SuppliersPage(w http.ResponseWriter, r *http.Request) {
	page := h.suppliers.List(r.Context(), supplierFilter(r))
	h.render(w, r, http.StatusOK, "pages/suppliers.html", "Suppliers", page)
}

// SupplierPage opens the detail page with a fresh draft.
func (h *Handler) SupplierPage(w http.ResponseWriter, r *http.Request) {
	page := h.suppliers.Open(r.Context(), session.ID(r.Context()), chi.URLParam(r, "id"))
	h.renderSupplier(w, r, page)
}

func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	edits, ok := h.draftEdits(w, r)
	if !ok {
		return
	}
	page := h.suppliers.UpdateDraft(r.Context(), session.ID(r.Context()), chi.URLParam(r, "id"), edits)
	h.renderSupplier(w, r, page)
}

// PlaceOrder applies the submitted quantities and places the draft. A placed
// order redirects to the order history so a reload cannot submit it twice.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	edits, ok := h.draftEdits(w, r)
	if !ok {
		return
	}
	page := h.suppliers.Submit(r.Context(), session.ID(r.Context()), chi.URLParam(r, "id"), edits)
	if page.Placed != nil {
		http.Redirect(w, r, "/orders?placed=1", http.StatusSeeOther)
		return
	}
	h.renderSupplier(w, r, page)
}

func (h *Handler) OrdersPage(w http.ResponseWriter, r *http.Request) {
	page := h.orders.History(r.Context())
	if r.URL.Query().Get("placed") != "" {
		page.Notices = append([]service.Notice{{Kind: service.NoticeSuccess, Message: service.OrderPlacedMessage}}, page.Notices...)
	}
	h.render(w, r, http.StatusOK, "pages/orders.html", "Orders", page)
}

func (h *Handler) InventoryPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "pages/inventory.html", "Inventory", h.inventory.Overview(r.Context()))
}

func (h *Handler) HelpPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "pages/help.html", "Help", h.help.FAQs(r.Context()))
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/v1/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	h.render(w, r, http.StatusNotFound, "pages/not_found.html", "Not found", nil)
}

func (h *Handler) renderSupplier(w http.ResponseWriter, r *http.Request, page *service.SupplierDetailPage) {
	status, title := http.StatusOK, "Supplier"
	if page.Supplier.State == service.StateNotFound {
		status, title = http.StatusNotFound, "Supplier not found"
	} else if page.Supplier.Data != nil {
		title = page.Supplier.Data.Name
	}
	h.render(w, r, status, "pages/supplier.html", title, page)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, page any) {
	data := view.TemplateData{Title: title, CurrentPath: r.URL.Path, Page: page}
	if id := session.ID(r.Context()); id != "" {
		data.CSRFToken = h.csrf.Token(id)
	}
	if err := h.views.Render(w, status, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page", slog.String("template", name), slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) draftEdits(w http.ResponseWriter, r *http.Request) ([]model.DraftEdit, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return nil, false
	}
	return parseDraftEdits(r.PostForm["item"], r.PostForm["quantity"]), true
}

// parseDraftEdits pairs item names with quantity inputs by position. A
// missing or non-numeric quantity counts as zero.
func parseDraftEdits(items, quantities []string) []model.DraftEdit {
	edits := make([]model.DraftEdit, 0, len(items))
	for i, name := range items {
		if name == "" {
			continue
		}
		var raw string
		if i < len(quantities) {
			raw = quantities[i]
		}
		edits = append(edits, model.DraftEdit{Item: name, Quantity: parseQuantity(raw)})
	}
	return edits
}

// parseQuantity reads the leading integer of s, so "3.7" is 3 and "12kg" is 12.
// Values outside the 32-bit range saturate at its bounds.
func parseQuantity(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return int(n)
}

func supplierFilter(r *http.Request) service.SupplierFilter {
	q := r.URL.Query()
	filter := service.SupplierFilter{Search: strings.TrimSpace(q.Get("search"))}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		filter.Page = page
	}
	for _, item := range strings.Split(q.Get("items"), ",") {
		if item = strings.TrimSpace(item); item != "" {
			filter.Items = append(filter.Items, item)
		}
	}
	if rating, err := strconv.ParseFloat(q.Get("min_rating"), 64); err == nil && rating > 0 {
		filter.MinRating = rating
	}
	if strings.EqualFold(q.Get("sort_by"), service.SortByRating) {
		filter.SortBy = service.SortByRating
	}
	filter.Lat = parseCoordinate(q.Get("lat"))
	filter.Lon = parseCoordinate(q.Get("lon"))
	return filter
}

func parseCoordinate(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}
