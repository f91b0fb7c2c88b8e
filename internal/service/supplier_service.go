package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"proximart/webclient/internal/model"
	"proximart/webclient/internal/service/proximart"
)

// OrderPlacedMessage confirms a successful submission.
const OrderPlacedMessage = "Order placed successfully."

var (
	// ErrEmptySelection rejects a submission with no positive quantity.
	ErrEmptySelection = errors.New("no item selected")
	// ErrInvalidOrder wraps validation failures of a built order.
	ErrInvalidOrder = errors.New("invalid order")
)

const (
	emptySelectionMessage = "Please select at least one item."
	invalidOrderMessage   = "Order details are incomplete. Please check the selected items."
		orderFailedMessage    = "Order failed. Please try again."
	supplierMissingNotice = "Supplier not found."
	draftSaveMessage      = "Could not save your selection. Please try again."
	draftLoadMessage      = "Could not load your selection."
)

// SupplierFilter narrows the supplier listing. Lat and Lon switch to the
// nearby listing when both are set.
type SupplierFilter struct {
	Search    string   `json:"search,omitempty"`
	Items     []string `json:"items,omitempty"`
	MinRating float64  `json:"min_rating,omitempty"`
	SortBy    string   `json:"sort_by,omitempty"`
	Page      int      `json:"page,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
}

// SortByRating orders the plain listing best rated first. The nearby listing
// is always ordered by distance.
const SortByRating = "rating"

func (f SupplierFilter) Near() bool {
	return f.Lat != nil && f.Lon != nil
}

func (f SupplierFilter) query() proximart.SupplierQuery {
	q := proximart.SupplierQuery{
		Search:    f.Search,
		Items:     f.Items,
		MinRating: f.MinRating,
		Page:      f.Page,
	}
	if !f.Near() {
		q.SortBy = f.SortBy
	}
	return q
}

// ItemsParam joins the item filter the way the listing form submits it.
func (f SupplierFilter) ItemsParam() string {
	return strings.Join(f.Items, ",")
}

// Coordinate formats a filter coordinate for a form field; nil is empty.
func (f SupplierFilter) Coordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// PageURL links to page of the same listing, keeping every filter.
func (f SupplierFilter) PageURL(page int) string {
	v := url.Values{}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if len(f.Items) > 0 {
		v.Set("items", f.ItemsParam())
	}
	if f.MinRating > 0 {
		v.Set("min_rating", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	if f.SortBy != "" {
		v.Set("sort_by", f.SortBy)
	}
	if f.Near() {
		v.Set("lat", f.Coordinate(f.Lat))
		v.Set("lon", f.Coordinate(f.Lon))
	}
	v.Set("page", strconv.Itoa(page))
	return "/suppliers?" + v.Encode()
}

type SuppliersPage struct {
	Suppliers  Section[[]model.Supplier] `json:"suppliers"`
	Filter     SupplierFilter            `json:"filter"`
	Page       int                       `json:"page,omitempty"`
	TotalPages int                       `json:"total_pages,omitempty"`
	Notices    []Notice                  `json:"notices"`
}

type SupplierDetailPage struct {
	SupplierID string                    `json:"supplier_id"`
	Supplier   Section[*model.Supplier]  `json:"supplier"`
	Draft      model.DraftSelection      `json:"draft"`
	Placed     *model.PlaceOrderResponse `json:"placed,omitempty"`
	Notices    []Notice                  `json:"notices"`
}

// CatalogLine pairs a catalog item with the quantity currently picked for it.
type CatalogLine struct {
	Item     model.Item
	Quantity int
	Selected bool
}

// Lines lists the supplier's catalog in order with the draft applied.
func (p *SupplierDetailPage) Lines() []CatalogLine {
	if p.Supplier.Data == nil {
		return nil
	}
	lines := make([]CatalogLine, 0, len(p.Supplier.Data.Items))
	for _, item := range p.Supplier.Data.Items {
		qty, ok := p.Draft[item.Name]
		lines = append(lines, CatalogLine{Item: item, Quantity: qty, Selected: ok})
	}
	return lines
}

type SupplierService struct {
	api      API
	drafts   DraftStore
	vendor   Vendor
	validate *validator.Validate
	logger   *slog.Logger
}

func NewSupplierService(api API, drafts DraftStore, vendor Vendor, logger *slog.Logger) *SupplierService {
	return &SupplierService{
		api:      api,
		drafts:   drafts,
		vendor:   vendor,
		validate: validator.New(),
		logger:   logger,
	}
}

// List loads one page of the supplier listing in server order.
func (s *SupplierService) List(ctx context.Context, filter SupplierFilter) *SuppliersPage {
	page := &SuppliersPage{Filter: filter, Notices: []Notice{}}

	fetch := func(ctx context.Context) ([]model.Supplier, error) {
		var (
			resp *proximart.SuppliersResponse
			err  error
		)
		if filter.Near() {
			resp, err = s.api.NearbySuppliers(ctx, *filter.Lat, *filter.Lon, filter.query())
		} else {
			resp, err = s.api.ListSuppliersPage(ctx, filter.query())
		}
		if err != nil {
			return nil, err
		}
		page.Page, page.TotalPages = resp.Page, resp.TotalPages
		if page.Page <= 0 {
			page.Page = 1
		}
		if resp.Suppliers == nil {
			return []model.Supplier{}, nil
		}
		return resp.Suppliers, nil
	}

	var notice *Notice
	page.Suppliers, notice = load(ctx, s.logger, "suppliers", fetch)
	page.Notices = appendNotice(page.Notices, notice)
	return page
}

// Open activates the detail page: the supplier is looked up and any earlier
// draft for it is discarded.
func (s *SupplierService) Open(ctx context.Context, sessionID, supplierID string) *SupplierDetailPage {
	page := s.detail(ctx, supplierID)
	if err := s.drafts.Clear(ctx, draftKey(sessionID, supplierID)); err != nil {
		s.logger.WarnContext(ctx, "failed to reset draft", slog.String("supplier_id", supplierID), slog.Any("error", err))
	}
	return page
}

// UpdateDraft applies quantity edits to the session's draft and returns the
// page with the resulting selection.
func (s *SupplierService) UpdateDraft(ctx context.Context, sessionID, supplierID string, edits []model.DraftEdit) *SupplierDetailPage {
	page := s.detail(ctx, supplierID)
	if !page.Supplier.Loaded() {
		return page
	}

	key := draftKey(sessionID, supplierID)
	if len(edits) > 0 {
		if err := s.drafts.SetQuantities(ctx, key, edits); err != nil {
			s.logger.ErrorContext(ctx, "failed to save draft", slog.String("supplier_id", supplierID), slog.Any("error", err))
			page.Notices = append(page.Notices, Notice{Kind: NoticeError, Message: draftSaveMessage})
		}
	}

	draft, err := s.drafts.Load(ctx, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load draft", slog.String("supplier_id", supplierID), slog.Any("error", err))
		page.Notices = append(page.Notices, Notice{Kind: NoticeError, Message: draftLoadMessage})
		return page
	}
	page.Draft = draft
	return page
}

// Submit applies the final edits and places the draft as an order. An empty
// selection never reaches the API. A failed order keeps the draft.
func (s *SupplierService) Submit(ctx context.Context, sessionID, supplierID string, edits []model.DraftEdit) *SupplierDetailPage {
	page := s.UpdateDraft(ctx, sessionID, supplierID, edits)
	if !page.Supplier.Loaded() || len(page.Notices) > 0 {
		return page
	}

	order, err := s.BuildOrder(page.Supplier.Data, page.Draft)
	if err != nil {
		msg := invalidOrderMessage
		if errors.Is(err, ErrEmptySelection) {
			msg = emptySelectionMessage
		}
		page.Notices = append(page.Notices, Notice{Kind: NoticeError, Message: msg})
		return page
	}

	resp, err := s.api.PlaceOrder(ctx, order)
	if err != nil {
		s.logger.ErrorContext(ctx, "order failed", slog.String("supplier_id", supplierID), slog.Any("error", err))
		page.Notices = appendNotice(page.Notices, failureNotice(orderFailedMessage, err))
		return page
	}

	if err := s.drafts.Clear(ctx, draftKey(sessionID, supplierID)); err != nil {
		s.logger.WarnContext(ctx, "failed to clear draft", slog.String("supplier_id", supplierID), slog.Any("error", err))
	}
	s.logger.InfoContext(ctx, "order placed",
		slog.String("supplier_id", supplierID),
		slog.String("vendor_id", order.VendorID),
		slog.Int("items", len(order.Items)),
	)

	page.Draft = model.DraftSelection{}
	page.Placed = resp
	page.Notices = append(page.Notices, Notice{Kind: NoticeSuccess, Message: OrderPlacedMessage})
	return page
}

// BuildOrder turns a draft into an order request. Items follow catalog order;
// only catalog items with a positive quantity are included, once per name.
func (s *SupplierService) BuildOrder(supplier *model.Supplier, draft model.DraftSelection) (model.PlaceOrderRequest, error) {
	order := model.PlaceOrderRequest{VendorID: s.vendor.ID}

	seen := make(map[string]bool, len(draft))
	for _, item := range supplier.Items {
		qty := draft[item.Name]
		if qty <= 0 || seen[item.Name] {
			continue
		}
		seen[item.Name] = true
		order.Items = append(order.Items, model.PlaceOrderLine{
			Name:       item.Name,
			Price:      item.Price.Decimal.InexactFloat64(),
			Quantity:   qty,
			SupplierID: supplier.ID,
		})
	}

	if len(order.Items) == 0 {
		return order, ErrEmptySelection
	}
	if err := s.validate.Struct(order); err != nil {
		return order, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	return order, nil
}

func (s *SupplierService) detail(ctx context.Context, supplierID string) *SupplierDetailPage {
	page := &SupplierDetailPage{
		SupplierID: supplierID,
		Supplier:   Section[*model.Supplier]{State: StateLoading},
		Draft:      model.DraftSelection{},
		Notices:    []Notice{},
	}

	supplier, err := s.api.GetSupplier(ctx, supplierID)
	switch {
	case errors.Is(err, proximart.ErrSupplierNotFound):
		page.Supplier.State = StateNotFound
		page.Notices = append(page.Notices, Notice{Kind: NoticeError, Message: supplierMissingNotice})
	case err != nil:
		s.logger.ErrorContext(ctx, "failed to load supplier", slog.String("supplier_id", supplierID), slog.Any("error", err))
		page.Supplier.State = StateFailed
		page.Notices = appendNotice(page.Notices, failureNotice("Failed to load supplier.", err))
	default:
		page.Supplier.State = StateLoaded
		page.Supplier.Data = supplier
	}
	return page
}

func draftKey(sessionID, supplierID string) model.DraftKey {
	return model.DraftKey{SessionID: sessionID, SupplierID: supplierID}
}
