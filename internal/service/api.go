package service

import (
	"context"

	"proximart/webclient/internal/model"
	"proximart/webclient/internal/service/proximart"
)

// API is the slice of the ProxiMart transport adapter the pages use.
type API interface {
	ListSuppliersPage(ctx context.Context, q proximart.SupplierQuery) (*proximart.SuppliersResponse, error)
	NearbySuppliers(ctx context.Context, lat, lon float64, q proximart.SupplierQuery) (*proximart.SuppliersResponse, error)
	GetSupplier(ctx context.Context, id string) (*model.Supplier, error)
	OrderHistory(ctx context.Context, vendorID string) (*proximart.OrderHistoryResponse, error)
	Inventory(ctx context.Context, vendorID string) (*proximart.InventoryResponse, error)
	FAQs(ctx context.Context) (*proximart.FAQResponse, error)
	PlaceOrder(ctx context.Context, order model.PlaceOrderRequest) (*model.PlaceOrderResponse, error)
}

// DraftStore keeps draft order selections between requests.
type DraftStore interface {
	// SetQuantities applies edits in order; a later edit of an item replaces
	// the earlier one.
	SetQuantities(ctx context.Context, key model.DraftKey, edits []model.DraftEdit) error
	Load(ctx context.Context, key model.DraftKey) (model.DraftSelection, error)
	Clear(ctx context.Context, key model.DraftKey) error
}
