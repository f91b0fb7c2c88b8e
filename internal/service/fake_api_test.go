package service_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"proximart/webclient/internal/model"
	"proximart/webclient/internal/service/proximart"
)

// fakeAPI answers from canned values and records what it was asked.
type fakeAPI struct {
	mu sync.Mutex

	suppliers     []model.Supplier
	suppliersErr  error
	pageResp      *proximart.SuppliersResponse
	pageQueries   []proximart.SupplierQuery
	nearbyCalls   int
	nearbyQueries []proximart.SupplierQuery
	supplierErr   error
	historyJSON   string
	historyErr    error
	inventoryJSON string
	inventoryErr  error
	faqs          *proximart.FAQResponse
	faqsErr       error
	placeResp     *model.PlaceOrderResponse
	placeErr      error
	placed        []model.PlaceOrderRequest
	vendorIDs     []string
}

func (f *fakeAPI) ListSuppliersPage(ctx context.Context, q proximart.SupplierQuery) (*proximart.SuppliersResponse, error) {
	f.mu.Lock()
	f.pageQueries = append(f.pageQueries, q)
	f.mu.Unlock()
	if f.suppliersErr != nil {
		return nil, f.suppliersErr
	}
	if f.pageResp == nil {
		return &proximart.SuppliersResponse{Suppliers: f.suppliers, Page: 1, TotalPages: 1}, nil
	}
	return f.pageResp, nil
}

func (f *fakeAPI) NearbySuppliers(ctx context.Context, lat, lon float64, q proximart.SupplierQuery) (*proximart.SuppliersResponse, error) {
	f.mu.Lock()
	f.nearbyCalls++
	f.nearbyQueries = append(f.nearbyQueries, q)
	f.mu.Unlock()
	if f.suppliersErr != nil {
		return nil, f.suppliersErr
	}
	return f.pageResp, nil
}

func (f *fakeAPI) GetSupplier(ctx context.Context, id string) (*model.Supplier, error) {
	if f.supplierErr != nil {
		return nil, f.supplierErr
	}
	for i := range f.suppliers {
		if f.suppliers[i].ID == id {
			s := f.suppliers[i]
			return &s, nil
		}
	}
	return nil, proximart.ErrSupplierNotFound
}

func (f *fakeAPI) OrderHistory(ctx context.Context, vendorID string) (*proximart.OrderHistoryResponse, error) {
	f.recordVendor(vendorID)
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	resp := &proximart.OrderHistoryResponse{}
	if err := json.Unmarshal([]byte(f.historyJSON), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (f *fakeAPI) Inventory(ctx context.Context, vendorID string) (*proximart.InventoryResponse, error) {
	f.recordVendor(vendorID)
	if f.inventoryErr != nil {
		return nil, f.inventoryErr
	}
	resp := &proximart.InventoryResponse{}
	if err := json.Unmarshal([]byte(f.inventoryJSON), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (f *fakeAPI) FAQs(ctx context.Context) (*proximart.FAQResponse, error) {
	if f.faqsErr != nil {
		return nil, f.faqsErr
	}
	return f.faqs, nil
}

func (f *fakeAPI) PlaceOrder(ctx context.Context, order model.PlaceOrderRequest) (*model.PlaceOrderResponse, error) {
	f.mu.Lock()
	f.placed = append(f.placed, order)
	f.mu.Unlock()
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	return f.placeResp, nil
}

func (f *fakeAPI) recordVendor(id string) {
	f.mu.Lock()
	f.vendorIDs = append(f.vendorIDs, id)
	f.mu.Unlock()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
