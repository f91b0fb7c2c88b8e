package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"proximart/webclient/internal/model"
)

// InventoryRow is an inventory item with its stock flags resolved.
// RestockAlert uses the item's own threshold; LowStock the fixed one.
type InventoryRow struct {
	Item         model.Item `json:"item"`
	LowStock     bool       `json:"low_stock"`
	RestockAlert bool       `json:"restock_alert"`
}

type InventoryPage struct {
	Inventory    Section[[]InventoryRow] `json:"inventory"`
	RecentOrders Section[[]model.Order]  `json:"recent_orders"`
	Notices      []Notice                `json:"notices"`
}

type InventoryService struct {
	api    API
	vendor Vendor
	logger *slog.Logger
}

func NewInventoryService(api API, vendor Vendor, logger *slog.Logger) *InventoryService {
	return &InventoryService{api: api, vendor: vendor, logger: logger}
}

// Overview fetches inventory and recent orders concurrently. Each section
// succeeds or fails on its own.
func (s *InventoryService) Overview(ctx context.Context) *InventoryPage {
	page := &InventoryPage{Notices: []Notice{}}

	var inventoryNotice, ordersNotice *Notice
	var g errgroup.Group

	g.Go(func() error {
		page.Inventory, inventoryNotice = load(ctx, s.logger, "inventory", s.fetchInventory)
		return nil
	})

	g.Go(func() error {
		page.RecentOrders, ordersNotice = load(ctx, s.logger, "recent orders", s.fetchOrders)
		return nil
	})

	_ = g.Wait()

	page.Notices = appendNotice(page.Notices, inventoryNotice)
	page.Notices = appendNotice(page.Notices, ordersNotice)
	return page
}

func (s *InventoryService) fetchInventory(ctx context.Context) ([]InventoryRow, error) {
	resp, err := s.api.Inventory(ctx, s.vendor.ID)
	if err != nil {
		return nil, err
	}
	items := resp.Items()
	rows := make([]InventoryRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, InventoryRow{Item: item, LowStock: item.LowStock(), RestockAlert: item.AtThreshold()})
	}
	return rows, nil
}

func (s *InventoryService) fetchOrders(ctx context.Context) ([]model.Order, error) {
	resp, err := s.api.OrderHistory(ctx, s.vendor.ID)
	if err != nil {
		return nil, err
	}
	return resp.Orders(), nil
}
