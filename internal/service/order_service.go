package service

import (
	"context"
	"log/slog"

	"proximart/webclient/internal/model"
)

type OrdersPage struct {
	Orders  Section[[]model.Order] `json:"orders"`
	Notices []Notice               `json:"notices"`
}

type OrderService struct {
	api    API
	vendor Vendor
	logger *slog.Logger
}

func NewOrderService(api API, vendor Vendor, logger *slog.Logger) *OrderService {
	return &OrderService{api: api, vendor: vendor, logger: logger}
}

// History loads the vendor's orders in server order.
func (s *OrderService) History(ctx context.Context) *OrdersPage {
	page := &OrdersPage{Notices: []Notice{}}

	var notice *Notice
	page.Orders, notice = load(ctx, s.logger, "orders", s.fetchOrders)
	page.Notices = appendNotice(page.Notices, notice)
	return page
}

func (s *OrderService) fetchOrders(ctx context.Context) ([]model.Order, error) {
	resp, err := s.api.OrderHistory(ctx, s.vendor.ID)
	if err != nil {
		return nil, err
	}
	return resp.Orders(), nil
}
