package model

import (
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the quantity below which an inventory item is flagged.
const LowStockThreshold = 10

const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Supplier struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Location   *Location `json:"location,omitempty"`
	Items      []Item    `json:"items"`
	Rating     *float64  `json:"rating,omitempty"`
	DistanceKM *float64  `json:"distance_km,omitempty"`
}

// Item is a catalog, inventory or order entry. Catalog items carry no quantity.
type Item struct {
	Name      string              `json:"name"`
	Price     decimal.NullDecimal `json:"price"`
	Quantity  Quantity            `json:"quantity"`
	Threshold Quantity            `json:"threshold"`
}

// LowStock reports whether the item has a numeric quantity under LowStockThreshold.
// A missing quantity is never low stock.
func (i Item) LowStock() bool {
	return i.Quantity.Valid && i.Quantity.Value < LowStockThreshold
}

// AtThreshold reports whether the quantity has fallen to the item's own
// restock threshold. Items missing either value never alert.
func (i Item) AtThreshold() bool {
	return i.Quantity.Valid && i.Threshold.Valid && i.Quantity.Value <= i.Threshold.Value
}

type OrderLine struct {
	Name       string              `json:"name"`
	Price      decimal.NullDecimal `json:"price"`
	Quantity   Quantity            `json:"quantity"`
	SupplierID string              `json:"supplier_id,omitempty"`
}

type Order struct {
	OrderID    string              `json:"order_id"`
	SupplierID string              `json:"supplier_id"`
	VendorID   string              `json:"vendor_id"`
	Items      []OrderLine         `json:"items"`
	Status     string              `json:"status"`
	Timestamp  Timestamp           `json:"timestamp"`
	TotalCost  decimal.NullDecimal `json:"total_cost"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
