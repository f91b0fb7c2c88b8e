package model

// DraftSelection maps an item name to the quantity picked for it on the
// supplier page. Setting a name again replaces its quantity.
type DraftSelection map[string]int

// Set records qty for name, overwriting any earlier value.
func (d DraftSelection) Set(name string, qty int) {
	d[name] = qty
}

type PlaceOrderLine struct {
	Name       string  `json:"name" validate:"required"`
	Price      float64 `json:"price" validate:"gte=0"`
	Quantity   int     `json:"quantity" validate:"gt=0"`
	SupplierID string  `json:"supplier_id" validate:"required"`
}

type PlaceOrderRequest struct {
	VendorID string           `json:"vendor_id" validate:"required"`
	Items    []PlaceOrderLine `json:"items" validate:"required,min=1,dive"`
}

type PlaceOrderResponse struct {
	Message string  `json:"message"`
	Orders  []Order `json:"orders"`
}

// DraftKey scopes a draft selection to one browser session and one supplier.
type DraftKey struct {
	SessionID  string
	SupplierID string
}

// DraftEdit is a single quantity input change.
type DraftEdit struct {
	Item     string
	Quantity int
}
