package proximart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"proximart/webclient/internal/model"
)

var (
	// ErrRequestFailed matches every *RequestFailedError via errors.Is.
	ErrRequestFailed = errors.New("proximart api request failed")
	// ErrSupplierNotFound is returned by GetSupplier when no page holds the id.
	ErrSupplierNotFound = errors.New("supplier not found")
)

const (
	unknownErrorMessage = "Unknown error"
	genericErrorMessage = "API request failed"
	networkErrorMessage = "Network error"
)

// RequestFailedError is the single structured failure of the adapter. It is
// returned for non-2xx responses and, with StatusCode 0, when no response
// arrived at all.
type RequestFailedError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestFailedError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("proximart api: %s: %v", e.Message, e.Err)
		}
		return "proximart api: " + e.Message
	}
	return fmt.Sprintf("proximart api: status %d: %s", e.StatusCode, e.Message)
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

func (e *RequestFailedError) Is(target error) bool {
	return target == ErrRequestFailed
}

// errorMessage extracts the "error" field of a failure body.
func errorMessage(body []byte) string {
	var payload map[string]any
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &payload) != nil {
		return unknownErrorMessage
	}
	if msg, ok := payload["error"].(string); ok && msg != "" {
		return msg
	}
	return genericErrorMessage
}

// SupplierQuery holds the optional filters of the supplier listing endpoints.
type SupplierQuery struct {
	Search    string
	Items     []string
	MinRating float64
	SortBy    string
	Page      int
	Limit     int
}

func (q SupplierQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if len(q.Items) > 0 {
		v.Set("items", strings.Join(q.Items, ","))
	}
	if q.MinRating > 0 {
		v.Set("min_rating", strconv.FormatFloat(q.MinRating, 'f', -1, 64))
	}
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

type SuppliersResponse struct {
	Suppliers  []model.Supplier `json:"suppliers"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// OrderHistoryResponse is the raw order history envelope. Orders resolves the
// list from "orders" or, failing that, "order_history".
type OrderHistoryResponse struct {
	Raw    map[string]json.RawMessage
	orders []model.Order
}

func (r *OrderHistoryResponse) UnmarshalJSON(data []byte) error {
	raw, err := objectFields(data)
	if err != nil {
		return err
	}
	orders, err := firstArray[model.Order](raw, "orders", "order_history")
	if err != nil {
		return err
	}
	r.Raw, r.orders = raw, orders
	return nil
}

// Orders never returns nil.
func (r *OrderHistoryResponse) Orders() []model.Order {
	if r == nil || r.orders == nil {
		return []model.Order{}
	}
	return r.orders
}

// InventoryResponse accepts either a bare item array or {"inventory": [...]}.
type InventoryResponse struct {
	Raw   json.RawMessage
	items []model.Item
}

func (r *InventoryResponse) UnmarshalJSON(data []byte) error {
	r.Raw = append(json.RawMessage(nil), data...)
	if isArray(data) {
		var items []model.Item
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode inventory: %w", err)
		}
		r.items = items
		return nil
	}
	raw, err := objectFields(data)
	if err != nil {
		return err
	}
	items, err := firstArray[model.Item](raw, "inventory")
	if err != nil {
		return err
	}
	r.items = items
	return nil
}

// Items never returns nil.
func (r *InventoryResponse) Items() []model.Item {
	if r == nil || r.items == nil {
		return []model.Item{}
	}
	return r.items
}

type FAQResponse struct {
	FAQs []model.FAQ `json:"faqs"`
}

// Items never returns nil.
func (r *FAQResponse) Items() []model.FAQ {
	if r == nil || r.FAQs == nil {
		return []model.FAQ{}
	}
	return r.FAQs
}

// objectFields splits a JSON object into its fields. Any other JSON value
// yields no fields.
func objectFields(data []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return map[string]json.RawMessage{}, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// firstArray decodes the first of keys whose value is a JSON array.
func firstArray[T any](raw map[string]json.RawMessage, keys ...string) ([]T, error) {
	for _, key := range keys {
		field, ok := raw[key]
		if !ok || !isArray(field) {
			continue
		}
		var out []T
		if err := json.Unmarshal(field, &out); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		return out, nil
	}
	return []T{}, nil
}

func isArray(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '['
}
