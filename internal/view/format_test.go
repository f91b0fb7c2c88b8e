package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"proximart/webclient/internal/model"
)

func TestFormatter_Time(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	f := NewFormatter("en-IN", ist)

	ts := model.Timestamp{Time: time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC), Valid: true}
	assert.Equal(t, "1 Jul 2025, 4:00 pm", f.Time(ts))
	assert.Equal(t, "Unknown time", f.Time(model.Timestamp{}))
}

func TestFormatter_NilLocationIsUTC(t *testing.T) {
	f := NewFormatter("en-IN", nil)

	ts := model.Timestamp{Time: time.Date(2025, 1, 5, 9, 5, 0, 0, time.UTC), Valid: true}
	assert.Equal(t, "5 Jan 2025, 9:05 am", f.Time(ts))
}

func TestFormatter_Price(t *testing.T) {
	f := NewFormatter("en-IN", time.UTC)

	assert.Equal(t, "₹40", f.Price(decimal.NewNullDecimal(decimal.NewFromInt(40)), "?"))
	assert.Equal(t, "₹1,234.5", f.Price(decimal.NewNullDecimal(decimal.RequireFromString("1234.5")), "?"))
	assert.Equal(t, "?", f.Price(decimal.NullDecimal{}, "?"))
	assert.Equal(t, "N/A", f.Price(decimal.NullDecimal{}, "N/A"))
}

func TestFormatter_Quantity(t *testing.T) {
	f := NewFormatter("en-IN", time.UTC)

	assert.Equal(t, "25", f.Quantity(model.NewQuantity(25)))
	assert.Equal(t, "N/A", f.Quantity(model.Quantity{}))
}

func TestFormatter_Float(t *testing.T) {
	f := NewFormatter("en", time.UTC)
	v := 2.345

	assert.Equal(t, "2.3", f.Float(&v))
	assert.Equal(t, "N/A", f.Float(nil))
}

func TestFormatter_BadLocale(t *testing.T) {
	f := NewFormatter("not a locale!", time.UTC)
	assert.Equal(t, "₹12", f.Price(decimal.NewNullDecimal(decimal.NewFromInt(12)), "?"))
}

func TestStatusTone(t *testing.T) {
	tests := []struct {
		status string
		tone   string
		label  string
	}{
		{"pending", "warning", "pending"},
		{"delivered", "success", "delivered"},
		{"cancelled", "neutral", "cancelled"},
		{"", "neutral", "unknown"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.tone, StatusTone(tc.status), tc.status)
		assert.Equal(t, tc.label, StatusLabel(tc.status), tc.status)
	}
}
