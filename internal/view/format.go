package view

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"proximart/webclient/internal/model"
)

const (
	unknownTime   = "Unknown time"
	unknownStatus = "unknown"
	notAvailable  = "N/A"
)

// Formatter renders values the way the pages display them: prices and
// numbers in the display locale, times in the display time zone.
type Formatter struct {
	printer  *message.Printer
	location *time.Location
}

// NewFormatter falls back to English for an unparseable locale and to UTC
// for a nil location.
func NewFormatter(locale string, location *time.Location) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	if location == nil {
		location = time.UTC
	}
	return &Formatter{printer: message.NewPrinter(tag), location: location}
}

// Time formats a medium date with a short time, e.g. "1 Jul 2025, 4:00 pm".
func (f *Formatter) Time(ts model.Timestamp) string {
	if !ts.Valid {
		return unknownTime
	}
	return ts.Time.In(f.location).Format("2 Jan 2006, 3:04 pm")
}

func (f *Formatter) Number(d decimal.Decimal) string {
	return f.printer.Sprintf("%v", number.Decimal(d.InexactFloat64()))
}

// Price formats a rupee amount, or missing when the price is absent.
func (f *Formatter) Price(p decimal.NullDecimal, missing string) string {
	if !p.Valid {
		return missing
	}
	return "₹" + f.Number(p.Decimal)
}

func (f *Formatter) Quantity(q model.Quantity) string {
	if !q.Valid {
		return notAvailable
	}
	return f.printer.Sprintf("%v", number.Decimal(q.Value))
}

// Float formats an optional one-decimal figure such as a distance or rating.
func (f *Formatter) Float(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return f.printer.Sprintf("%v", number.Decimal(*v, number.MaxFractionDigits(1)))
}

// StatusTone maps an order status to the badge colour class.
func StatusTone(status string) string {
	switch status {
	case model.StatusPending:
		return "warning"
	case model.StatusDelivered:
		return "success"
	default:
		return "neutral"
	}
}

func StatusLabel(status string) string {
	if status == "" {
		return unknownStatus
	}
	return status
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
