package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Quantity is an optional numeric field. Absent, null and non-numeric JSON
// values all decode to an invalid Quantity instead of failing the payload.
type Quantity struct {
	Value float64
	Valid bool
}

// NewQuantity returns a valid Quantity.
func NewQuantity(v float64) Quantity {
	return Quantity{Value: v, Valid: true}
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = Quantity{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == 'n' {
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*q = NewQuantity(v)
	return nil
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(q.Value, 'f', -1, 64)), nil
}

// String formats the quantity, or "N/A" when it is missing.
func (q Quantity) String() string {
	if !q.Valid {
		return "N/A"
	}
	return strconv.FormatFloat(q.Value, 'f', -1, 64)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02",
}

// Timestamp accepts ISO-8601 strings (with or without zone) and epoch
// milliseconds. Zone-less strings are read as UTC. Anything else decodes to an
// invalid Timestamp.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// ParseTimestamp tries every supported layout in turn.
func ParseTimestamp(s string) Timestamp {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t, Valid: true}
		}
	}
	return Timestamp{}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == 'n' {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*t = ParseTimestamp(s)
		return nil
	}
	var millis float64
	if err := json.Unmarshal(data, &millis); err != nil {
		return nil
	}
	*t = Timestamp{Time: time.UnixMilli(int64(millis)).UTC(), Valid: true}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
