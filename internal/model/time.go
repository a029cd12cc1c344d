package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// timeLayouts lists the formats the API is known to emit. The backend
// serializes naive datetimes without a zone, so RFC 3339 alone is not enough.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
}

// DateLayout is the layout used for date-only form input and display.
const DateLayout = "2006-01-02"

// Time is a timestamp that tolerates the API's zone-less datetime format.
type Time struct {
	time.Time
}

// NewTime wraps t.
func NewTime(t time.Time) *Time {
	return &Time{Time: t}
}

// ParseTime parses s using the accepted API layouts.
func ParseTime(s string) (Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Time{Time: t}, nil
		}
	}
	return Time{}, fmt.Errorf("unrecognized time %q", s)
}

// ParseDate parses a YYYY-MM-DD form value. Empty input yields nil.
func ParseDate(s string) (*Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return &Time{Time: t}, nil
}

// Equal reports whether both values denote the same instant.
func (t Time) Equal(u Time) bool {
	return t.Time.Equal(u.Time)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("decoding time %s: %w", data, err)
	}
	if s == "" {
		return nil
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// FormatDate renders t as YYYY-MM-DD, or "" when t is nil.
func FormatDate(t *Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatDateTime renders t for display, or "-" when t is nil.
func FormatDateTime(t *Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
