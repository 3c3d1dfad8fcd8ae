package validation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// toDecimal converts the loosely typed values a JSON field map carries
// into exact decimals. Strings are parsed without a float round-trip.
func toDecimal(v interface{}) (decimal.Decimal, error) {
	switch val := v.(type) {
	case nil:
		return decimal.Zero, fmt.Errorf("value is missing")
	case float64:
		return decimal.NewFromFloat(val), nil
	case int:
		return decimal.NewFromInt(int64(val)), nil
	case int64:
		return decimal.NewFromInt(val), nil
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero, fmt.Errorf("cannot parse %q as a number", val)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("cannot parse %q as a number", val)
		}
		return d, nil
	case decimal.Decimal:
		return val, nil
	}
	return decimal.Zero, fmt.Errorf("unsupported numeric type %T", v)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseDate accepts the ISO date forms extraction produces.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date", s)
}
