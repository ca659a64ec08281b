package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a money value that decodes from either a JSON number or a numeric
// string ("250.50") and is stored as float64.
type Amount float64

// UnmarshalJSON accepts numbers and numeric strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		raw = unquoted
	}
	v, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = Amount(v)
	return nil
}

// Float64 returns the amount as a float64.
func (a Amount) Float64() float64 { return float64(a) }

// MaxAmount bounds the magnitude of any money value.
const MaxAmount = 1e12

var maxAmount = decimal.NewFromFloat(MaxAmount)

// ParseAmount parses a decimal string into a float64. Values whose magnitude
// exceeds MaxAmount are rejected.
func ParseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a number", s)
	}
	if d.Abs().GreaterThan(maxAmount) {
		return 0, fmt.Errorf("amount %q exceeds %.0f", s, MaxAmount)
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("amount %q is not a finite number", s)
	}
	return f, nil
}
