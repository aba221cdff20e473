package pricing

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultTaxPercent は税率の既定値（16%）
var DefaultTaxPercent = decimal.NewFromInt(16)

var hundred = decimal.NewFromInt(100)

// Multiply は value × factor。どちらかが数値でなければ0。
func Multiply(value, factor any) decimal.Decimal {
	v, ok := toDecimal(value)
	if !ok {
		return decimal.Zero
	}
	f, ok := toDecimal(factor)
	if !ok {
		return decimal.Zero
	}
	return v.Mul(f)
}

// AddTax は value + value×rate/100。rateを省略すると16%。
func AddTax(value any, rate ...any) decimal.Decimal {
	v, ok := toDecimal(value)
	if !ok {
		return decimal.Zero
	}
	r, ok := ratePercent(rate)
	if !ok {
		return decimal.Zero
	}
	return v.Add(v.Mul(r).Div(hundred))
}

// TaxAmount は value×rate/100。rateを省略すると16%。
func TaxAmount(value any, rate ...any) decimal.Decimal {
	v, ok := toDecimal(value)
	if !ok {
		return decimal.Zero
	}
	r, ok := ratePercent(rate)
	if !ok {
		return decimal.Zero
	}
	return v.Mul(r).Div(hundred)
}

func ratePercent(rate []any) (decimal.Decimal, bool) {
	if len(rate) == 0 {
		return DefaultTaxPercent, true
	}
	return toDecimal(rate[0])
}

// 数値として解釈できないものは ok=false
func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return t, true
	case *decimal.Decimal:
		if t == nil {
			return decimal.Zero, false
		}
		return *t, true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int32:
		return decimal.NewFromInt32(t), true
	case int64:
		return decimal.NewFromInt(t), true
	case uint:
		return decimal.NewFromUint64(uint64(t)), true
	case uint32:
		return decimal.NewFromUint64(uint64(t)), true
	case uint64:
		return decimal.NewFromUint64(t), true
	case float32:
		return fromFloat(float64(t))
	case float64:
		return fromFloat(t)
	case json.Number:
		return fromString(t.String())
	case string:
		return fromString(t)
	default:
		return decimal.Zero, false
	}
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

func fromString(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
