package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("amount must be >= 0")
)

// ParseAmount は入力値を金額として厳密に解釈する（小数2桁まで、負数不可）。
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return CheckAmount(d)
}

// CheckAmount は既にDecimalになっている金額を検証する。
func CheckAmount(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}
