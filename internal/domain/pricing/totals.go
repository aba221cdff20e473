package pricing

import "github.com/shopspring/decimal"

// Line は (単価, 数量) の明細1行
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int64
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// CartTotal は Σ(単価×数量)。空なら0。
func CartTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount は Σ数量。空なら0。
func ItemCount(lines []Line) int64 {
	var n int64
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Summarize は小計・税・合計を出す。税は小数2桁に丸める。
func Summarize(lines []Line, taxPercent decimal.Decimal) Totals {
	subtotal := CartTotal(lines)
	tax := RoundMoney(TaxAmount(subtotal, taxPercent))
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
