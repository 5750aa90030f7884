package models

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

func init() {
	// Prices go to the front end as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// DiscountedPrice applies a percentage discount and rounds to cents.
// Discounts outside 0..100 are clamped.
func DiscountedPrice(price, discount decimal.Decimal) decimal.Decimal {
	if discount.LessThanOrEqual(decimal.Zero) {
		return price.Round(2)
	}
	if discount.GreaterThan(hundred) {
		discount = hundred
	}
	return price.Mul(hundred.Sub(discount)).Div(hundred).Round(2)
}

type Totals struct {
	ItemCount int             `json:"item_count"`
	SubTotal  decimal.Decimal `json:"sub_total"`
	Total     decimal.Decimal `json:"total"`
	Saved     decimal.Decimal `json:"saved"`
}

// Add accumulates one line of quantity units at price with discount.
func (t *Totals) Add(price, discount decimal.Decimal, quantity int) {
	qty := decimal.NewFromInt(int64(quantity))
	full := price.Mul(qty).Round(2)
	paid := DiscountedPrice(price, discount).Mul(qty).Round(2)

	t.ItemCount += quantity
	t.SubTotal = t.SubTotal.Add(full)
	t.Total = t.Total.Add(paid)
	t.Saved = t.SubTotal.Sub(t.Total)
}
