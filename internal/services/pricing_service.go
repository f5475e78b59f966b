package services

import (
	"errors"
	"fmt"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"

	"github.com/shopspring/decimal"
)

// Pricing is pure: no reads, no writes, same inputs same outputs. All
// results are rounded to 2 decimals; intermediate arithmetic stays decimal.

var million = decimal.NewFromInt(1_000_000)

// FlatPrice returns the stored per-unit price for a flat-category product.
// Quantity multiplies at total time, never here.
func FlatPrice(p *model.Product, cur model.Currency) (decimal.Decimal, error) {
	if !p.Category.Flat() || p.Flat == nil {
		return decimal.Zero, fmt.Errorf("product %s is not flat-priced", p.ProductID)
	}
	return p.Flat.Price(cur).Round(2), nil
}

// PriceLeveling computes base + (end-start) * multiplier for a level range.
// Requires 1 <= start < end <= maxLevel; a zero-length range fails the
// ordering check.
func PriceLeveling(p *model.Product, startLevel, endLevel int, cur model.Currency) (decimal.Decimal, error) {
	if p.Category != model.CategoryLeveling || p.Leveling == nil {
		return decimal.Zero, fmt.Errorf("product %s is not a leveling service", p.ProductID)
	}
	if startLevel < 1 {
		return decimal.Zero, errors.New("start level must be at least 1")
	}
	if endLevel <= startLevel {
		return decimal.Zero, errors.New("end level must be greater than start level")
	}
	if endLevel > p.Leveling.MaxLevel {
		return decimal.Zero, fmt.Errorf("end level exceeds max level %d", p.Leveling.MaxLevel)
	}

	span := decimal.NewFromInt(int64(endLevel - startLevel))
	price := p.Leveling.Base(cur).Add(span.Mul(p.Leveling.Multiplier(cur)))
	return price.Round(2), nil
}

// PriceGil computes millions * pricePerMillion. Requires
// 0 < millions <= availableGil - soldGil on the product value passed in;
// cart admission does the fresh read.
func PriceGil(p *model.Product, millions decimal.Decimal, cur model.Currency) (decimal.Decimal, error) {
	if p.Category != model.CategoryGil || p.Gil == nil {
		return decimal.Zero, fmt.Errorf("product %s is not a gil product", p.ProductID)
	}
	if millions.Sign() <= 0 {
		return decimal.Zero, errors.New("gil amount must be positive")
	}
	if millions.GreaterThan(p.Gil.Remaining()) {
		return decimal.Zero, ErrInsufficientStock
	}
	return millions.Mul(p.Gil.PricePerMillion(cur)).Round(2), nil
}

// TotalOf sums price * quantity across lines, decimal-exact.
func TotalOf(lines []model.CartLine, cur model.Currency) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range lines {
		sub, err := lines[i].Subtotal(cur)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(sub)
	}
	return total.Round(2), nil
}

// FormatPrice renders a decimal as the 2-decimal string stored on lines and
// orders.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}
