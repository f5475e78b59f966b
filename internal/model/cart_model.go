package model

import (
	"errors"

	"github.com/shopspring/decimal"
)

// CartLine is one entry in a user's cart. Prices are snapshotted at add time
// as strings fixed at 2 decimals so later product edits don't move carted
// prices.
type CartLine struct {
	LineID    string   `json:"lineId"`
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Image     string   `json:"image"`
	Category  Category `json:"category"`
	PriceBRL  string   `json:"priceBRL"`
	PriceUSD  string   `json:"priceUSD"`
	Quantity  int      `json:"quantity"`

	// leveling selection
	Job        string `json:"job,omitempty"`
	StartLevel int    `json:"startLevel,omitempty"`
	EndLevel   int    `json:"endLevel,omitempty"`

	// gil selection, in millions; TotalGil is the raw gil for display
	GilAmount decimal.Decimal `json:"gilAmount,omitempty"`
	TotalGil  int64           `json:"totalGil,omitempty"`
}

// Price parses the snapshotted line price for the given currency.
func (l *CartLine) Price(cur Currency) (decimal.Decimal, error) {
	s := l.PriceBRL
	if cur == CurrencyUSD {
		s = l.PriceUSD
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("invalid price on cart line")
	}
	return d, nil
}

// Subtotal is price * quantity.
func (l *CartLine) Subtotal(cur Currency) (decimal.Decimal, error) {
	p, err := l.Price(cur)
	if err != nil {
		return decimal.Zero, err
	}
	return p.Mul(decimal.NewFromInt(int64(l.Quantity))), nil
}

// CartResponse is returned by cart reads. RemovedLines names lines that were
// pruned because their product went out of stock or disappeared.
type CartResponse struct {
	Items        []CartLine `json:"items"`
	TotalBRL     string     `json:"totalBRL"`
	TotalUSD     string     `json:"totalUSD"`
	RemovedLines []string   `json:"removedLines,omitempty"`
}
