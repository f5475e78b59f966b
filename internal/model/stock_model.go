package model

import "github.com/shopspring/decimal"

// GilDecrement is one pending draw against a gil product's pool, in millions.
// Checkout completion applies all decrements for an order in one transaction.
type GilDecrement struct {
	ProductID string          `json:"productId"`
	Amount    decimal.Decimal `json:"amount"`
}
