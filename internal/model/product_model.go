package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Category discriminates the product shape. Pricing fields live on the
// matching sub-struct; consumers switch on Category and must treat an
// unknown value as an error.
type Category string

const (
	CategorySavage   Category = "savage"
	CategoryUltimate Category = "ultimate"
	CategoryExtreme  Category = "extreme"
	CategoryLeveling Category = "leveling"
	CategoryQuests   Category = "quests"
	CategoryGil      Category = "gil"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySavage, CategoryUltimate, CategoryExtreme, CategoryLeveling, CategoryQuests, CategoryGil:
		return true
	}
	return false
}

// Flat reports whether the category is priced by a fixed per-unit price.
func (c Category) Flat() bool {
	switch c {
	case CategorySavage, CategoryUltimate, CategoryExtreme, CategoryQuests:
		return true
	}
	return false
}

type Currency string

const (
	CurrencyBRL Currency = "BRL"
	CurrencyUSD Currency = "USD"
)

func (c Currency) Valid() bool {
	return c == CurrencyBRL || c == CurrencyUSD
}

// FlatPricing covers savage/ultimate/extreme/quests products.
type FlatPricing struct {
	PriceBRL decimal.Decimal `json:"priceBRL"`
	PriceUSD decimal.Decimal `json:"priceUSD"`
}

func (p FlatPricing) Price(cur Currency) decimal.Decimal {
	if cur == CurrencyUSD {
		return p.PriceUSD
	}
	return p.PriceBRL
}

// LevelingPricing prices a level range: base + (end-start) * multiplier.
type LevelingPricing struct {
	BasePriceBRL       decimal.Decimal `json:"basePriceBRL"`
	BasePriceUSD       decimal.Decimal `json:"basePriceUSD"`
	LevelMultiplierBRL decimal.Decimal `json:"levelMultiplierBRL"`
	LevelMultiplierUSD decimal.Decimal `json:"levelMultiplierUSD"`
	MaxLevel           int             `json:"maxLevel"`
	AvailableJobs      []string        `json:"availableJobs"`
}

func (p LevelingPricing) Base(cur Currency) decimal.Decimal {
	if cur == CurrencyUSD {
		return p.BasePriceUSD
	}
	return p.BasePriceBRL
}

func (p LevelingPricing) Multiplier(cur Currency) decimal.Decimal {
	if cur == CurrencyUSD {
		return p.LevelMultiplierUSD
	}
	return p.LevelMultiplierBRL
}

func (p LevelingPricing) HasJob(job string) bool {
	for _, j := range p.AvailableJobs {
		if j == job {
			return true
		}
	}
	return false
}

// GilPricing tracks the shared depletable pool. Amounts are in millions of
// gil. SoldGil only ever grows and must stay <= AvailableGil.
type GilPricing struct {
	PricePerMillionBRL decimal.Decimal `json:"pricePerMillionBRL"`
	PricePerMillionUSD decimal.Decimal `json:"pricePerMillionUSD"`
	AvailableGil       decimal.Decimal `json:"availableGil"`
	SoldGil            decimal.Decimal `json:"soldGil"`
}

func (p GilPricing) PricePerMillion(cur Currency) decimal.Decimal {
	if cur == CurrencyUSD {
		return p.PricePerMillionUSD
	}
	return p.PricePerMillionBRL
}

// Remaining returns availableGil - soldGil in millions.
func (p GilPricing) Remaining() decimal.Decimal {
	return p.AvailableGil.Sub(p.SoldGil)
}

// Product is a catalog entry. Exactly one of Flat/Leveling/Gil is set,
// matching Category.
type Product struct {
	ProductID   string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	Category    Category   `json:"category"`
	InStock     bool       `json:"inStock"`
	Featured    bool       `json:"featured"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`

	Flat     *FlatPricing     `json:"flat,omitempty"`
	Leveling *LevelingPricing `json:"leveling,omitempty"`
	Gil      *GilPricing      `json:"gil,omitempty"`
}

// ValidateShape checks that the pricing sub-struct matches the category.
func (p *Product) ValidateShape() error {
	if !p.Category.Valid() {
		return fmt.Errorf("unknown category %q", p.Category)
	}
	switch {
	case p.Category.Flat():
		if p.Flat == nil {
			return fmt.Errorf("category %q requires flat pricing", p.Category)
		}
	case p.Category == CategoryLeveling:
		if p.Leveling == nil {
			return fmt.Errorf("category %q requires leveling pricing", p.Category)
		}
		if p.Leveling.MaxLevel < 2 {
			return fmt.Errorf("maxLevel must be at least 2")
		}
	case p.Category == CategoryGil:
		if p.Gil == nil {
			return fmt.Errorf("category %q requires gil pricing", p.Category)
		}
		if p.Gil.AvailableGil.Sign() <= 0 {
			return fmt.Errorf("availableGil must be positive")
		}
		if p.Gil.SoldGil.Sign() < 0 || p.Gil.SoldGil.GreaterThan(p.Gil.AvailableGil) {
			return fmt.Errorf("soldGil out of range")
		}
	}
	return nil
}
