package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrInsufficientStock is returned when a gil decrement would push soldGil
// past availableGil. The pool is never clamped.
var ErrInsufficientStock = errors.New("not enough stock")

// ErrProductNotFound means the product does not exist or was soft-deleted.
// Callers must not treat other lookup failures as a missing product.
var ErrProductNotFound = errors.New("product not found")

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = `
	productid, name, description, image, category, in_stock, featured,
	price_brl, price_usd,
	base_price_brl, base_price_usd, level_multiplier_brl, level_multiplier_usd, max_level, available_jobs,
	price_per_million_brl, price_per_million_usd, available_gil, sold_gil,
	created_at, deleted_at
`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	var priceBRL, priceUSD decimal.NullDecimal
	var baseBRL, baseUSD, multBRL, multUSD decimal.NullDecimal
	var maxLevel *int
	var jobs []string
	var ppmBRL, ppmUSD, availGil, soldGil decimal.NullDecimal

	if err := row.Scan(
		&p.ProductID, &p.Name, &p.Description, &p.Image, &p.Category, &p.InStock, &p.Featured,
		&priceBRL, &priceUSD,
		&baseBRL, &baseUSD, &multBRL, &multUSD, &maxLevel, &jobs,
		&ppmBRL, &ppmUSD, &availGil, &soldGil,
		&p.CreatedAt, &p.DeletedAt,
	); err != nil {
		return nil, err
	}

	switch {
	case p.Category.Flat():
		p.Flat = &model.FlatPricing{
			PriceBRL: priceBRL.Decimal,
			PriceUSD: priceUSD.Decimal,
		}
	case p.Category == model.CategoryLeveling:
		lv := &model.LevelingPricing{
			BasePriceBRL:       baseBRL.Decimal,
			BasePriceUSD:       baseUSD.Decimal,
			LevelMultiplierBRL: multBRL.Decimal,
			LevelMultiplierUSD: multUSD.Decimal,
			AvailableJobs:      jobs,
		}
		if maxLevel != nil {
			lv.MaxLevel = *maxLevel
		}
		p.Leveling = lv
	case p.Category == model.CategoryGil:
		p.Gil = &model.GilPricing{
			PricePerMillionBRL: ppmBRL.Decimal,
			PricePerMillionUSD: ppmUSD.Decimal,
			AvailableGil:       availGil.Decimal,
			SoldGil:            soldGil.Decimal,
		}
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) (string, error) {
	if err := p.ValidateShape(); err != nil {
		return "", err
	}
	if p.ProductID == "" {
		p.ProductID = uuid.NewString()
	}

	var (
		priceBRL, priceUSD             *decimal.Decimal
		baseBRL, baseUSD               *decimal.Decimal
		multBRL, multUSD               *decimal.Decimal
		maxLevel                       *int
		jobs                           []string
		ppmBRL, ppmUSD, availGil, sold *decimal.Decimal
	)
	switch {
	case p.Category.Flat():
		priceBRL, priceUSD = &p.Flat.PriceBRL, &p.Flat.PriceUSD
	case p.Category == model.CategoryLeveling:
		baseBRL, baseUSD = &p.Leveling.BasePriceBRL, &p.Leveling.BasePriceUSD
		multBRL, multUSD = &p.Leveling.LevelMultiplierBRL, &p.Leveling.LevelMultiplierUSD
		maxLevel = &p.Leveling.MaxLevel
		jobs = p.Leveling.AvailableJobs
	case p.Category == model.CategoryGil:
		ppmBRL, ppmUSD = &p.Gil.PricePerMillionBRL, &p.Gil.PricePerMillionUSD
		availGil, sold = &p.Gil.AvailableGil, &p.Gil.SoldGil
	}

	query := `
		INSERT INTO products (
			productid, name, description, image, category, in_stock, featured,
			price_brl, price_usd,
			base_price_brl, base_price_usd, level_multiplier_brl, level_multiplier_usd, max_level, available_jobs,
			price_per_million_brl, price_per_million_usd, available_gil, sold_gil,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`
	_, err := r.DB.Exec(ctx, query,
		p.ProductID, p.Name, p.Description, p.Image, p.Category, p.InStock, p.Featured,
		priceBRL, priceUSD,
		baseBRL, baseUSD, multBRL, multUSD, maxLevel, jobs,
		ppmBRL, ppmUSD, availGil, sold,
		time.Now(),
	)
	if err != nil {
		return "", err
	}
	return p.ProductID, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE productid=$1 AND deleted_at IS NULL`
	p, err := scanProduct(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, category model.Category, limit, offset int) ([]model.Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE deleted_at IS NULL`
	args := []any{}
	if category != "" {
		query += ` AND category=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, category, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func (r *ProductRepository) ListFeatured(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE featured=true AND deleted_at IS NULL ORDER BY created_at DESC`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// Update rewrites display and pricing fields. sold_gil is deliberately left
// alone: only checkout completion moves it.
func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	if err := p.ValidateShape(); err != nil {
		return err
	}

	var (
		priceBRL, priceUSD       *decimal.Decimal
		baseBRL, baseUSD         *decimal.Decimal
		multBRL, multUSD         *decimal.Decimal
		maxLevel                 *int
		jobs                     []string
		ppmBRL, ppmUSD, availGil *decimal.Decimal
	)
	switch {
	case p.Category.Flat():
		priceBRL, priceUSD = &p.Flat.PriceBRL, &p.Flat.PriceUSD
	case p.Category == model.CategoryLeveling:
		baseBRL, baseUSD = &p.Leveling.BasePriceBRL, &p.Leveling.BasePriceUSD
		multBRL, multUSD = &p.Leveling.LevelMultiplierBRL, &p.Leveling.LevelMultiplierUSD
		maxLevel = &p.Leveling.MaxLevel
		jobs = p.Leveling.AvailableJobs
	case p.Category == model.CategoryGil:
		ppmBRL, ppmUSD = &p.Gil.PricePerMillionBRL, &p.Gil.PricePerMillionUSD
		availGil = &p.Gil.AvailableGil
	}

	query := `
		UPDATE products SET
			name=$1, description=$2, image=$3, category=$4, in_stock=$5, featured=$6,
			price_brl=$7, price_usd=$8,
			base_price_brl=$9, base_price_usd=$10, level_multiplier_brl=$11, level_multiplier_usd=$12,
			max_level=$13, available_jobs=$14,
			price_per_million_brl=$15, price_per_million_usd=$16, available_gil=$17
		WHERE productid=$18 AND deleted_at IS NULL
	`
	tag, err := r.DB.Exec(ctx, query,
		p.Name, p.Description, p.Image, p.Category, p.InStock, p.Featured,
		priceBRL, priceUSD,
		baseBRL, baseUSD, multBRL, multUSD,
		maxLevel, jobs,
		ppmBRL, ppmUSD, availGil,
		p.ProductID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("product not found or deleted")
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE products SET deleted_at=$1 WHERE productid=$2 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("product not found or already deleted")
	}
	return nil
}

func (r *ProductRepository) SetInStock(ctx context.Context, id string, inStock bool) error {
	query := `UPDATE products SET in_stock=$1 WHERE productid=$2 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, inStock, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("product not found or deleted")
	}
	return nil
}

func (r *ProductRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	query := `UPDATE products SET featured=$1 WHERE productid=$2 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, featured, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("product not found or deleted")
	}
	return nil
}

// DecrementGilTx bumps sold_gil by amount (millions) inside tx. The guard is
// in the WHERE clause so concurrent buyers cannot both take the last million.
func (r *ProductRepository) DecrementGilTx(ctx context.Context, tx pgx.Tx, productID string, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return errors.New("gil amount must be positive")
	}
	query := `
		UPDATE products
		SET sold_gil = sold_gil + $1
		WHERE productid=$2 AND deleted_at IS NULL AND category='gil'
			AND sold_gil + $1 <= available_gil
	`
	tag, err := tx.Exec(ctx, query, amount, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientStock
	}
	return nil
}
