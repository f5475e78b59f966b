package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CartRepository stores one row per user holding the full line array as
// JSONB. Every write replaces the whole snapshot, so a cart is never
// partially written.
type CartRepository struct {
	DB *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{DB: db}
}

// Get returns the user's cart lines, or an empty slice when no cart document
// exists yet.
func (r *CartRepository) Get(ctx context.Context, userID string) ([]model.CartLine, error) {
	var raw []byte
	query := `SELECT items FROM carts WHERE userid=$1`
	if err := r.DB.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []model.CartLine{}, nil
		}
		return nil, err
	}

	var lines []model.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []model.CartLine{}
	}
	return lines, nil
}

// Replace upserts the full snapshot.
func (r *CartRepository) Replace(ctx context.Context, userID string, lines []model.CartLine) error {
	if lines == nil {
		lines = []model.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO carts (userid, items, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (userid)
		DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at
	`
	_, err = r.DB.Exec(ctx, query, userID, raw, time.Now())
	return err
}

// ClearTx empties the cart inside the checkout completion transaction.
func (r *CartRepository) ClearTx(ctx context.Context, tx pgx.Tx, userID string) error {
	query := `
		INSERT INTO carts (userid, items, updated_at)
		VALUES ($1, '[]'::jsonb, $2)
		ON CONFLICT (userid)
		DO UPDATE SET items = '[]'::jsonb, updated_at = EXCLUDED.updated_at
	`
	_, err := tx.Exec(ctx, query, userID, time.Now())
	return err
}
