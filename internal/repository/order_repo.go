package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	DB       *pgxpool.Pool
	Products *ProductRepository
	Carts    *CartRepository
}

func NewOrderRepository(db *pgxpool.Pool, pr *ProductRepository, cr *CartRepository) *OrderRepository {
	return &OrderRepository{DB: db, Products: pr, Carts: cr}
}

// PlaceOrder runs the checkout completion transaction: insert the order,
// apply every gil decrement, clear the cart. Any failure rolls the whole
// thing back, so there is never an order row with untouched stock or a
// cleared cart without an order.
func (r *OrderRepository) PlaceOrder(ctx context.Context, o *model.Order, decrements []model.GilDecrement) (string, error) {
	if o.OrderID == "" {
		o.OrderID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	itemsRaw, err := json.Marshal(o.Items)
	if err != nil {
		return "", err
	}
	addrRaw, err := json.Marshal(o.Address)
	if err != nil {
		return "", err
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (orderid, userid, useremail, items, total, currency, address, discord, payment_method, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	if _, err := tx.Exec(ctx, query,
		o.OrderID, o.UserID, o.UserEmail, itemsRaw, o.Total, o.Currency,
		addrRaw, o.Discord, o.PaymentMethod, o.Status, o.CreatedAt,
	); err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}

	for _, d := range decrements {
		if err := r.Products.DecrementGilTx(ctx, tx, d.ProductID, d.Amount); err != nil {
			return "", fmt.Errorf("gil stock for product %s: %w", d.ProductID, err)
		}
	}

	if err := r.Carts.ClearTx(ctx, tx, o.UserID); err != nil {
		return "", fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}
	return o.OrderID, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var itemsRaw, addrRaw []byte
	if err := row.Scan(
		&o.OrderID, &o.UserID, &o.UserEmail, &itemsRaw, &o.Total, &o.Currency,
		&addrRaw, &o.Discord, &o.PaymentMethod, &o.Status, &o.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsRaw, &o.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addrRaw, &o.Address); err != nil {
		return nil, err
	}
	return &o, nil
}

const orderColumns = `orderid, userid, useremail, items, total, currency, address, discord, payment_method, status, created_at`

func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE orderid=$1`
	o, err := scanOrder(r.DB.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, errors.New("order not found")
	}
	return o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE userid=$1 ORDER BY created_at DESC`
	rows, err := r.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *OrderRepository) ListAll(ctx context.Context, limit, offset int) ([]model.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// UpdateStatus is the flat admin status write. Any status may replace any
// other; only enum membership is checked, by the service.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	query := `UPDATE orders SET status=$1 WHERE orderid=$2`
	tag, err := r.DB.Exec(ctx, query, status, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("order not found")
	}
	return nil
}
