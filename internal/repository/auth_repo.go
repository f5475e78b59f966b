package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthRepository struct {
	DB *pgxpool.Pool
}

func NewAuthRepository(db *pgxpool.Pool) *AuthRepository {
	return &AuthRepository{DB: db}
}

func (r *AuthRepository) CreateUser(ctx context.Context, email, passwordHash, role string) (string, error) {
	id := uuid.NewString()
	query := `INSERT INTO auth (userid, email, passwordhash, role, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.DB.Exec(ctx, query, id, email, passwordHash, role, time.Now()); err != nil {
		return "", err
	}
	return id, nil
}

func (r *AuthRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM auth WHERE email=$1 AND deleted_at IS NULL)`
	if err := r.DB.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *AuthRepository) GetByEmail(ctx context.Context, email string) (*model.Auth, error) {
	var u model.Auth
	query := `SELECT userid, email, passwordhash, role, created_at, deleted_at FROM auth WHERE email=$1 AND deleted_at IS NULL`
	if err := r.DB.QueryRow(ctx, query, email).Scan(&u.UserID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.DeletedAt); err != nil {
		return nil, errors.New("user not found")
	}
	return &u, nil
}

func (r *AuthRepository) GetByID(ctx context.Context, userID string) (*model.Auth, error) {
	var u model.Auth
	query := `SELECT userid, email, passwordhash, role, created_at, deleted_at FROM auth WHERE userid=$1 AND deleted_at IS NULL`
	if err := r.DB.QueryRow(ctx, query, userID).Scan(&u.UserID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.DeletedAt); err != nil {
		return nil, errors.New("user not found")
	}
	return &u, nil
}
