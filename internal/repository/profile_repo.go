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

// ProfileRepository holds the per-user document checkout merges into:
// address and discord handle. Writes are merge-style upserts so leaving the
// address step never wipes a previously saved discord handle, and vice versa.
type ProfileRepository struct {
	DB *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	var addrRaw []byte
	var discord *string
	query := `SELECT userid, email, address, discord, created_at FROM profiles WHERE userid=$1`
	if err := r.DB.QueryRow(ctx, query, userID).Scan(&p.UserID, &p.Email, &addrRaw, &discord, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("profile not found")
		}
		return nil, err
	}
	if addrRaw != nil {
		var a model.Address
		if err := json.Unmarshal(addrRaw, &a); err != nil {
			return nil, err
		}
		p.Address = &a
	}
	if discord != nil {
		p.Discord = *discord
	}
	return &p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, userID, email string) error {
	query := `INSERT INTO profiles (userid, email, created_at) VALUES ($1, $2, $3) ON CONFLICT (userid) DO NOTHING`
	_, err := r.DB.Exec(ctx, query, userID, email, time.Now())
	return err
}

func (r *ProfileRepository) SaveAddress(ctx context.Context, userID string, addr model.Address) error {
	raw, err := json.Marshal(addr)
	if err != nil {
		return err
	}
	query := `UPDATE profiles SET address=$1 WHERE userid=$2`
	tag, err := r.DB.Exec(ctx, query, raw, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("profile not found")
	}
	return nil
}

func (r *ProfileRepository) SaveDiscord(ctx context.Context, userID, discord string) error {
	query := `UPDATE profiles SET discord=$1 WHERE userid=$2`
	tag, err := r.DB.Exec(ctx, query, discord, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("profile not found")
	}
	return nil
}
