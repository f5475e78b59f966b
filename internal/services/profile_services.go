package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/repository"
)

type ProfileService struct {
	Repo *repository.ProfileRepository
}

func NewProfileService(r *repository.ProfileRepository) *ProfileService {
	return &ProfileService{Repo: r}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	return s.Repo.Get(ctx, userID)
}

func (s *ProfileService) UpdateAddress(ctx context.Context, userID string, addr model.Address) error {
	if err := validateAddress(addr); err != nil {
		return err
	}
	return s.Repo.SaveAddress(ctx, userID, addr)
}

func (s *ProfileService) UpdateDiscord(ctx context.Context, userID, discord string) error {
	discord = strings.TrimSpace(discord)
	if discord == "" {
		return errors.New("discord handle is required")
	}
	return s.Repo.SaveDiscord(ctx, userID, discord)
}
