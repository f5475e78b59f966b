package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/repository"
)

type ProductService struct {
	Repo *repository.ProductRepository
}

func NewProductService(r *repository.ProductRepository) *ProductService {
	return &ProductService{Repo: r}
}

func (s *ProductService) validate(p *model.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return errors.New("name is required")
	}
	if err := p.ValidateShape(); err != nil {
		return err
	}
	switch {
	case p.Category.Flat():
		if p.Flat.PriceBRL.Sign() < 0 || p.Flat.PriceUSD.Sign() < 0 {
			return errors.New("price must be >= 0")
		}
	case p.Category == model.CategoryLeveling:
		if p.Leveling.BasePriceBRL.Sign() < 0 || p.Leveling.BasePriceUSD.Sign() < 0 ||
			p.Leveling.LevelMultiplierBRL.Sign() < 0 || p.Leveling.LevelMultiplierUSD.Sign() < 0 {
			return errors.New("price must be >= 0")
		}
		if len(p.Leveling.AvailableJobs) == 0 {
			return errors.New("at least one job is required")
		}
	case p.Category == model.CategoryGil:
		if p.Gil.PricePerMillionBRL.Sign() < 0 || p.Gil.PricePerMillionUSD.Sign() < 0 {
			return errors.New("price must be >= 0")
		}
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, p *model.Product) (string, error) {
	if err := s.validate(p); err != nil {
		return "", err
	}
	return s.Repo.Create(ctx, p)
}

func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, category model.Category, limit, offset int) ([]model.Product, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	return s.Repo.List(ctx, category, limit, offset)
}

func (s *ProductService) ListFeatured(ctx context.Context) ([]model.Product, error) {
	return s.Repo.ListFeatured(ctx)
}

// Update rewrites the catalog entry. soldGil is never touched here; only
// checkout completion moves it.
func (s *ProductService) Update(ctx context.Context, p *model.Product) error {
	if p.ProductID == "" {
		return errors.New("product id is required")
	}
	if err := s.validate(p); err != nil {
		return err
	}
	return s.Repo.Update(ctx, p)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func (s *ProductService) SetInStock(ctx context.Context, id string, inStock bool) error {
	return s.Repo.SetInStock(ctx, id, inStock)
}

func (s *ProductService) SetFeatured(ctx context.Context, id string, featured bool) error {
	return s.Repo.SetFeatured(ctx, id, featured)
}
