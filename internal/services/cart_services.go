package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrDuplicateJob rejects a second leveling line for the same
	// (product, job) pair.
	ErrDuplicateJob = errors.New("duplicate job")
	// ErrInsufficientStock rejects a gil draw larger than what remains in
	// the pool.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOutOfStock rejects carting a product whose stock flag is off.
	ErrOutOfStock = errors.New("product out of stock")
)

// ProductCatalog is the read side of the product collection the cart
// consults for admission checks. Always a fresh read, never a cached copy.
type ProductCatalog interface {
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CartStore persists the full line array per user as one atomic snapshot.
type CartStore interface {
	Get(ctx context.Context, userID string) ([]model.CartLine, error)
	Replace(ctx context.Context, userID string, lines []model.CartLine) error
}

// AddRequest carries the user's selection for one add. Category-specific
// fields are read only for the matching product category.
type AddRequest struct {
	ProductID  string
	Job        string
	StartLevel int
	EndLevel   int
	GilAmount  decimal.Decimal // millions
}

// CartService owns the per-user cart lifecycle. Writes for one user are
// serialized through a keyed lock so two in-flight mutations cannot
// interleave half-built snapshots; last write wins, deliberately.
type CartService struct {
	Carts    CartStore
	Products ProductCatalog
	Logger   *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewCartService(cs CartStore, pc ProductCatalog, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		Carts:    cs,
		Products: pc,
		Logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *CartService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// Add admits a candidate line under the per-category merge rules and
// persists the updated snapshot.
func (s *CartService) Add(ctx context.Context, userID string, req AddRequest) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	p, err := s.Products.GetByID(ctx, req.ProductID)
	if err != nil {
		return err
	}
	if !p.InStock {
		return ErrOutOfStock
	}

	lines, err := s.Carts.Get(ctx, userID)
	if err != nil {
		s.Logger.Error("cart load failed", zap.String("user", userID), zap.Error(err))
		return errors.New("could not load cart, try again")
	}

	switch {
	case p.Category == model.CategoryLeveling:
		lines, err = s.addLeveling(p, req, lines)
	case p.Category == model.CategoryGil:
		lines, err = s.addGil(p, req, lines)
	case p.Category.Flat():
		lines, err = s.addFlat(p, lines)
	default:
		err = fmt.Errorf("unknown category %q", p.Category)
	}
	if err != nil {
		return err
	}

	if err := s.Carts.Replace(ctx, userID, lines); err != nil {
		s.Logger.Error("cart persist failed", zap.String("user", userID), zap.Error(err))
		return errors.New("could not save cart, try again")
	}
	return nil
}

func (s *CartService) addLeveling(p *model.Product, req AddRequest, lines []model.CartLine) ([]model.CartLine, error) {
	if req.Job == "" {
		return nil, errors.New("job is required")
	}
	if !p.Leveling.HasJob(req.Job) {
		return nil, fmt.Errorf("job %q not available for this service", req.Job)
	}
	for i := range lines {
		if lines[i].ProductID == p.ProductID && lines[i].Job == req.Job {
			return nil, ErrDuplicateJob
		}
	}

	priceBRL, err := PriceLeveling(p, req.StartLevel, req.EndLevel, model.CurrencyBRL)
	if err != nil {
		return nil, err
	}
	priceUSD, err := PriceLeveling(p, req.StartLevel, req.EndLevel, model.CurrencyUSD)
	if err != nil {
		return nil, err
	}

	return append(lines, model.CartLine{
		LineID:     uuid.NewString(),
		ProductID:  p.ProductID,
		Name:       p.Name,
		Image:      p.Image,
		Category:   p.Category,
		PriceBRL:   FormatPrice(priceBRL),
		PriceUSD:   FormatPrice(priceUSD),
		Quantity:   1,
		Job:        req.Job,
		StartLevel: req.StartLevel,
		EndLevel:   req.EndLevel,
	}), nil
}

func (s *CartService) addGil(p *model.Product, req AddRequest, lines []model.CartLine) ([]model.CartLine, error) {
	// every gil add is a new line; the pool check covers the candidate plus
	// everything already carted for this product
	carted := decimal.Zero
	for i := range lines {
		if lines[i].ProductID == p.ProductID && lines[i].Category == model.CategoryGil {
			carted = carted.Add(lines[i].GilAmount)
		}
	}
	if req.GilAmount.Sign() <= 0 {
		return nil, errors.New("gil amount must be positive")
	}
	if carted.Add(req.GilAmount).GreaterThan(p.Gil.Remaining()) {
		return nil, ErrInsufficientStock
	}

	priceBRL, err := PriceGil(p, req.GilAmount, model.CurrencyBRL)
	if err != nil {
		return nil, err
	}
	priceUSD, err := PriceGil(p, req.GilAmount, model.CurrencyUSD)
	if err != nil {
		return nil, err
	}

	return append(lines, model.CartLine{
		LineID:    uuid.NewString(),
		ProductID: p.ProductID,
		Name:      p.Name,
		Image:     p.Image,
		Category:  p.Category,
		PriceBRL:  FormatPrice(priceBRL),
		PriceUSD:  FormatPrice(priceUSD),
		Quantity:  1,
		GilAmount: req.GilAmount,
		TotalGil:  req.GilAmount.Mul(million).IntPart(),
	}), nil
}

func (s *CartService) addFlat(p *model.Product, lines []model.CartLine) ([]model.CartLine, error) {
	for i := range lines {
		if lines[i].ProductID == p.ProductID && lines[i].Category.Flat() {
			lines[i].Quantity++
			return lines, nil
		}
	}

	priceBRL, err := FlatPrice(p, model.CurrencyBRL)
	if err != nil {
		return nil, err
	}
	priceUSD, err := FlatPrice(p, model.CurrencyUSD)
	if err != nil {
		return nil, err
	}

	return append(lines, model.CartLine{
		LineID:    uuid.NewString(),
		ProductID: p.ProductID,
		Name:      p.Name,
		Image:     p.Image,
		Category:  p.Category,
		PriceBRL:  FormatPrice(priceBRL),
		PriceUSD:  FormatPrice(priceUSD),
		Quantity:  1,
	}), nil
}

// Remove deletes a line unconditionally and re-persists.
func (s *CartService) Remove(ctx context.Context, userID, lineID string) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	lines, err := s.Carts.Get(ctx, userID)
	if err != nil {
		return err
	}
	kept := lines[:0]
	for i := range lines {
		if lines[i].LineID != lineID {
			kept = append(kept, lines[i])
		}
	}
	return s.Carts.Replace(ctx, userID, kept)
}

// UpdateQuantity overwrites a line's quantity; qty < 1 removes the line.
// Gil lines have a fixed quantity of 1, their size lives in GilAmount.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, lineID string, qty int) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	lines, err := s.Carts.Get(ctx, userID)
	if err != nil {
		return err
	}

	if qty < 1 {
		kept := lines[:0]
		for i := range lines {
			if lines[i].LineID != lineID {
				kept = append(kept, lines[i])
			}
		}
		return s.Carts.Replace(ctx, userID, kept)
	}

	found := false
	for i := range lines {
		if lines[i].LineID == lineID {
			if lines[i].Category == model.CategoryGil {
				return errors.New("gil lines have a fixed quantity")
			}
			lines[i].Quantity = qty
			found = true
			break
		}
	}
	if !found {
		return errors.New("cart line not found")
	}
	return s.Carts.Replace(ctx, userID, lines)
}

// Clear empties the cart and persists the empty snapshot.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()
	return s.Carts.Replace(ctx, userID, []model.CartLine{})
}

// Get returns the cart with totals in both currencies.
func (s *CartService) Get(ctx context.Context, userID string) (*model.CartResponse, error) {
	lines, err := s.Carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildResponse(lines, nil)
}

// Load is the cart-view read: lines whose product is gone or out of stock
// are stripped, the pruned snapshot is persisted, and the removed line names
// are reported so the caller can surface a notice. Only a confirmed missing
// product prunes a line; a failed lookup aborts the load with the snapshot
// untouched so the caller can retry.
func (s *CartService) Load(ctx context.Context, userID string) (*model.CartResponse, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	lines, err := s.Carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := make([]model.CartLine, 0, len(lines))
	var removed []string
	for i := range lines {
		p, err := s.Products.GetByID(ctx, lines[i].ProductID)
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			removed = append(removed, lines[i].Name)
		case err != nil:
			s.Logger.Error("cart product lookup failed",
				zap.String("user", userID),
				zap.String("product", lines[i].ProductID),
				zap.Error(err))
			return nil, errors.New("could not load cart, try again")
		case !p.InStock:
			removed = append(removed, lines[i].Name)
		default:
			kept = append(kept, lines[i])
		}
	}

	if len(removed) > 0 {
		if err := s.Carts.Replace(ctx, userID, kept); err != nil {
			s.Logger.Error("cart prune persist failed", zap.String("user", userID), zap.Error(err))
			return nil, errors.New("could not save cart, try again")
		}
		s.Logger.Info("pruned stale cart lines",
			zap.String("user", userID),
			zap.Strings("removed", removed))
	}
	return buildResponse(kept, removed)
}

// GilDecrements collects the pending pool draws for checkout completion, one
// per gil line.
func GilDecrements(lines []model.CartLine) []model.GilDecrement {
	var out []model.GilDecrement
	for i := range lines {
		if lines[i].Category == model.CategoryGil {
			out = append(out, model.GilDecrement{
				ProductID: lines[i].ProductID,
				Amount:    lines[i].GilAmount,
			})
		}
	}
	return out
}

func buildResponse(lines []model.CartLine, removed []string) (*model.CartResponse, error) {
	totalBRL, err := TotalOf(lines, model.CurrencyBRL)
	if err != nil {
		return nil, err
	}
	totalUSD, err := TotalOf(lines, model.CurrencyUSD)
	if err != nil {
		return nil, err
	}
	return &model.CartResponse{
		Items:        lines,
		TotalBRL:     FormatPrice(totalBRL),
		TotalUSD:     FormatPrice(totalUSD),
		RemovedLines: removed,
	}, nil
}
