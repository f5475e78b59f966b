package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"

	"go.uber.org/zap"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoCheckoutSession = errors.New("no checkout in progress")
	ErrWrongStep         = errors.New("operation not valid for current step")
)

// CheckoutStep is the position in the linear checkout flow.
type CheckoutStep int

const (
	StepAddress CheckoutStep = iota
	StepContact
	StepPayment
	StepReview
	StepCompleted
)

func (s CheckoutStep) String() string {
	switch s {
	case StepAddress:
		return "address"
	case StepContact:
		return "contact"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	case StepCompleted:
		return "completed"
	}
	return "unknown"
}

// CheckoutSession is the per-user state object for one pass through
// checkout. Created by Start, torn down on completion or abandonment.
type CheckoutSession struct {
	UserID   string              `json:"userId"`
	Email    string              `json:"email"`
	Step     CheckoutStep        `json:"-"`
	StepName string              `json:"step"`
	Address  *model.Address      `json:"address,omitempty"`
	Discord  string              `json:"discord,omitempty"`
	Currency model.Currency      `json:"currency,omitempty"`
	Method   model.PaymentMethod `json:"paymentMethod,omitempty"`
}

// ProfileStore is the slice of profile persistence checkout needs: the
// address and discord handle are saved as soon as the user leaves the
// matching step, not at order time.
type ProfileStore interface {
	SaveAddress(ctx context.Context, userID string, addr model.Address) error
	SaveDiscord(ctx context.Context, userID, discord string) error
}

// OrderPlacer runs the completion transaction: order insert, gil decrements
// and cart clear all-or-nothing.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, o *model.Order, decrements []model.GilDecrement) (string, error)
}

// OrderNotifier pushes a post-commit notification. Failures never undo the
// order; they are logged and swallowed.
type OrderNotifier interface {
	NotifyOrder(ctx context.Context, o *model.Order) error
}

// CheckoutService drives Address -> Contact -> PaymentSelection -> Review ->
// Completed. Back-navigation is free of side effects; every forward step
// re-runs its own validation.
type CheckoutService struct {
	Cart     *CartService
	Profiles ProfileStore
	Orders   OrderPlacer
	Notifier OrderNotifier
	Logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*CheckoutSession
	locks    map[string]*sync.Mutex
}

func NewCheckoutService(cart *CartService, ps ProfileStore, op OrderPlacer, n OrderNotifier, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		Cart:     cart,
		Profiles: ps,
		Orders:   op,
		Notifier: n,
		Logger:   logger,
		sessions: make(map[string]*CheckoutSession),
		locks:    make(map[string]*sync.Mutex),
	}
}

// userLock serializes step transitions for one user, the same scheme as the
// cart's write lock. Session fields are only touched while it is held.
func (s *CheckoutService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// Start opens a checkout session. Requires an authenticated user with a
// non-empty cart; stale lines are pruned first, exactly like the cart view.
func (s *CheckoutService) Start(ctx context.Context, userID, email string) (*CheckoutSession, error) {
	if userID == "" {
		return nil, errors.New("authentication required")
	}
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	cart, err := s.Cart.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	sess := &CheckoutSession{UserID: userID, Email: email, Step: StepAddress}
	sess.StepName = sess.Step.String()

	s.mu.Lock()
	s.sessions[userID] = sess
	s.mu.Unlock()
	return sess, nil
}

func (s *CheckoutService) session(userID string) (*CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoCheckoutSession
	}
	return sess, nil
}

// Current returns a snapshot of the session for inspection.
func (s *CheckoutService) Current(userID string) (*CheckoutSession, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	snap := *sess
	return &snap, nil
}

// Abandon tears the session down (leaving checkout, logout).
func (s *CheckoutService) Abandon(userID string) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

func validateAddress(a model.Address) error {
	missing := []string{}
	if strings.TrimSpace(a.Street) == "" {
		missing = append(missing, "street")
	}
	if strings.TrimSpace(a.Number) == "" {
		missing = append(missing, "number")
	}
	if strings.TrimSpace(a.Neighborhood) == "" {
		missing = append(missing, "neighborhood")
	}
	if strings.TrimSpace(a.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(a.State) == "" {
		missing = append(missing, "state")
	}
	if strings.TrimSpace(a.ZipCode) == "" {
		missing = append(missing, "zipCode")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SubmitAddress validates the address, saves it to the profile immediately,
// and advances to Contact.
func (s *CheckoutService) SubmitAddress(ctx context.Context, userID string, addr model.Address) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	sess, err := s.session(userID)
	if err != nil {
		return err
	}
	if sess.Step != StepAddress {
		return ErrWrongStep
	}
	if err := validateAddress(addr); err != nil {
		return err
	}
	if err := s.Profiles.SaveAddress(ctx, userID, addr); err != nil {
		s.Logger.Error("address save failed", zap.String("user", userID), zap.Error(err))
		return errors.New("could not save address, try again")
	}
	sess.Address = &addr
	sess.Step = StepContact
	sess.StepName = sess.Step.String()
	return nil
}

// SubmitContact validates the discord handle, saves it to the profile, and
// advances to PaymentSelection.
func (s *CheckoutService) SubmitContact(ctx context.Context, userID, discord string) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	sess, err := s.session(userID)
	if err != nil {
		return err
	}
	if sess.Step != StepContact {
		return ErrWrongStep
	}
	discord = strings.TrimSpace(discord)
	if discord == "" {
		return errors.New("discord handle is required")
	}
	if err := s.Profiles.SaveDiscord(ctx, userID, discord); err != nil {
		s.Logger.Error("discord save failed", zap.String("user", userID), zap.Error(err))
		return errors.New("could not save contact, try again")
	}
	sess.Discord = discord
	sess.Step = StepPayment
	sess.StepName = sess.Step.String()
	return nil
}

// SubmitPayment records currency and method in the session only; nothing is
// persisted until Review confirms.
func (s *CheckoutService) SubmitPayment(userID string, cur model.Currency, method model.PaymentMethod) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	sess, err := s.session(userID)
	if err != nil {
		return err
	}
	if sess.Step != StepPayment {
		return ErrWrongStep
	}
	if !cur.Valid() {
		return fmt.Errorf("unknown currency %q", cur)
	}
	if !method.Valid() {
		return fmt.Errorf("unknown payment method %q", method)
	}
	sess.Currency = cur
	sess.Method = method
	sess.Step = StepReview
	sess.StepName = sess.Step.String()
	return nil
}

// Back steps to the previous state with no side effects.
func (s *CheckoutService) Back(userID string) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	sess, err := s.session(userID)
	if err != nil {
		return err
	}
	if sess.Step == StepAddress || sess.Step == StepCompleted {
		return ErrWrongStep
	}
	sess.Step--
	sess.StepName = sess.Step.String()
	return nil
}

// Confirm executes the completion transaction from Review: re-validate every
// step's data, reload the live cart, recompute the total, then write the
// order + gil decrements + cart clear atomically. A stock conflict aborts
// with no order created.
func (s *CheckoutService) Confirm(ctx context.Context, userID string) (string, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	sess, err := s.session(userID)
	if err != nil {
		return "", err
	}
	if sess.Step != StepReview {
		return "", ErrWrongStep
	}

	// all step preconditions must still hold
	if sess.Address == nil {
		return "", errors.New("address is missing")
	}
	if err := validateAddress(*sess.Address); err != nil {
		return "", err
	}
	if strings.TrimSpace(sess.Discord) == "" {
		return "", errors.New("discord handle is required")
	}
	if !sess.Currency.Valid() || !sess.Method.Valid() {
		return "", errors.New("payment selection is incomplete")
	}

	// live cart, with the same stale-line pruning as the cart view
	cart, err := s.Cart.Load(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(cart.Items) == 0 {
		return "", ErrEmptyCart
	}

	total, err := TotalOf(cart.Items, sess.Currency)
	if err != nil {
		return "", err
	}

	items := make([]model.OrderItem, 0, len(cart.Items))
	for _, l := range cart.Items {
		items = append(items, model.OrderItem{
			ProductID:  l.ProductID,
			Name:       l.Name,
			Image:      l.Image,
			Category:   l.Category,
			PriceBRL:   l.PriceBRL,
			PriceUSD:   l.PriceUSD,
			Quantity:   l.Quantity,
			Job:        l.Job,
			StartLevel: l.StartLevel,
			EndLevel:   l.EndLevel,
			GilAmount:  l.GilAmount,
			TotalGil:   l.TotalGil,
		})
	}

	order := &model.Order{
		UserID:        userID,
		UserEmail:     sess.Email,
		Items:         items,
		Total:         FormatPrice(total),
		Currency:      sess.Currency,
		Address:       *sess.Address,
		Discord:       sess.Discord,
		PaymentMethod: sess.Method,
		Status:        model.StatusPending,
	}

	orderID, err := s.Orders.PlaceOrder(ctx, order, GilDecrements(cart.Items))
	if err != nil {
		s.Logger.Error("checkout completion failed",
			zap.String("user", userID), zap.Error(err))
		return "", err
	}

	if s.Notifier != nil {
		if nerr := s.Notifier.NotifyOrder(ctx, order); nerr != nil {
			// the order stands; the notification is outside the transaction
			s.Logger.Warn("order notification failed",
				zap.String("order", orderID), zap.Error(nerr))
		}
	}

	s.Logger.Info("order placed",
		zap.String("order", orderID),
		zap.String("user", userID),
		zap.String("total", order.Total),
		zap.String("currency", string(order.Currency)))

	s.Abandon(userID)
	return orderID, nil
}
