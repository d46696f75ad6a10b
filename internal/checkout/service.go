// Package checkout drives the three-step order flow: cart, checkout form,
// confirmation. The current step lives in the session store so a reload
// lands the shopper where they left off.
package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/cache"
	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/pricing"
	"github.com/akzshop/storeapi/internal/repository"
	"github.com/akzshop/storeapi/internal/validate"
	perrors "github.com/akzshop/storeapi/pkg/errors"
)

// Step is where the shopper is in the flow
type Step string

const (
	StepCart         Step = "cart"
	StepCheckout     Step = "checkout"
	StepConfirmation Step = "confirmation"
)

// CartAccess is the slice of the cart service the flow needs
type CartAccess interface {
	Get(ctx context.Context, userID uuid.UUID, tier domain.Subscription) (*domain.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// State is what the checkout page renders
type State struct {
	Step    Step           `json:"step"`
	Form    Form           `json:"form"`
	Cart    *domain.Cart   `json:"cart"`
	Summary pricing.Result `json:"summary"`
}

type Service struct {
	carts    CartAccess
	repos    *repository.Repositories
	sessions cache.SessionStore
	logger   *zap.Logger
}

// NewService creates a new checkout service
func NewService(carts CartAccess, repos *repository.Repositories, sessions cache.SessionStore, logger *zap.Logger) *Service {
	return &Service{
		carts:    carts,
		repos:    repos,
		sessions: sessions,
		logger:   logger,
	}
}

// Begin moves the shopper from the cart to the checkout form. An empty cart
// cannot enter checkout. The form is pre-filled from the account and profile.
func (s *Service) Begin(ctx context.Context, userID uuid.UUID) (*State, error) {
	profile := s.profileOrDefault(ctx, userID)
	tier := profile.Tier()

	crt, err := s.carts.Get(ctx, userID, tier)
	if err != nil {
		return nil, err
	}
	if len(crt.Items) == 0 {
		return nil, &perrors.ErrEmptyCart{}
	}

	form := s.prefill(ctx, userID, profile)

	summary, err := pricing.Quote(crt.Items, tier, form.DeliveryMethod, "")
	if err != nil {
		return nil, err
	}

	s.setStep(ctx, userID, StepCheckout)

	return &State{
		Step:    StepCheckout,
		Form:    form,
		Cart:    crt,
		Summary: summary,
	}, nil
}

// Back returns the shopper to the cart step without losing the cart
func (s *Service) Back(ctx context.Context, userID uuid.UUID) {
	s.setStep(ctx, userID, StepCart)
}

// CurrentStep reports the persisted step, defaulting to the cart
func (s *Service) CurrentStep(ctx context.Context, userID uuid.UUID) Step {
	raw, err := s.sessions.GetCheckoutStep(ctx, userID.String())
	if err != nil {
		return StepCart
	}
	switch Step(raw) {
	case StepCheckout, StepConfirmation:
		return Step(raw)
	default:
		return StepCart
	}
}

// Submit validates the form and turns the cart into an order. The same
// idempotency key returns the order already created for it, so a double
// click cannot place two orders. On any failure the shopper stays on the
// checkout step with the cart intact.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, form Form, idempotencyKey string) (*domain.Order, error) {
	if idempotencyKey != "" {
		record, err := s.repos.Idempotency.Get(ctx, idempotencyKey, userID)
		if err == nil {
			s.logger.Info("Duplicate checkout submission",
				zap.String("user_id", userID.String()),
				zap.String("idempotency_key", idempotencyKey))
			return s.repos.Order.GetByID(ctx, record.OrderID)
		}
		var notFound *perrors.ErrNotFound
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if verr := ValidateForm(form); verr != nil {
		return nil, verr
	}

	profile := s.profileOrDefault(ctx, userID)
	tier := profile.Tier()

	crt, err := s.carts.Get(ctx, userID, tier)
	if err != nil {
		return nil, err
	}
	if len(crt.Items) == 0 {
		return nil, &perrors.ErrEmptyCart{}
	}

	promo := strings.ToUpper(strings.TrimSpace(form.PromoCode))
	summary, err := pricing.Quote(crt.Items, tier, form.DeliveryMethod, promo)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &domain.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderNumber: newOrderNumber(now),

		CustomerName:  strings.TrimSpace(form.CustomerName),
		CustomerPhone: validate.FormatPhone(form.CustomerPhone),
		CustomerEmail: strings.TrimSpace(form.CustomerEmail),

		DeliveryCity:      strings.TrimSpace(form.DeliveryCity),
		DeliveryStreet:    strings.TrimSpace(form.DeliveryStreet),
		DeliveryHouse:     strings.TrimSpace(form.DeliveryHouse),
		DeliveryApartment: strings.TrimSpace(form.DeliveryApartment),
		DeliveryIndex:     strings.TrimSpace(form.DeliveryIndex),

		DeliveryMethod: form.DeliveryMethod,
		PaymentMethod:  form.PaymentMethod,

		Subtotal:     summary.Subtotal,
		Discount:     summary.Discount,
		DeliveryCost: summary.DeliveryCost,
		AssemblyCost: summary.AssemblyCost,
		Total:        summary.Total,

		Status:              domain.OrderStatusPending,
		PromoCode:           promo,
		SubscriptionApplied: tier,
		SubscriptionSavings: summary.Subtotal * tier.DiscountPercent() / 100,

		CreatedAt: now,
		UpdatedAt: now,
	}

	items := make([]*domain.OrderItem, 0, len(crt.Items))
	for _, line := range crt.Items {
		items = append(items, &domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			CreatedAt: now,
		})
	}

	// the key is committed with the order, so a retry either finds the
	// record or finds nothing at all
	var idem *domain.IdempotencyKey
	if idempotencyKey != "" {
		idem = &domain.IdempotencyKey{
			Key:       idempotencyKey,
			UserID:    userID,
			OrderID:   order.ID,
			CreatedAt: now,
		}
	}

	if err := s.repos.Order.Create(ctx, order, items, idem); err != nil {
		if idempotencyKey != "" {
			// a concurrent submission may have won the key; hand back its order
			if record, getErr := s.repos.Idempotency.Get(ctx, idempotencyKey, userID); getErr == nil {
				return s.repos.Order.GetByID(ctx, record.OrderID)
			}
		}
		return nil, err
	}

	event := &domain.OrderEvent{
		ID:        uuid.New(),
		OrderID:   order.ID,
		EventType: "order_created",
		EventData: map[string]interface{}{
			"order_number": order.OrderNumber,
			"total":        order.Total,
			"items_count":  len(items),
		},
		CreatedAt: now,
	}
	if err := s.repos.OrderEvent.Create(ctx, event); err != nil {
		s.logger.Warn("Failed to record order event", zap.Error(err))
	}

	if form.SaveAddress {
		s.saveAddress(ctx, userID, form)
	}

	// the order exists from here on; cleanup failures are logged, not returned
	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart after order",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
	s.setStep(ctx, userID, StepConfirmation)

	s.logger.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.Int64("total", order.Total))

	return order, nil
}

// History lists the shopper's past orders, newest first
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Order, error) {
	return s.repos.Order.ListByUser(ctx, userID, limit)
}

// prefill builds the initial form from the account and profile
func (s *Service) prefill(ctx context.Context, userID uuid.UUID, profile *domain.Profile) Form {
	form := Form{
		CustomerPhone:     profile.Phone,
		DeliveryCity:      profile.Address.City,
		DeliveryStreet:    profile.Address.Street,
		DeliveryHouse:     profile.Address.House,
		DeliveryApartment: profile.Address.Apartment,
		DeliveryIndex:     profile.Address.Index,
		DeliveryMethod:    profile.PreferredDelivery,
		PaymentMethod:     profile.PreferredPayment,
	}
	if !form.DeliveryMethod.IsValid() {
		form.DeliveryMethod = domain.DeliveryCourier
	}
	if !form.PaymentMethod.IsValid() {
		form.PaymentMethod = domain.PaymentCard
	}

	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load user for checkout prefill", zap.Error(err))
		return form
	}
	form.CustomerName = user.FullName()
	form.CustomerEmail = user.Email
	return form
}

func (s *Service) profileOrDefault(ctx context.Context, userID uuid.UUID) *domain.Profile {
	profile, err := s.repos.Profile.GetByUserID(ctx, userID)
	if err != nil {
		var notFound *perrors.ErrNotFound
		if !errors.As(err, &notFound) {
			s.logger.Warn("Failed to load profile", zap.Error(err))
		}
		return &domain.Profile{UserID: userID, Subscription: domain.SubscriptionFree}
	}
	return profile
}

func (s *Service) saveAddress(ctx context.Context, userID uuid.UUID, form Form) {
	profile := s.profileOrDefault(ctx, userID)
	profile.Phone = validate.FormatPhone(form.CustomerPhone)
	profile.Address = domain.Address{
		City:      strings.TrimSpace(form.DeliveryCity),
		Street:    strings.TrimSpace(form.DeliveryStreet),
		House:     strings.TrimSpace(form.DeliveryHouse),
		Apartment: strings.TrimSpace(form.DeliveryApartment),
		Index:     strings.TrimSpace(form.DeliveryIndex),
	}
	profile.PreferredDelivery = form.DeliveryMethod
	profile.PreferredPayment = form.PaymentMethod

	if err := s.repos.Profile.Update(ctx, profile); err != nil {
		s.logger.Warn("Failed to save delivery address", zap.Error(err))
	}
}

func (s *Service) setStep(ctx context.Context, userID uuid.UUID, step Step) {
	if err := s.sessions.SetCheckoutStep(ctx, userID.String(), string(step)); err != nil {
		s.logger.Warn("Failed to persist checkout step", zap.Error(err))
	}
}

// newOrderNumber builds AKZ-YYYYMMDD-XXXXXX with a random hex suffix
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "AKZ-" + now.Format("20060102") + "-" + suffix
}
