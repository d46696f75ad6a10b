package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/domain"
	perrors "github.com/akzshop/storeapi/pkg/errors"
)

type profileRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB, logger *zap.Logger) *profileRepository {
	return &profileRepository{
		db:     db,
		logger: logger,
	}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT user_id, phone, subscription, subscription_active,
		       address_city, address_street, address_house, address_apartment, address_index,
		       preferred_delivery, preferred_payment, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var p domain.Profile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.Phone,
		&p.Subscription,
		&p.SubscriptionActive,
		&p.Address.City,
		&p.Address.Street,
		&p.Address.House,
		&p.Address.Apartment,
		&p.Address.Index,
		&p.PreferredDelivery,
		&p.PreferredPayment,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &perrors.ErrNotFound{Resource: "profile", ID: userID.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get profile", zap.Error(err))
		return nil, err
	}

	return &p, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, phone, subscription, subscription_active,
		                      address_city, address_street, address_house, address_apartment, address_index,
		                      preferred_delivery, preferred_payment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	if profile.Subscription == "" {
		profile.Subscription = domain.SubscriptionFree
	}
	if profile.PreferredDelivery == "" {
		profile.PreferredDelivery = domain.DeliveryCourier
	}
	if profile.PreferredPayment == "" {
		profile.PreferredPayment = domain.PaymentCard
	}

	_, err := r.db.ExecContext(ctx, query,
		profile.UserID,
		profile.Phone,
		profile.Subscription,
		profile.SubscriptionActive,
		profile.Address.City,
		profile.Address.Street,
		profile.Address.House,
		profile.Address.Apartment,
		profile.Address.Index,
		profile.PreferredDelivery,
		profile.PreferredPayment,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create profile", zap.Error(err))
		return err
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET phone = $2,
		    address_city = $3, address_street = $4, address_house = $5,
		    address_apartment = $6, address_index = $7,
		    preferred_delivery = $8, preferred_payment = $9,
		    updated_at = $10
		WHERE user_id = $1
	`

	profile.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		profile.UserID,
		profile.Phone,
		profile.Address.City,
		profile.Address.Street,
		profile.Address.House,
		profile.Address.Apartment,
		profile.Address.Index,
		profile.PreferredDelivery,
		profile.PreferredPayment,
		profile.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update profile", zap.Error(err))
		return err
	}
	return nil
}

func (r *profileRepository) UpdateSubscription(ctx context.Context, userID uuid.UUID, tier domain.Subscription, active bool) error {
	query := `
		UPDATE profiles
		SET subscription = $2, subscription_active = $3, updated_at = $4
		WHERE user_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, userID, tier, active, time.Now())
	if err != nil {
		r.logger.Error("Failed to update subscription", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &perrors.ErrNotFound{Resource: "profile", ID: userID.String()}
	}
	return nil
}

type horseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHorseRepository creates a new horse repository
func NewHorseRepository(db *sql.DB, logger *zap.Logger) *horseRepository {
	return &horseRepository{
		db:     db,
		logger: logger,
	}
}

func (r *horseRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Horse, error) {
	query := `
		SELECT id, owner_id, name, breed, age, color, description, created_at
		FROM horses
		WHERE owner_id = $1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		r.logger.Error("Failed to list horses", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var horses []domain.Horse
	for rows.Next() {
		var h domain.Horse
		err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Breed, &h.Age, &h.Color, &h.Description, &h.CreatedAt)
		if err != nil {
			r.logger.Error("Failed to scan horse", zap.Error(err))
			continue
		}
		horses = append(horses, h)
	}

	return horses, rows.Err()
}

func (r *horseRepository) Create(ctx context.Context, horse *domain.Horse) error {
	query := `
		INSERT INTO horses (id, owner_id, name, breed, age, color, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if horse.ID == uuid.Nil {
		horse.ID = uuid.New()
	}
	if horse.CreatedAt.IsZero() {
		horse.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		horse.ID,
		horse.OwnerID,
		horse.Name,
		horse.Breed,
		horse.Age,
		horse.Color,
		horse.Description,
		horse.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create horse", zap.Error(err))
		return err
	}
	return nil
}
