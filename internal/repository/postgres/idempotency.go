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

type idempotencyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewIdempotencyRepository creates a new idempotency key repository
func NewIdempotencyRepository(db *sql.DB, logger *zap.Logger) *idempotencyRepository {
	return &idempotencyRepository{
		db:     db,
		logger: logger,
	}
}

func (r *idempotencyRepository) Get(ctx context.Context, key string, userID uuid.UUID) (*domain.IdempotencyKey, error) {
	query := `
		SELECT key, user_id, order_id, created_at
		FROM idempotency_keys
		WHERE key = $1 AND user_id = $2
	`

	var record domain.IdempotencyKey
	err := r.db.QueryRowContext(ctx, query, key, userID).Scan(
		&record.Key,
		&record.UserID,
		&record.OrderID,
		&record.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &perrors.ErrNotFound{Resource: "idempotency key", ID: key}
	}
	if err != nil {
		r.logger.Error("Failed to get idempotency key", zap.Error(err))
		return nil, err
	}

	return &record, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, record *domain.IdempotencyKey) error {
	query := `
		INSERT INTO idempotency_keys (key, user_id, order_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query, record.Key, record.UserID, record.OrderID, record.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create idempotency key", zap.Error(err))
		return err
	}
	return nil
}
