package postgres

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/config"
	"github.com/akzshop/storeapi/internal/repository"
)

// NewConnection opens a postgres connection pool
func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewRepositories wires all postgres repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Product:     NewProductRepository(db, logger),
		Cart:        NewCartRepository(db, logger),
		Order:       NewOrderRepository(db, logger),
		User:        NewUserRepository(db, logger),
		Profile:     NewProfileRepository(db, logger),
		Horse:       NewHorseRepository(db, logger),
		Idempotency: NewIdempotencyRepository(db, logger),
		OrderEvent:  NewOrderEventRepository(db, logger),
	}
}
