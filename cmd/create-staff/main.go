package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/akzshop/storeapi/internal/config"
	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/repository/postgres"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run cmd/create-staff/main.go <username> <email> <password>")
		os.Exit(1)
	}

	username := os.Args[1]
	email := os.Args[2]
	password := os.Args[3]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	repos := postgres.NewRepositories(db, logger)

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsStaff:      true,
		CreatedAt:    now,
	}

	if err := repos.User.Create(context.Background(), user); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
		os.Exit(1)
	}

	profile := &domain.Profile{
		UserID:       user.ID,
		Subscription: domain.SubscriptionFree,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repos.Profile.Create(context.Background(), profile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create profile: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Staff account created\n")
	fmt.Printf("User ID: %s\n", user.ID.String())
	fmt.Printf("Username: %s\n", user.Username)
}
