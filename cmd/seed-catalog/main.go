package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/config"
	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/repository/postgres"
)

func main() {
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

	repos := postgres.NewRepositories(db, logger)

	products := []domain.Product{
		{
			Name:         "Овёс премиум",
			Specs:        "Мешок 20 кг, очищенный",
			Unit:         domain.UnitBag,
			BasePrice:    765,
			PremiumPrice: 650,
			ProPrice:     550,
			Stock:        120,
		},
		{
			Name:         "Премиум гранулы",
			Specs:        "Мешок 25 кг, люцерна и тимофеевка",
			Unit:         domain.UnitBag,
			BasePrice:    980,
			PremiumPrice: 880,
			ProPrice:     790,
			Stock:        80,
		},
		{
			Name:         "Льняное семя",
			Specs:        "Упаковка 5 кг",
			Unit:         domain.UnitPack,
			BasePrice:    450,
			PremiumPrice: 405,
			ProPrice:     360,
			Stock:        200,
		},
		{
			Name:         "Солевой лизунец",
			Specs:        "Брикет 3 кг с минералами",
			Unit:         domain.UnitPiece,
			BasePrice:    320,
			PremiumPrice: 290,
			ProPrice:     255,
			Stock:        150,
		},
		{
			Name:         "Премикс для жеребят",
			Specs:        "Ведро 10 кг",
			Unit:         domain.UnitPiece,
			BasePrice:    1200,
			PremiumPrice: 1080,
			ProPrice:     960,
			Stock:        40,
		},
		{
			Name:         "Травяные гранулы",
			Specs:        "Мешок 15 кг",
			Unit:         domain.UnitBag,
			BasePrice:    680,
			PremiumPrice: 610,
			ProPrice:     545,
			Stock:        90,
		},
	}

	created := 0
	for i := range products {
		products[i].ID = uuid.New()
		products[i].IsActive = true
		if err := repos.Product.Create(context.Background(), &products[i]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create %q: %v\n", products[i].Name, err)
			continue
		}
		created++
		fmt.Printf("Created %s (%d ₽)\n", products[i].Name, products[i].BasePrice)
	}

	fmt.Printf("\nSeeded %d of %d products\n", created, len(products))
}
