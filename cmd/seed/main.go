package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"cardpolicy/internal/auth"
	"cardpolicy/internal/config"
	"cardpolicy/internal/db"
	domainerrors "cardpolicy/internal/errors"
	"cardpolicy/internal/model"
	"cardpolicy/internal/repository"
)

// defaultLifetimeLimitCents is the spend limit every seeded card starts with.
const defaultLifetimeLimitCents = 100000

func main() {
	cardholder := flag.String("cardholder", "", "cardholder id on the card network (required)")
	networkID := flag.String("card", "", "card id on the card network (required)")
	last4 := flag.String("last4", "", "last four digits of the card number")
	tokenTTL := flag.Duration("token-ttl", auth.AccessTokenExpiry, "lifetime of the printed dashboard token")
	flag.Parse()

	if *cardholder == "" || *networkID == "" {
		flag.Usage()
		log.Fatal("-cardholder and -card are required")
	}

	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	cardRepo := repository.NewCardRepository(gormDB)
	ruleRepo := repository.NewRuleRepository(gormDB)

	card, err := cardRepo.FindByNetworkID(ctx, *networkID)
	switch {
	case errors.Is(err, domainerrors.ErrCardNotFound):
		card = &model.Card{
			CardholderID: *cardholder,
			NetworkID:    *networkID,
			Status:       model.CardStatusActive,
			Last4:        *last4,
		}
		if err := cardRepo.Create(ctx, card); err != nil {
			log.Fatalf("Failed to create card: %v", err)
		}

		limit := int64(defaultLifetimeLimitCents)
		window := model.WindowLifetime
		rule := &model.Rule{
			CardID:          card.ID,
			Kind:            model.RuleKindSpendLimit,
			SpendLimitCents: &limit,
			SpendInterval:   &window,
		}
		if err := ruleRepo.Create(ctx, rule); err != nil {
			log.Fatalf("Failed to create default rule: %v", err)
		}
		log.Printf("Created card %s with a LIFETIME limit of %d cents", card.ID, limit)
	case err != nil:
		log.Fatalf("Failed to look up card: %v", err)
	default:
		log.Printf("Card %s already exists, skipping", card.ID)
	}

	token, err := auth.NewJWTService(cfg.JWTSecret).GenerateAccessToken(card.CardholderID, *tokenTTL)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Printf("card_id=%s\nbearer_token=%s\nexpires_at=%s\n",
		card.ID, token, time.Now().Add(*tokenTTL).UTC().Format(time.RFC3339))
}
