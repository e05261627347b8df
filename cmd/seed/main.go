// Command seed loads demo fixtures into the configured store: a small
// roster (one admin), the event type catalog and a starter prize catalog.
// Starting balances are granted through the ledger so the balance invariant
// holds from the first row. Seeding is explicit; the API never falls back to
// fixture data on its own.
package main

import (
	"context"
	"time"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/config"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/repositories"
	mongorepo "github.com/gamework/recognition-backend/internal/repositories/mongodb"
	"github.com/gamework/recognition-backend/internal/services"
	"github.com/gamework/recognition-backend/pkg/mongodb"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	name       string
	email      string
	department string
	password   string
	isAdmin    bool
	points     int
}

var seedUsers = []seedUser{
	{"Demo Admin", "admin@gamework.com", "Administration", "admin123", true, 0},
	{"Demo User", "user@gamework.com", "Sales", "password123", false, 300},
	{"Ana Silva", "ana.silva@gamework.com", "Sales", "password123", false, 1250},
	{"Carlos Santos", "carlos.santos@gamework.com", "Marketing", "password123", false, 980},
	{"Maria Costa", "maria.costa@gamework.com", "IT", "password123", false, 1450},
	{"Fernanda Lima", "fernanda.lima@gamework.com", "HR", "password123", false, 750},
}

var seedEventTypes = []models.EventType{
	{Key: "sale", Title: "Closed sale", Points: 100, Active: true},
	{Key: "training", Title: "Training session attended", Points: 50, Active: true},
	{Key: "monthly-goal", Title: "Monthly goal reached", Points: 200, Active: true, MaxPerDay: 1},
	{Key: "task", Title: "Task completed", Points: 25, Active: true, MaxPerDay: 5},
	{Key: "check-in", Title: "Daily check-in", Points: 10, Active: true, MaxPerDay: 1},
}

var seedPrizes = []models.Prize{
	{Name: "Amazon Gift Card", Description: "Gift card for online purchases, valid for 12 months.", PointsCost: 500, QuantityAvailable: 10, Active: true},
	{Name: "Premium Bluetooth Headphones", Description: "Wireless headphones with noise cancellation.", PointsCost: 800, QuantityAvailable: 5, Active: true},
	{Name: "RGB Gaming Mouse", Description: "Ergonomic mouse with customizable RGB lighting.", PointsCost: 300, QuantityAvailable: 15, Active: true},
	{Name: "Spa Day Voucher", Description: "A relaxing day at the spa with massage and treatments.", PointsCost: 1200, QuantityAvailable: 3, Active: true},
	{Name: "Ergonomic Desk Kit", Description: "Keyboard, ergonomic mouse pad and notebook stand.", PointsCost: 600, QuantityAvailable: 12, Active: true},
}

func main() {
	_ = godotenv.Load()

	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	db := mongoClient.Database(cfg.MongoDB.Database)
	userRepo := mongorepo.NewUserRepository(db)
	eventTypeRepo := mongorepo.NewEventTypeRepository(db)
	transactionRepo := mongorepo.NewPointTransactionRepository(db)
	prizeRepo := mongorepo.NewPrizeRepository(db)
	txRunner := mongorepo.NewTxRunner(mongoClient.Client())

	userService := services.NewUserService(userRepo)
	ledgerService := services.NewLedgerService(userRepo, eventTypeRepo, transactionRepo, txRunner)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}

	// The admin account has to exist first: roster creation and point grants
	// are admin operations.
	admin, err := ensureAdmin(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	for _, su := range seedUsers[1:] {
		if _, err := userRepo.FindByEmail(ctx, su.email); err == nil {
			log.Infof("user %s already present, skipping", su.email)
			continue
		} else if !apperr.IsNotFound(err) {
			log.Fatalf("Failed to check user %s: %v", su.email, err)
		}

		user, err := userService.CreateUser(ctx, admin.ID, &models.CreateUserRequest{
			Name:       su.name,
			Email:      su.email,
			Department: su.department,
			Password:   su.password,
			IsAdmin:    su.isAdmin,
		})
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", su.email, err)
		}

		if su.points > 0 {
			_, _, err = ledgerService.AddTransaction(ctx, admin.ID, services.AddTransactionInput{
				UserID:      user.ID,
				Points:      su.points,
				Description: "Starting balance",
			})
			if err != nil {
				log.Fatalf("Failed to grant starting balance to %s: %v", su.email, err)
			}
		}
		log.Infof("seeded user %s with %d points", su.email, su.points)
	}

	for i := range seedEventTypes {
		eventType := seedEventTypes[i]
		if _, err := eventTypeRepo.FindByKey(ctx, eventType.Key); err == nil {
			log.Infof("event type %s already present, skipping", eventType.Key)
			continue
		} else if !apperr.IsNotFound(err) {
			log.Fatalf("Failed to check event type %s: %v", eventType.Key, err)
		}
		if err := eventTypeRepo.Create(ctx, &eventType); err != nil {
			log.Fatalf("Failed to create event type %s: %v", eventType.Key, err)
		}
		log.Infof("seeded event type %s", eventType.Key)
	}

	existing, err := prizeRepo.FindAll(ctx)
	if err != nil {
		log.Fatalf("Failed to list prizes: %v", err)
	}
	if len(existing) > 0 {
		log.Infof("catalog already has %d prizes, skipping prize seed", len(existing))
		return
	}
	for i := range seedPrizes {
		prize := seedPrizes[i]
		if err := prizeRepo.Create(ctx, &prize); err != nil {
			log.Fatalf("Failed to create prize %s: %v", prize.Name, err)
		}
		log.Infof("seeded prize %s", prize.Name)
	}
}

func ensureAdmin(ctx context.Context, users repositories.UserRepository) (*models.User, error) {
	su := seedUsers[0]
	if admin, err := users.FindByEmail(ctx, su.email); err == nil {
		return admin, nil
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		Name:         su.name,
		Email:        su.email,
		Department:   su.department,
		IsAdmin:      true,
		PasswordHash: string(hash),
	}
	if err := users.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}
