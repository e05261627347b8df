package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamework/recognition-backend/api/routes"
	"github.com/gamework/recognition-backend/internal/config"
	"github.com/gamework/recognition-backend/internal/handlers"
	"github.com/gamework/recognition-backend/internal/repositories"
	"github.com/gamework/recognition-backend/internal/repositories/memory"
	mongorepo "github.com/gamework/recognition-backend/internal/repositories/mongodb"
	"github.com/gamework/recognition-backend/internal/services"
	"github.com/gamework/recognition-backend/pkg/mongodb"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env if present; real environments configure through the process env.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	var (
		userRepo        repositories.UserRepository
		eventTypeRepo   repositories.EventTypeRepository
		transactionRepo repositories.PointTransactionRepository
		prizeRepo       repositories.PrizeRepository
		redemptionRepo  repositories.RedemptionRepository
		txRunner        repositories.TxRunner
	)

	switch cfg.Store.Driver {
	case "mongodb":
		mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.WithError(err).Error("Error disconnecting from MongoDB")
			}
		}()

		db := mongoClient.Database(cfg.MongoDB.Database)
		users := mongorepo.NewUserRepository(db)
		redemptions := mongorepo.NewRedemptionRepository(db)

		indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := users.EnsureIndexes(indexCtx); err != nil {
			log.Fatalf("Failed to create user indexes: %v", err)
		}
		if err := redemptions.EnsureIndexes(indexCtx); err != nil {
			log.Fatalf("Failed to create redemption indexes: %v", err)
		}
		cancel()

		userRepo = users
		eventTypeRepo = mongorepo.NewEventTypeRepository(db)
		transactionRepo = mongorepo.NewPointTransactionRepository(db)
		prizeRepo = mongorepo.NewPrizeRepository(db)
		redemptionRepo = redemptions
		txRunner = mongorepo.NewTxRunner(mongoClient.Client())

	case "memory":
		log.Warn("Running against the in-memory store; all data is lost on shutdown")
		store := memory.NewStore()
		userRepo = store.Users()
		eventTypeRepo = store.EventTypes()
		transactionRepo = store.Transactions()
		prizeRepo = store.Prizes()
		redemptionRepo = store.Redemptions()
		txRunner = store

	default:
		log.Fatalf("Unknown store driver %q (expected \"mongodb\" or \"memory\")", cfg.Store.Driver)
	}

	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo)
	ledgerService := services.NewLedgerService(userRepo, eventTypeRepo, transactionRepo, txRunner)
	redemptionService := services.NewRedemptionService(userRepo, prizeRepo, transactionRepo, redemptionRepo, txRunner)
	catalogService := services.NewCatalogService(userRepo, prizeRepo)
	rankingService := services.NewRankingService(userRepo)
	eventTypeService := services.NewEventTypeService(userRepo, eventTypeRepo)

	handlerDeps := routes.HandlerDependencies{
		AuthHandler:       handlers.NewAuthHandler(authService),
		UserHandler:       handlers.NewUserHandler(userService, ledgerService),
		LedgerHandler:     handlers.NewLedgerHandler(ledgerService),
		PrizeHandler:      handlers.NewPrizeHandler(catalogService),
		RedemptionHandler: handlers.NewRedemptionHandler(redemptionService),
		RankingHandler:    handlers.NewRankingHandler(rankingService),
		EventTypeHandler:  handlers.NewEventTypeHandler(eventTypeService),
	}

	router := routes.SetupRouter(cfg, log, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Infof("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exiting")
}
