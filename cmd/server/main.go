package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/libao/libao-backend/internal/api"
	"github.com/libao/libao-backend/internal/config"
	"github.com/libao/libao-backend/internal/database"
	"github.com/libao/libao-backend/internal/market"
	"github.com/libao/libao-backend/internal/repository"
	"github.com/libao/libao-backend/internal/scheduler"
	"github.com/libao/libao-backend/internal/secrets"
	"github.com/libao/libao-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Token encryption key; a generated key means stored tokens do not
	// survive a restart.
	fernetKey := cfg.Secrets.FernetKey
	if fernetKey == "" {
		fernetKey, err = secrets.GenerateKey()
		if err != nil {
			log.Fatalf("Failed to generate encryption key: %v", err)
		}
		log.Println("FERNET_KEY not set; using an ephemeral key for this run")
	}
	vault, err := secrets.NewVault(fernetKey)
	if err != nil {
		log.Fatalf("Failed to initialize token vault: %v", err)
	}

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	symbolRepo := repository.NewSymbolRepository(db)

	// Market data client
	marketClient := market.NewClient(cfg.Market.RequestTimeout)

	// Create services
	systemService := service.NewSystemService(db)
	portfolioService := service.NewPortfolioService(
		portfolioRepo,
		symbolRepo,
		vault,
	)
	quoteService := service.NewQuoteService(
		portfolioRepo,
		symbolRepo,
		portfolioService,
		marketClient,
		cfg.Market.BatchSize,
	)
	dividendService := service.NewDividendService(
		portfolioRepo,
		portfolioService,
		marketClient,
	)

	// Background price refresh
	sched := scheduler.New(portfolioRepo, quoteService)
	if err := sched.Start(cfg.Scheduler.PriceRefreshCron); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Create router
	router := api.NewRouter(systemService, portfolioService, quoteService, dividendService, roleRepo, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	sched.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
