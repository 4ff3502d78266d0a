// Package scheduler runs the background price refresh on a cron schedule.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/libao/libao-backend/internal/repository"
	"github.com/libao/libao-backend/internal/service"
)

// Scheduler owns the cron runner for periodic jobs.
type Scheduler struct {
	cron          *cron.Cron
	portfolioRepo *repository.PortfolioRepository
	quoteService  *service.QuoteService
}

// New creates a Scheduler with the provided dependencies.
func New(portfolioRepo *repository.PortfolioRepository, quoteService *service.QuoteService) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		portfolioRepo: portfolioRepo,
		quoteService:  quoteService,
	}
}

// Start registers the price refresh job with the given cron spec and starts
// the runner in its own goroutine.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.refreshAllPrices); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("Scheduled price refresh: %s", spec)
	return nil
}

// Stop stops the cron runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// refreshAllPrices refreshes prices for every stored portfolio. Per-user
// failures are logged and do not stop the sweep.
func (s *Scheduler) refreshAllPrices() {
	users, err := s.portfolioRepo.ListUsers()
	if err != nil {
		log.Printf("scheduled price refresh: list users: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	for _, userID := range users {
		result, err := s.quoteService.RefreshPrices(ctx, userID)
		if err != nil {
			log.Printf("scheduled price refresh: user %s: %v", userID, err)
			continue
		}
		log.Printf("scheduled price refresh: user %s: %d assets updated, %d failed",
			userID, result.Updated, len(result.Failed))
	}
}
