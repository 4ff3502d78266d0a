package service

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/libao/libao-backend/internal/market"
	"github.com/libao/libao-backend/internal/model"
	"github.com/libao/libao-backend/internal/repository"
)

// QuoteService refreshes current prices for every held asset. Fetches run
// concurrently with a bounded batch size; a symbol whose fetch fails keeps
// its last known price so one flaky upstream response never blanks the
// portfolio view.
type QuoteService struct {
	portfolioRepo    *repository.PortfolioRepository
	symbolRepo       *repository.SymbolRepository
	portfolioService *PortfolioService
	client           *market.Client
	batchSize        int
}

// NewQuoteService creates a new QuoteService with the provided dependencies.
func NewQuoteService(
	portfolioRepo *repository.PortfolioRepository,
	symbolRepo *repository.SymbolRepository,
	portfolioService *PortfolioService,
	client *market.Client,
	batchSize int,
) *QuoteService {
	if batchSize <= 0 {
		batchSize = 5
	}
	return &QuoteService{
		portfolioRepo:    portfolioRepo,
		symbolRepo:       symbolRepo,
		portfolioService: portfolioService,
		client:           client,
		batchSize:        batchSize,
	}
}

// RefreshResult reports the outcome of one price refresh pass.
type RefreshResult struct {
	Updated         int       `json:"updated"`
	Failed          []string  `json:"failed,omitempty"`
	USDExchangeRate float64   `json:"usdExchangeRate"`
	RefreshedAt     time.Time `json:"refreshedAt"`
}

// symbolRef is one unique symbol to fetch, with the market it trades on.
type symbolRef struct {
	symbol string
	market model.Market
}

// RefreshPrices fetches current quotes for every held asset in both
// collections and the USD/TWD rate, then persists the updated snapshot.
func (s *QuoteService) RefreshPrices(ctx context.Context, userID string) (RefreshResult, error) {
	state, err := s.portfolioRepo.Load(userID)
	if err != nil {
		return RefreshResult{}, err
	}

	refs := collectSymbols(&state)

	client := s.client
	if token := s.portfolioService.MarketDataToken(userID); token != "" {
		client = client.WithToken(token)
	}

	var (
		mu     sync.Mutex
		quotes = make(map[string]market.Quote, len(refs))
		failed []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchSize)

	for _, ref := range refs {
		g.Go(func() error {
			quote, err := client.Quote(gctx, ref.symbol, ref.market)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("price refresh: %s: %v", ref.symbol, err)
				failed = append(failed, ref.symbol)
				return nil
			}
			quotes[ref.symbol] = quote
			return nil
		})
	}

	rate, rateErr := client.USDExchangeRate(ctx)

	if err := g.Wait(); err != nil {
		return RefreshResult{}, err
	}

	updated := applyQuotes(&state, quotes)
	if rateErr == nil && rate > 0 {
		state.Settings.USDExchangeRate = rate
	} else if rateErr != nil {
		log.Printf("price refresh: USD/TWD rate: %v", rateErr)
	}

	saved, err := s.portfolioRepo.Save(userID, state)
	if err != nil {
		return RefreshResult{}, err
	}

	s.storeSymbolInfo(refs, quotes)

	return RefreshResult{
		Updated:         updated,
		Failed:          failed,
		USDExchangeRate: saved.Settings.USDExchangeRate,
		RefreshedAt:     saved.LastModified,
	}, nil
}

// collectSymbols returns the unique held symbols across both collections.
func collectSymbols(state *model.PortfolioState) []symbolRef {
	seen := make(map[string]bool)
	var refs []symbolRef
	for _, categories := range [][]model.Category{state.Categories, state.Martingale} {
		for _, category := range categories {
			for _, asset := range category.Assets {
				if seen[asset.Symbol] {
					continue
				}
				seen[asset.Symbol] = true
				refs = append(refs, symbolRef{symbol: asset.Symbol, market: category.Market})
			}
		}
	}
	return refs
}

// applyQuotes writes fetched prices onto every matching asset and returns the
// number of assets updated. Symbols without a fresh quote keep their price.
func applyQuotes(state *model.PortfolioState, quotes map[string]market.Quote) int {
	updated := 0
	for _, categories := range [][]model.Category{state.Categories, state.Martingale} {
		for i := range categories {
			for j := range categories[i].Assets {
				asset := &categories[i].Assets[j]
				quote, ok := quotes[asset.Symbol]
				if !ok || quote.Price <= 0 {
					continue
				}
				asset.CurrentPrice = quote.Price
				if asset.Name == "" && quote.Name != "" {
					asset.Name = quote.Name
				}
				updated++
			}
		}
	}
	return updated
}

// storeSymbolInfo refreshes the reference table with fetched names. Industry
// assignments are preserved; the quote feed does not carry them.
func (s *QuoteService) storeSymbolInfo(refs []symbolRef, quotes map[string]market.Quote) {
	for _, ref := range refs {
		quote, ok := quotes[ref.symbol]
		if !ok {
			continue
		}
		info, err := s.symbolRepo.GetSymbol(ref.symbol)
		if err != nil {
			info = model.SymbolInfo{Symbol: ref.symbol, Market: ref.market}
		}
		if quote.Name != "" {
			info.Name = quote.Name
		}
		info.LastUpdated = time.Now().UTC()
		if err := s.symbolRepo.UpsertSymbol(info); err != nil {
			log.Printf("price refresh: store symbol %s: %v", ref.symbol, err)
		}
	}
}
