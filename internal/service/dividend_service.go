package service

import (
	"context"
	"log"
	"time"

	"github.com/libao/libao-backend/internal/apperrors"
	"github.com/libao/libao-backend/internal/ledger"
	"github.com/libao/libao-backend/internal/market"
	"github.com/libao/libao-backend/internal/model"
	"github.com/libao/libao-backend/internal/repository"
)

// DividendService scans the market for dividends paid on held positions and
// turns confirmed proposals into ledger records. A scan never writes
// anything; only an explicit confirmation touches the ledger.
type DividendService struct {
	portfolioRepo    *repository.PortfolioRepository
	portfolioService *PortfolioService
	client           *market.Client
}

// NewDividendService creates a new DividendService with the provided dependencies.
func NewDividendService(
	portfolioRepo *repository.PortfolioRepository,
	portfolioService *PortfolioService,
	client *market.Client,
) *DividendService {
	return &DividendService{
		portfolioRepo:    portfolioRepo,
		portfolioService: portfolioService,
		client:           client,
	}
}

// defaultScanWindow bounds how far back a scan looks for dividend events.
const defaultScanWindow = 365 * 24 * time.Hour

// ScanDividends fetches dividend events for every held position and returns
// proposals for the ones not yet recorded. The share count on each proposal
// is the position size on the ex-date, reconstructed from the transaction
// log.
func (s *DividendService) ScanDividends(ctx context.Context, userID string, role model.Role, since time.Time) ([]model.DividendProposal, error) {
	state, err := s.portfolioRepo.Load(userID)
	if err != nil {
		return nil, err
	}

	if since.IsZero() {
		since = time.Now().Add(-defaultScanWindow)
	}
	now := time.Now().UTC()

	client := s.client
	if token := s.portfolioService.MarketDataToken(userID); token != "" {
		client = client.WithToken(token)
	}

	names := ledger.MartingaleNames(&state)
	recorded := recordedDividends(state.Transactions)

	proposals := []model.DividendProposal{}

	scan := func(categories []model.Category, martingale bool) {
		for _, category := range categories {
			for _, asset := range category.Assets {
				events, err := client.Dividends(ctx, asset.Symbol, category.Market, since, now)
				if err != nil {
					log.Printf("dividend scan: %s: %v", asset.Symbol, err)
					continue
				}
				for _, event := range events {
					if recorded[dividendKey(asset.Symbol, event.ExDate)] {
						continue
					}
					shares := sharesOnDate(state.Transactions, names, asset.Symbol, category.Name, martingale, event.ExDate)
					if shares <= 0 {
						continue
					}
					gross := event.AmountPerShare * shares
					if category.Market == model.MarketUS && state.Settings.USDExchangeRate > 0 {
						gross *= state.Settings.USDExchangeRate
					}
					proposals = append(proposals, model.DividendProposal{
						Symbol:       asset.Symbol,
						Name:         asset.Name,
						CategoryName: category.Name,
						Date:         event.ExDate,
						RatePerShare: event.AmountPerShare,
						Shares:       shares,
						GrossAmount:  gross,
						IsMartingale: martingale,
					})
				}
			}
		}
	}

	scan(state.Categories, false)
	if role.CanViewMartingale() {
		scan(state.Martingale, true)
	}

	return proposals, nil
}

// ConfirmDividend records one accepted proposal in the ledger. Martingale
// dividends require the admin role.
func (s *DividendService) ConfirmDividend(
	userID string,
	role model.Role,
	proposal model.DividendProposal,
	tax float64,
) (model.PortfolioState, model.Transaction, error) {

	collection := ledger.Personal
	if proposal.IsMartingale {
		collection = ledger.Martingale
		if !role.CanEditMartingale() {
			return model.PortfolioState{}, model.Transaction{}, apperrors.ErrForbidden
		}
	}

	state, err := s.portfolioRepo.Load(userID)
	if err != nil {
		return model.PortfolioState{}, model.Transaction{}, err
	}

	next, tx, err := ledger.InsertDividend(state, collection, proposal, tax)
	if err != nil {
		return model.PortfolioState{}, model.Transaction{}, err
	}

	saved, err := s.portfolioRepo.Save(userID, next)
	if err != nil {
		return model.PortfolioState{}, model.Transaction{}, err
	}

	return filterForRole(saved, role), tx, nil
}

// dividendKey identifies a dividend by symbol and ex-date day.
func dividendKey(symbol string, date time.Time) string {
	return symbol + "@" + date.UTC().Format("2006-01-02")
}

// recordedDividends indexes the DIVIDEND records already in the ledger.
func recordedDividends(txs []model.Transaction) map[string]bool {
	recorded := make(map[string]bool)
	for _, tx := range txs {
		if tx.Type == model.TxDividend {
			recorded[dividendKey(tx.Symbol, tx.Date)] = true
		}
	}
	return recorded
}

// sharesOnDate reconstructs the share count held in one category on a given
// date by walking the transaction log.
func sharesOnDate(
	txs []model.Transaction,
	names map[string]bool,
	symbol, categoryName string,
	martingale bool,
	date time.Time,
) float64 {
	var shares float64
	for _, tx := range txs {
		if tx.Symbol != symbol || tx.CategoryName != categoryName {
			continue
		}
		if ledger.ClassifyMartingale(tx, names) != martingale {
			continue
		}
		if tx.Date.After(date) {
			continue
		}
		switch tx.Type {
		case model.TxBuy:
			shares += tx.Shares
		case model.TxSell:
			shares -= tx.Shares
		}
	}
	return shares
}
