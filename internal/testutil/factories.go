package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/libao/libao-backend/internal/model"
	"github.com/libao/libao-backend/internal/repository"
)

// MakeID returns a fresh UUID string for test fixtures.
func MakeID() string {
	return uuid.New().String()
}

// StateBuilder provides a fluent interface for creating test portfolio
// states.
//
// Example usage:
//
//	state := testutil.NewState().
//	    WithCapital(1_000_000).
//	    WithCategory("G倉", "TW", 50).
//	    Build()
type StateBuilder struct {
	state model.PortfolioState
}

// NewState creates a StateBuilder with sensible defaults.
func NewState() *StateBuilder {
	return &StateBuilder{
		state: model.PortfolioState{
			TotalCapital: 1_000_000,
			Settings:     model.Settings{USDExchangeRate: 32},
			Categories:   []model.Category{},
			Transactions: []model.Transaction{},
			CapitalLogs:  []model.CapitalLog{},
			Martingale:   []model.Category{},
		},
	}
}

// WithCapital sets the total capital.
func (b *StateBuilder) WithCapital(capital float64) *StateBuilder {
	b.state.TotalCapital = capital
	return b
}

// WithUSDRate sets the USD/TWD exchange rate.
func (b *StateBuilder) WithUSDRate(rate float64) *StateBuilder {
	b.state.Settings.USDExchangeRate = rate
	return b
}

// WithCategory appends a personal category.
func (b *StateBuilder) WithCategory(name, market string, allocation float64) *StateBuilder {
	b.state.Categories = append(b.state.Categories, model.Category{
		ID:                MakeID(),
		Name:              name,
		Market:            model.Market(market),
		AllocationPercent: allocation,
		Assets:            []model.Asset{},
	})
	return b
}

// WithMartingaleCategory appends a martingale category.
func (b *StateBuilder) WithMartingaleCategory(name, market string, allocation float64) *StateBuilder {
	b.state.Martingale = append(b.state.Martingale, model.Category{
		ID:                MakeID(),
		Name:              name,
		Market:            model.Market(market),
		AllocationPercent: allocation,
		Assets:            []model.Asset{},
	})
	return b
}

// WithCapitalLog appends a capital log entry.
func (b *StateBuilder) WithCapitalLog(logType string, amount float64, date time.Time) *StateBuilder {
	b.state.CapitalLogs = append(b.state.CapitalLogs, model.CapitalLog{
		ID:     MakeID(),
		Type:   logType,
		Amount: amount,
		Date:   date,
	})
	return b
}

// Build returns the assembled state.
func (b *StateBuilder) Build() model.PortfolioState {
	return b.state
}

// Store persists the assembled state for a user and returns the saved copy.
func (b *StateBuilder) Store(t *testing.T, db *sql.DB, userID string) model.PortfolioState {
	t.Helper()

	repo := repository.NewPortfolioRepository(db)
	saved, err := repo.Save(userID, b.state)
	if err != nil {
		t.Fatalf("Failed to store test state: %v", err)
	}
	return saved
}

// SetRole assigns a role to a user in the test database.
func SetRole(t *testing.T, db *sql.DB, userID string, role model.Role) {
	t.Helper()

	if err := repository.NewRoleRepository(db).SetRole(userID, role); err != nil {
		t.Fatalf("Failed to set test role: %v", err)
	}
}

// SeedSymbol inserts symbol reference data for tests.
func SeedSymbol(t *testing.T, db *sql.DB, symbol, name, market, industry string) {
	t.Helper()

	err := repository.NewSymbolRepository(db).UpsertSymbol(model.SymbolInfo{
		Symbol:      symbol,
		Name:        name,
		Market:      model.Market(market),
		Industry:    industry,
		LastUpdated: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Failed to seed test symbol: %v", err)
	}
}
