package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/libao/libao-backend/internal/apperrors"
	"github.com/libao/libao-backend/internal/ledger"
	"github.com/libao/libao-backend/internal/model"
	"github.com/libao/libao-backend/internal/repository"
	"github.com/libao/libao-backend/internal/secrets"
)

// PortfolioService handles portfolio-related business logic operations.
// It owns the load-mutate-save cycle around the pure ledger functions: every
// mutation loads the snapshot, applies a ledger transition, and persists the
// returned state. A failed transition leaves the stored snapshot untouched.
type PortfolioService struct {
	portfolioRepo *repository.PortfolioRepository
	symbolRepo    *repository.SymbolRepository
	vault         *secrets.Vault
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	symbolRepo *repository.SymbolRepository,
	vault *secrets.Vault,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		symbolRepo:    symbolRepo,
		vault:         vault,
	}
}

// defaultState is what a user sees before their first save: an empty
// portfolio with no categories and no history.
func defaultState() model.PortfolioState {
	return model.PortfolioState{
		Settings:     model.Settings{USDExchangeRate: 32},
		Categories:   []model.Category{},
		Transactions: []model.Transaction{},
		CapitalLogs:  []model.CapitalLog{},
		Martingale:   []model.Category{},
	}
}

// load fetches the user's snapshot, substituting an empty default state for
// first-time users.
func (s *PortfolioService) load(userID string) (model.PortfolioState, error) {
	if strings.TrimSpace(userID) == "" {
		return model.PortfolioState{}, apperrors.ErrInvalidUserID
	}

	state, err := s.portfolioRepo.Load(userID)
	if err == apperrors.ErrPortfolioNotFound {
		return defaultState(), nil
	}
	if err != nil {
		return model.PortfolioState{}, err
	}
	return state, nil
}

// GetPortfolio returns the user's portfolio state, filtered for the caller's
// role. Viewers never receive the martingale collection or its transactions,
// and the stored market data token never leaves the server.
func (s *PortfolioService) GetPortfolio(userID string, role model.Role) (model.PortfolioState, error) {
	state, err := s.load(userID)
	if err != nil {
		return model.PortfolioState{}, err
	}

	return filterForRole(state, role), nil
}

// filterForRole strips the parts of the state the role may not see.
func filterForRole(state model.PortfolioState, role model.Role) model.PortfolioState {
	// Write-only secret: clients learn whether a token is set, not its value.
	if state.Settings.MarketDataToken != "" {
		state.Settings.MarketDataToken = "********"
	}

	if role.CanViewMartingale() {
		return state
	}

	names := ledger.MartingaleNames(&state)
	state.Martingale = nil

	visible := make([]model.Transaction, 0, len(state.Transactions))
	for _, tx := range state.Transactions {
		if ledger.ClassifyMartingale(tx, names) {
			continue
		}
		visible = append(visible, tx)
	}
	state.Transactions = visible

	return state
}

// SavePortfolio replaces the user's snapshot with the incoming one. An
// incoming state whose baseline is older than the stored snapshot is
// rejected with ErrStateConflict so a stale browser tab cannot silently
// clobber newer writes.
func (s *PortfolioService) SavePortfolio(userID string, incoming model.PortfolioState, role model.Role) (model.PortfolioState, error) {
	if strings.TrimSpace(userID) == "" {
		return model.PortfolioState{}, apperrors.ErrInvalidUserID
	}

	stored, storedErr := s.portfolioRepo.Load(userID)
	if storedErr != nil && storedErr != apperrors.ErrPortfolioNotFound {
		return model.PortfolioState{}, storedErr
	}

	if storedErr == nil {
		if !incoming.LastModified.IsZero() && incoming.LastModified.Before(stored.LastModified) {
			return stored, apperrors.ErrStateConflict
		}

		// The martingale collection only changes through admin operations.
		if !role.CanEditMartingale() {
			incoming.Martingale = stored.Martingale
		}

		incoming.Settings.MarketDataToken = s.carryToken(incoming.Settings.MarketDataToken, stored.Settings.MarketDataToken)
	} else {
		incoming.Settings.MarketDataToken = s.carryToken(incoming.Settings.MarketDataToken, "")
	}

	if len(incoming.CapitalLogs) > 0 {
		incoming.TotalCapital = model.TotalCapitalFromLogs(incoming.CapitalLogs)
	}

	return s.portfolioRepo.Save(userID, incoming)
}

// carryToken decides what token value to persist: the masked placeholder and
// the empty string both mean "keep what is stored"; anything else is a new
// plaintext token and gets encrypted.
func (s *PortfolioService) carryToken(incoming, stored string) string {
	if incoming == "" || incoming == "********" {
		return stored
	}
	if s.vault == nil {
		return stored
	}
	encrypted, err := s.vault.Encrypt(incoming)
	if err != nil {
		return stored
	}
	return encrypted
}

// MarketDataToken returns the decrypted market data token for a user, or the
// empty string when none is configured.
func (s *PortfolioService) MarketDataToken(userID string) string {
	state, err := s.load(userID)
	if err != nil || state.Settings.MarketDataToken == "" || s.vault == nil {
		return ""
	}
	plaintext, err := s.vault.Decrypt(state.Settings.MarketDataToken)
	if err != nil {
		return ""
	}
	return plaintext
}

// ExecuteOrder runs a buy or sell against one category and persists the
// resulting state. Martingale orders require the admin role.
func (s *PortfolioService) ExecuteOrder(
	userID string,
	role model.Role,
	collection ledger.Collection,
	categoryID string,
	order ledger.Order,
) (model.PortfolioState, model.Transaction, error) {

	if collection == ledger.Martingale && !role.CanEditMartingale() {
		return model.PortfolioState{}, model.Transaction{}, apperrors.ErrForbidden
	}

	state, err := s.load(userID)
	if err != nil {
		return model.PortfolioState{}, model.Transaction{}, err
	}

	next, tx, err := ledger.ExecuteOrder(state, collection, categoryID, order)
	if err != nil {
		return model.PortfolioState{}, model.Transaction{}, err
	}

	saved, err := s.portfolioRepo.Save(userID, next)
	if err != nil {
		return model.PortfolioState{}, model.Transaction{}, err
	}

	return filterForRole(saved, role), tx, nil
}

// RevokeTransaction exactly reverses one transaction and deletes its record.
// Revoking a martingale transaction requires the admin role.
func (s *PortfolioService) RevokeTransaction(userID string, role model.Role, txID string) (model.PortfolioState, error) {
	state, err := s.load(userID)
	if err != nil {
		return model.PortfolioState{}, err
	}

	if !role.CanEditMartingale() {
		for _, tx := range state.Transactions {
			if tx.ID == txID && ledger.ClassifyMartingale(tx, ledger.MartingaleNames(&state)) {
				return model.PortfolioState{}, apperrors.ErrForbidden
			}
		}
	}

	next, err := ledger.Revoke(state, txID)
	if err != nil {
		return model.PortfolioState{}, err
	}

	saved, err := s.portfolioRepo.Save(userID, next)
	if err != nil {
		return model.PortfolioState{}, err
	}

	return filterForRole(saved, role), nil
}

// RepairPortfolio rebuilds all holdings from the transaction log and persists
// the result. Safe to run at any time; a consistent ledger rebuilds to the
// same holdings it already has.
func (s *PortfolioService) RepairPortfolio(userID string, role model.Role) (model.PortfolioState, error) {
	state, err := s.load(userID)
	if err != nil {
		return model.PortfolioState{}, err
	}

	next := ledger.Rebuild(state)

	saved, err := s.portfolioRepo.Save(userID, next)
	if err != nil {
		return model.PortfolioState{}, err
	}

	return filterForRole(saved, role), nil
}

// GetSummary derives the full valuation view for a user. Martingale
// categories are included only for roles allowed to see them.
func (s *PortfolioService) GetSummary(userID string, role model.Role) (model.PortfolioSummary, error) {
	state, err := s.load(userID)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	industries, err := s.symbolRepo.IndustryMap()
	if err != nil {
		// Reference data is best-effort; the summary still renders without it.
		industries = nil
	}

	return ledger.Calculate(ledger.ValuationInput{
		State:             state,
		IncludeMartingale: role.CanViewMartingale(),
		Industries:        industries,
	}), nil
}

// AddCapitalLog appends a deposit or withdrawal and recomputes total capital
// from the full log.
func (s *PortfolioService) AddCapitalLog(userID string, role model.Role, entry model.CapitalLog) (model.PortfolioState, error) {
	if entry.Amount <= 0 {
		return model.PortfolioState{}, apperrors.ErrInvalidAmount
	}
	if entry.Type != model.CapitalDeposit && entry.Type != model.CapitalWithdraw {
		return model.PortfolioState{}, apperrors.ErrInvalidAmount
	}

	state, err := s.load(userID)
	if err != nil {
		return model.PortfolioState{}, err
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}

	state.CapitalLogs = append(state.CapitalLogs, entry)
	state.TotalCapital = model.TotalCapitalFromLogs(state.CapitalLogs)

	saved, err := s.portfolioRepo.Save(userID, state)
	if err != nil {
		return model.PortfolioState{}, err
	}
	return filterForRole(saved, role), nil
}

// DeleteCapitalLog removes one capital log entry and recomputes total capital.
func (s *PortfolioService) DeleteCapitalLog(userID string, role model.Role, entryID string) (model.PortfolioState, error) {
	state, err := s.load(userID)
	if err != nil {
		return model.PortfolioState{}, err
	}

	found := false
	kept := make([]model.CapitalLog, 0, len(state.CapitalLogs))
	for _, entry := range state.CapitalLogs {
		if entry.ID == entryID {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return model.PortfolioState{}, apperrors.ErrCapitalLogNotFound
	}

	state.CapitalLogs = kept
	state.TotalCapital = model.TotalCapitalFromLogs(state.CapitalLogs)

	saved, err := s.portfolioRepo.Save(userID, state)
	if err != nil {
		return model.PortfolioState{}, err
	}
	return filterForRole(saved, role), nil
}

// AddCategory creates a new capital-allocation category in the given
// collection. Martingale categories require the admin role.
func (s *PortfolioService) AddCategory(
	userID string,
	role model.Role,
	collection ledger.Collection,
	category model.Category,
) (model.PortfolioState, error) {

	if collection == ledger.Martingale && !role.CanEditMartingale() {
		return model.PortfolioState{}, apperrors.ErrForbidden
	}
	if strings.TrimSpace(category.Name) == "" {
		return model.PortfolioState{}, apperrors.ErrInvalidCategory
	}
	if category.AllocationPercent < 0 || category.AllocationPercent > 100 {
		return model.PortfolioState{}, apperrors.ErrInvalidAmount
	}

	state, err := s.load(userID)
	if err != nil {
		return model.PortfolioState{}, err
	}

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.Market == "" {
		category.Market = model.MarketTW
	}
	category.Assets = []model.Asset{}

	if collection == ledger.Martingale {
		state.Martingale = append(state.Martingale, category)
	} else {
		state.Categories = append(state.Categories, category)
	}

	saved, err := s.portfolioRepo.Save(userID, state)
	if err != nil {
		return model.PortfolioState{}, err
	}
	return filterForRole(saved, role), nil
}

// UpdateCategory changes a category's name, market or allocation. A rename
// rewrites the category name on the transactions that reference it so the
// history stays attached.
func (s *PortfolioService) UpdateCategory(
	userID string,
	role model.Role,
	collection ledger.Collection,
	update model.Category,
) (model.PortfolioState, error) {

	if collection == ledger.Martingale && !role.CanEditMartingale() {
		return model.PortfolioState{}, apperrors.ErrForbidden
	}
	if strings.TrimSpace(update.Name) == "" {
		return model.PortfolioState{}, apperrors.ErrInvalidCategory
	}
	if update.AllocationPercent < 0 || update.AllocationPercent > 100 {
		return model.PortfolioState{}, apperrors.ErrInvalidAmount
	}

	state, err := s.load(userID)
	if err != nil {
		return model.PortfolioState{}, err
	}

	categories := state.Categories
	if collection == ledger.Martingale {
		categories = state.Martingale
	}

	var target *model.Category
	for i := range categories {
		if categories[i].ID == update.ID {
			target = &categories[i]
			break
		}
	}
	if target == nil {
		return model.PortfolioState{}, apperrors.ErrCategoryNotFound
	}

	oldName := target.Name
	names := ledger.MartingaleNames(&state)

	target.Name = update.Name
	target.Market = update.Market
	target.AllocationPercent = update.AllocationPercent

	if oldName != update.Name {
		isMartingale := collection == ledger.Martingale
		for i := range state.Transactions {
			tx := &state.Transactions[i]
			if tx.CategoryName != oldName {
				continue
			}
			if ledger.ClassifyMartingale(*tx, names) != isMartingale {
				continue
			}
			tx.CategoryName = update.Name
		}
	}

	saved, err := s.portfolioRepo.Save(userID, state)
	if err != nil {
		return model.PortfolioState{}, err
	}
	return filterForRole(saved, role), nil
}

// DeleteCategory removes a category. Its transaction history is retained;
// revoking those records later simply deletes them from the ledger.
func (s *PortfolioService) DeleteCategory(
	userID string,
	role model.Role,
	collection ledger.Collection,
	categoryID string,
) (model.PortfolioState, error) {

	if collection == ledger.Martingale && !role.CanEditMartingale() {
		return model.PortfolioState{}, apperrors.ErrForbidden
	}

	state, err := s.load(userID)
	if err != nil {
		return model.PortfolioState{}, err
	}

	removed := false
	remove := func(categories []model.Category) []model.Category {
		kept := make([]model.Category, 0, len(categories))
		for _, c := range categories {
			if c.ID == categoryID {
				removed = true
				continue
			}
			kept = append(kept, c)
		}
		return kept
	}

	if collection == ledger.Martingale {
		state.Martingale = remove(state.Martingale)
	} else {
		state.Categories = remove(state.Categories)
	}
	if !removed {
		return model.PortfolioState{}, apperrors.ErrCategoryNotFound
	}

	saved, err := s.portfolioRepo.Save(userID, state)
	if err != nil {
		return model.PortfolioState{}, err
	}
	return filterForRole(saved, role), nil
}

// UpdateSettings replaces portfolio settings. A new market data token is
// encrypted before it is stored; a blank or masked token keeps the stored one.
func (s *PortfolioService) UpdateSettings(userID string, role model.Role, settings model.Settings) (model.PortfolioState, error) {
	if settings.USDExchangeRate <= 0 {
		return model.PortfolioState{}, apperrors.ErrInvalidAmount
	}

	state, err := s.load(userID)
	if err != nil {
		return model.PortfolioState{}, err
	}

	settings.MarketDataToken = s.carryToken(settings.MarketDataToken, state.Settings.MarketDataToken)
	state.Settings = settings

	saved, err := s.portfolioRepo.Save(userID, state)
	if err != nil {
		return model.PortfolioState{}, err
	}
	return filterForRole(saved, role), nil
}
