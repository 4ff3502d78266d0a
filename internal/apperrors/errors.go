package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that no state document exists for the user.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrCategoryNotFound indicates that a category with the given id or name does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrAssetNotFound indicates that an asset for the given symbol does not exist in the category.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrCapitalLogNotFound indicates that a capital log entry with the given ID does not exist.
	ErrCapitalLogNotFound = errors.New("capital log entry not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors are raised before any mutation; the ledger is never left
// partially updated.
var (
	// ErrInsufficientShares indicates that a sell order asks for more shares
	// than the asset currently holds.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrNotLatestTransaction indicates an attempt to revoke a transaction that
	// is not the most recent one for its symbol and category. Reversing an
	// older transaction first would corrupt FIFO lot ordering for every newer
	// transaction on the same asset.
	ErrNotLatestTransaction = errors.New("only the latest transaction for a symbol and category can be revoked")

	// ErrUnknownTransactionType indicates a ledger entry whose type is not
	// BUY, SELL or DIVIDEND.
	ErrUnknownTransactionType = errors.New("unknown transaction type")

	// ErrStateConflict indicates a snapshot sync older than the stored state
	// (last-write-wins keeps the stored one).
	ErrStateConflict = errors.New("incoming state is older than stored state")

	// ErrForbidden indicates the caller's role does not permit the requested
	// operation on the martingale collection.
	ErrForbidden = errors.New("role does not permit this operation")

	// Validation errors for required fields.
	ErrInvalidUserID   = errors.New("user ID is required")
	ErrInvalidSymbol   = errors.New("symbol is required")
	ErrInvalidShares   = errors.New("shares must be a positive number")
	ErrInvalidPrice    = errors.New("price must be a positive number")
	ErrInvalidAmount   = errors.New("amount must be a positive number")
	ErrInvalidCategory = errors.New("category is required")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data.
var (
	ErrFailedToLoadPortfolio  = errors.New("failed to load portfolio state")
	ErrFailedToSavePortfolio  = errors.New("failed to save portfolio state")
	ErrFailedToRefreshPrices  = errors.New("failed to refresh prices")
	ErrFailedToScanDividends  = errors.New("failed to scan dividends")
	ErrFailedToGetSummary     = errors.New("failed to compute portfolio summary")
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies in the canonical state.
// These are recoverable: the repair flow can always rebuild holdings from
// the transaction log alone.
var (
	// ErrDataInconsistency indicates a state whose derived invariants no
	// longer hold (e.g. a transaction referencing a missing category).
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
