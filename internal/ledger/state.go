package ledger

import "github.com/libao/libao-backend/internal/model"

// Collection selects which category collection an operation targets.
type Collection string

// Category collections within a portfolio state.
const (
	Personal   Collection = "personal"
	Martingale Collection = "martingale"
)

// cloneLots returns a deep copy of the lot slice.
func cloneLots(lots []model.Lot) []model.Lot {
	if lots == nil {
		return nil
	}
	out := make([]model.Lot, len(lots))
	copy(out, lots)
	return out
}

// cloneAssets returns a deep copy of the asset slice, lots included.
func cloneAssets(assets []model.Asset) []model.Asset {
	if assets == nil {
		return nil
	}
	out := make([]model.Asset, len(assets))
	for i, a := range assets {
		a.Lots = cloneLots(a.Lots)
		out[i] = a
	}
	return out
}

// cloneCategories returns a deep copy of the category slice.
func cloneCategories(categories []model.Category) []model.Category {
	if categories == nil {
		return nil
	}
	out := make([]model.Category, len(categories))
	for i, c := range categories {
		c.Assets = cloneAssets(c.Assets)
		out[i] = c
	}
	return out
}

// cloneTransactions returns a copy of the transaction log. Records are
// immutable so the entries themselves are shared.
func cloneTransactions(txs []model.Transaction) []model.Transaction {
	if txs == nil {
		return nil
	}
	out := make([]model.Transaction, len(txs))
	copy(out, txs)
	return out
}

// CloneState deep-copies a portfolio state. Every ledger operation works on
// a clone so a rejected operation leaves the caller's snapshot untouched and
// no mutation ever partially applies.
func CloneState(state model.PortfolioState) model.PortfolioState {
	state.Categories = cloneCategories(state.Categories)
	state.Martingale = cloneCategories(state.Martingale)
	state.Transactions = cloneTransactions(state.Transactions)
	if state.CapitalLogs != nil {
		logs := make([]model.CapitalLog, len(state.CapitalLogs))
		copy(logs, state.CapitalLogs)
		state.CapitalLogs = logs
	}
	return state
}

// collectionOf returns the requested category slice of a state.
func collectionOf(state *model.PortfolioState, c Collection) []model.Category {
	if c == Martingale {
		return state.Martingale
	}
	return state.Categories
}

// findCategoryByID locates a category by id within one collection.
func findCategoryByID(categories []model.Category, id string) *model.Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}

// findCategoryByName locates a category by name within one collection.
func findCategoryByName(categories []model.Category, name string) *model.Category {
	for i := range categories {
		if categories[i].Name == name {
			return &categories[i]
		}
	}
	return nil
}

// MartingaleNames returns the set of martingale category names, the lookup
// table the legacy classification heuristic matches against.
func MartingaleNames(state *model.PortfolioState) map[string]bool {
	names := make(map[string]bool, len(state.Martingale))
	for _, c := range state.Martingale {
		names[c.Name] = true
	}
	return names
}
