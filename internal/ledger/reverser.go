package ledger

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/libao/libao-backend/internal/apperrors"
	"github.com/libao/libao-backend/internal/model"
)

// Revoke undoes a transaction: the asset and lot state is reconstructed as
// if the transaction had never occurred, then the record is deleted from the
// log. The input state is never mutated; a returned error means nothing
// happened.
//
// Ordering invariant: only the most recent transaction for a given
// (symbol, categoryName) pair may be revoked. A transaction sharing its
// timestamp with the latest is allowed through, accommodating multiple
// same-day trades whose stored dates are equal.
//
// Missing references (asset already gone when reversing a BUY, category no
// longer present) do not block the revoke: the record is still removed so
// legacy or corrupted states stay recoverable, and a full replay remains
// available as the authoritative repair path.
func Revoke(state model.PortfolioState, txID string) (model.PortfolioState, error) {
	next := CloneState(state)

	txIdx := -1
	for i, t := range next.Transactions {
		if t.ID == txID {
			txIdx = i
			break
		}
	}
	if txIdx < 0 {
		return state, apperrors.ErrTransactionNotFound
	}
	tx := next.Transactions[txIdx]

	for _, other := range next.Transactions {
		if other.ID == tx.ID || other.Symbol != tx.Symbol || other.CategoryName != tx.CategoryName {
			continue
		}
		if other.Date.After(tx.Date) {
			return state, fmt.Errorf("%w: a newer %s transaction dated %s exists for %s in %s",
				apperrors.ErrNotLatestTransaction, other.Type,
				other.Date.Format("2006-01-02"), tx.Symbol, tx.CategoryName)
		}
	}

	collection := Personal
	if ClassifyMartingale(tx, MartingaleNames(&next)) {
		collection = Martingale
	}
	category := findCategoryByName(collectionOf(&next, collection), tx.CategoryName)

	if category != nil {
		switch tx.Type {
		case model.TxBuy:
			reverseBuy(category, tx)
		case model.TxSell:
			reverseSell(category, tx)
		case model.TxDividend:
			// Dividends never touched lots; deleting the record is the
			// whole reversal.
		default:
			return state, fmt.Errorf("%w: %q", apperrors.ErrUnknownTransactionType, tx.Type)
		}
	}

	next.Transactions = append(next.Transactions[:txIdx], next.Transactions[txIdx+1:]...)
	return next, nil
}

// reverseBuy removes the lot the BUY created. If the asset is already gone
// the reversal is a no-op; the record is still deleted by the caller.
func reverseBuy(category *model.Category, tx model.Transaction) {
	asset := category.FindAssetByID(tx.AssetID)
	if asset == nil {
		asset = category.FindAsset(tx.Symbol)
	}
	if asset == nil {
		return
	}

	removed := false
	if tx.LotID != "" {
		for i := range asset.Lots {
			if asset.Lots[i].ID == tx.LotID {
				asset.Lots = append(asset.Lots[:i], asset.Lots[i+1:]...)
				removed = true
				break
			}
		}
	}
	if !removed && len(asset.Lots) > 0 {
		// Legacy records lack a lot id; drop the most recently dated lot,
		// which is what the BUY being reversed inserted last.
		newest := 0
		for i := range asset.Lots {
			if asset.Lots[i].Date.After(asset.Lots[newest].Date) ||
				asset.Lots[i].Date.Equal(asset.Lots[newest].Date) {
				newest = i
			}
		}
		asset.Lots = append(asset.Lots[:newest], asset.Lots[newest+1:]...)
	}

	remaining := dec(asset.Shares).Sub(dec(tx.Shares))
	if remaining.LessThanOrEqual(sharesEpsilon) {
		category.RemoveAsset(asset.ID)
		return
	}
	recomputeFromLots(asset)
	// Shares follows the record, not the lots: the legacy fallback above may
	// have removed a differently sized lot. On the exact-lot path the two
	// are equal.
	asset.Shares, _ = remaining.Float64()
}

// reverseSell reinserts the lot the SELL consumed, reconstructing the exact
// original-currency cost per share from the TWD cost basis recorded on the
// transaction:
//
//	restoredCostPerShare = (originalCostTWD / shares) / exchangeRate
//
// If the position was fully closed after the sale the asset is recreated.
func reverseSell(category *model.Category, tx model.Transaction) {
	restoredCost := tx.Price
	if tx.OriginalCostTWD != nil && tx.Shares > 0 && tx.ExchangeRate > 0 {
		restoredCost, _ = dec(*tx.OriginalCostTWD).Div(dec(tx.Shares)).Div(dec(tx.ExchangeRate)).Float64()
	}

	lot := model.Lot{
		ID:           uuid.New().String(),
		Date:         tx.Date,
		Shares:       tx.Shares,
		CostPerShare: restoredCost,
		ExchangeRate: tx.ExchangeRate,
	}

	asset := category.FindAssetByID(tx.AssetID)
	if asset == nil {
		asset = category.FindAsset(tx.Symbol)
	}
	if asset == nil {
		id := tx.AssetID
		if id == "" {
			id = uuid.New().String()
		}
		category.Assets = append(category.Assets, model.Asset{
			ID:     id,
			Symbol: tx.Symbol,
			Name:   tx.Name,
		})
		asset = &category.Assets[len(category.Assets)-1]
	}

	asset.Lots = insertLotSorted(asset.Lots, lot)
	recomputeFromLots(asset)
}
