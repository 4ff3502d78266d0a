package ledger

import (
	"sort"

	"github.com/google/uuid"

	"github.com/libao/libao-backend/internal/model"
)

// Rebuild replays the full transaction history against empty category asset
// lists, reconstructing every holding and lot from the ledger alone. The
// live asset state is ignored entirely, which is what makes this the
// disaster-recovery path: any drift between derived state and the
// transaction log is erased by replacing the former with this
// reconstruction.
//
// DIVIDEND records are skipped (they never affected lots). Transactions
// apply in strict chronological order; records sharing a date apply in their
// original insertion order. Replay is idempotent: rebuilding twice from the
// same log yields the same state.
func Rebuild(state model.PortfolioState) model.PortfolioState {
	next := CloneState(state)

	for i := range next.Categories {
		next.Categories[i].Assets = nil
	}
	for i := range next.Martingale {
		next.Martingale[i].Assets = nil
	}

	// The log is stored most-recent-first; reversing it yields insertion
	// order, and the stable sort then keeps that order within equal dates.
	ordered := make([]model.Transaction, len(next.Transactions))
	for i, tx := range next.Transactions {
		ordered[len(next.Transactions)-1-i] = tx
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	names := MartingaleNames(&next)
	for _, tx := range ordered {
		if tx.Type == model.TxDividend {
			continue
		}

		collection := Personal
		if ClassifyMartingale(tx, names) {
			collection = Martingale
		}
		category := findCategoryByName(collectionOf(&next, collection), tx.CategoryName)
		if category == nil {
			// The category was deleted after the fact; its history cannot
			// be projected anywhere. Skip rather than fail the whole repair.
			continue
		}

		switch tx.Type {
		case model.TxBuy:
			replayBuy(category, tx)
		case model.TxSell:
			replaySell(category, tx)
		}
	}

	return next
}

// replayBuy re-applies a BUY record's lot insertion, reusing the recorded
// asset and lot ids so later replayed SELL/revoke references still resolve.
func replayBuy(category *model.Category, tx model.Transaction) {
	lotID := tx.LotID
	if lotID == "" {
		lotID = uuid.New().String()
	}
	lot := model.Lot{
		ID:           lotID,
		Date:         tx.Date,
		Shares:       tx.Shares,
		CostPerShare: tx.Price,
		ExchangeRate: tx.ExchangeRate,
	}

	asset := category.FindAsset(tx.Symbol)
	if asset == nil {
		id := tx.AssetID
		if id == "" {
			id = uuid.New().String()
		}
		category.Assets = append(category.Assets, model.Asset{
			ID:     id,
			Symbol: tx.Symbol,
			Name:   tx.Name,
			Lots:   []model.Lot{lot},
		})
		asset = &category.Assets[len(category.Assets)-1]
	} else {
		asset.Lots = insertLotSorted(asset.Lots, lot)
	}
	recomputeFromLots(asset)
}

// replaySell re-applies a SELL record's FIFO consumption. A sell that no
// longer matches a held asset (corrupted history) is skipped; consumption is
// capped at what the lots actually hold.
func replaySell(category *model.Category, tx model.Transaction) {
	asset := category.FindAsset(tx.Symbol)
	if asset == nil {
		return
	}

	toSell := tx.Shares
	if held, _ := totalLotShares(asset.Lots).Float64(); held < toSell {
		toSell = held
	}

	remaining, _ := consumeFIFO(asset.Lots, toSell)
	asset.Lots = remaining

	if totalLotShares(asset.Lots).LessThanOrEqual(sharesEpsilon) {
		category.RemoveAsset(asset.ID)
		return
	}
	recomputeFromLots(asset)
}
