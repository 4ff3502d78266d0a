// Package ledger implements the lot-based cost-basis engine: trade
// execution, transaction reversal, full-history replay, and the valuation
// pass. All functions are pure state transitions; the caller owns the
// current snapshot and persistence. Share and cost arithmetic runs on
// decimals internally so repeated partial lot consumption does not compound
// floating-point error; float64 appears only at the model boundary.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/libao/libao-backend/internal/model"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// sharesEpsilon absorbs float residue when deciding whether a position has
// been fully closed. US fractional shares make exact zero comparisons
// unreliable once values round-trip through the JSON document.
var sharesEpsilon = decimal.New(1, -9) // 1e-9

// insertLotSorted inserts a lot keeping the slice ordered by acquisition
// date ascending. A lot dated equal to an existing one is placed after it,
// preserving insertion order for same-day purchases.
func insertLotSorted(lots []model.Lot, lot model.Lot) []model.Lot {
	idx := sort.Search(len(lots), func(i int) bool {
		return lots[i].Date.After(lot.Date)
	})
	lots = append(lots, model.Lot{})
	copy(lots[idx+1:], lots[idx:])
	lots[idx] = lot
	return lots
}

// sortLotsAscending orders lots oldest-acquisition-date first, the order in
// which FIFO consumption walks them. The sort is stable so same-day lots
// keep their relative order.
func sortLotsAscending(lots []model.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		return lots[i].Date.Before(lots[j].Date)
	})
}

// consumeFIFO sells sharesToSell out of the lots, oldest first. A lot whose
// shares fit entirely within the remainder is removed; the first lot that
// exceeds it is partially reduced and retained. Returns the surviving lots
// and the exact TWD cost basis consumed:
//
//	sum(consumedShares * lot.costPerShare * lot.exchangeRate)
//
// The caller must have verified that enough shares exist; consumeFIFO
// consumes at most what the lots hold.
func consumeFIFO(lots []model.Lot, sharesToSell float64) ([]model.Lot, decimal.Decimal) {
	sortLotsAscending(lots)

	remaining := dec(sharesToSell)
	costTWD := decimal.Zero
	kept := make([]model.Lot, 0, len(lots))

	for _, l := range lots {
		if remaining.LessThanOrEqual(sharesEpsilon) {
			kept = append(kept, l)
			continue
		}

		lotShares := dec(l.Shares)
		unitCostTWD := dec(l.CostPerShare).Mul(dec(l.ExchangeRate))

		if lotShares.LessThanOrEqual(remaining) {
			// Lot fully consumed and dropped from the ledger.
			costTWD = costTWD.Add(lotShares.Mul(unitCostTWD))
			remaining = remaining.Sub(lotShares)
			continue
		}

		// Partial consumption: reduce the lot and keep it.
		costTWD = costTWD.Add(remaining.Mul(unitCostTWD))
		l.Shares, _ = lotShares.Sub(remaining).Float64()
		remaining = decimal.Zero
		kept = append(kept, l)
	}

	return kept, costTWD
}

// totalLotShares returns the decimal sum of shares across the lots.
func totalLotShares(lots []model.Lot) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lots {
		total = total.Add(dec(l.Shares))
	}
	return total
}

// recomputeFromLots resets the asset's Shares and AvgCost from its lots:
// Shares is the sum of lot shares and AvgCost the cost-weighted average in
// the original currency. Every mutation of an asset's lots funnels through
// here so the conservation invariant cannot drift.
func recomputeFromLots(asset *model.Asset) {
	shares := decimal.Zero
	cost := decimal.Zero
	for _, l := range asset.Lots {
		s := dec(l.Shares)
		shares = shares.Add(s)
		cost = cost.Add(s.Mul(dec(l.CostPerShare)))
	}

	asset.Shares, _ = shares.Float64()
	if shares.LessThanOrEqual(sharesEpsilon) {
		asset.AvgCost = 0
		return
	}
	asset.AvgCost, _ = cost.Div(shares).Float64()
}
