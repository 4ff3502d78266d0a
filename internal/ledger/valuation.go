package ledger

import (
	"math"
	"sort"

	"github.com/libao/libao-backend/internal/model"
)

// RoundingPrecision is the multiplier used when rounding monetary values for
// display (two decimal places).
const RoundingPrecision = 100

// round rounds a monetary value to two decimal places for the derived view.
// Canonical state is never rounded; only the projection is.
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}

// ValuationInput carries everything the valuation pass reads. Industries
// maps symbol to sector name for the breakdown; a symbol without an entry is
// grouped under "其他".
type ValuationInput struct {
	State             model.PortfolioState
	IncludeMartingale bool
	Industries        map[string]string
}

// Calculate derives the complete display-facing view model from canonical
// state. It is a pure function: it never mutates its input and may be called
// on every read. All derived monetary values are TWD, rounded to two
// decimals.
func Calculate(in ValuationInput) model.PortfolioSummary {
	state := in.State
	names := MartingaleNames(&state)

	summary := model.PortfolioSummary{
		TotalCapital: state.TotalCapital,
	}

	summary.Categories = calculateCategories(state.Categories, &state, names, false, in.Industries)
	if in.IncludeMartingale {
		summary.Martingale = calculateCategories(state.Martingale, &state, names, true, in.Industries)
	}

	for _, c := range summary.Categories {
		summary.TotalInvested += c.InvestedAmount
		summary.TotalUnrealized += c.UnrealizedPnL
		summary.TotalRealized += c.RealizedPnL
		for _, a := range c.Assets {
			summary.TotalMarketValue += a.MarketValue
		}
	}
	summary.TotalInvested = round(summary.TotalInvested)
	summary.TotalMarketValue = round(summary.TotalMarketValue)
	summary.TotalUnrealized = round(summary.TotalUnrealized)
	summary.TotalRealized = round(summary.TotalRealized)

	summary.MonthlyPnL = monthlyPnL(&state, names, in.IncludeMartingale)
	summary.IndustryBreakdown = industryBreakdown(summary.Categories, in.Industries)

	return summary
}

// marketRate returns the TWD conversion rate for a category's market:
// 1 for TW, the current USD rate from settings for US.
func marketRate(market model.Market, settings model.Settings) float64 {
	if market == model.MarketUS {
		if settings.USDExchangeRate > 0 {
			return settings.USDExchangeRate
		}
	}
	return 1
}

func calculateCategories(
	categories []model.Category,
	state *model.PortfolioState,
	names map[string]bool,
	martingale bool,
	industries map[string]string,
) []model.CalculatedCategory {

	out := make([]model.CalculatedCategory, 0, len(categories))
	for _, category := range categories {
		projected := category.ProjectedInvestment(state.TotalCapital)
		rate := marketRate(category.Market, state.Settings)

		calc := model.CalculatedCategory{
			ID:                  category.ID,
			Name:                category.Name,
			Market:              category.Market,
			AllocationPercent:   category.AllocationPercent,
			ProjectedInvestment: projected,
			Assets:              make([]model.CalculatedAsset, 0, len(category.Assets)),
		}

		var invested float64
		for _, asset := range category.Assets {
			costBasis := asset.Shares * asset.AvgCost * rate
			marketValue := asset.Shares * asset.CurrentPrice * rate
			unrealized := marketValue - costBasis

			calc.Assets = append(calc.Assets, model.CalculatedAsset{
				ID:             asset.ID,
				Symbol:         asset.Symbol,
				Name:           asset.Name,
				Shares:         asset.Shares,
				AvgCost:        asset.AvgCost,
				CurrentPrice:   asset.CurrentPrice,
				CostBasis:      round(costBasis),
				MarketValue:    round(marketValue),
				UnrealizedPnL:  round(unrealized),
				ReturnRate:     round(ratioOf(unrealized, costBasis)),
				PortfolioRatio: round(ratioOf(costBasis, projected)),
				Industry:       industries[asset.Symbol],
			})

			invested += costBasis
			calc.UnrealizedPnL += unrealized
		}

		calc.InvestedAmount = round(invested)
		calc.RemainingCash = round(projected - invested)
		calc.InvestmentRatio = round(ratioOf(invested, projected))
		calc.UnrealizedPnL = round(calc.UnrealizedPnL)
		calc.RealizedPnL = round(categoryRealizedPnL(state, names, category.Name, martingale))

		out = append(out, calc)
	}
	return out
}

// categoryRealizedPnL sums realized P&L from SELL and DIVIDEND records whose
// category name matches and whose martingale classification matches the
// collection being derived.
func categoryRealizedPnL(state *model.PortfolioState, names map[string]bool, categoryName string, martingale bool) float64 {
	var total float64
	for _, tx := range state.Transactions {
		if tx.CategoryName != categoryName {
			continue
		}
		if tx.Type != model.TxSell && tx.Type != model.TxDividend {
			continue
		}
		if ClassifyMartingale(tx, names) != martingale {
			continue
		}
		total += tx.RealizedPnL
	}
	return total
}

// monthlyPnL buckets realized P&L by year-month, newest month first.
func monthlyPnL(state *model.PortfolioState, names map[string]bool, includeMartingale bool) []model.MonthlyPnL {
	buckets := make(map[string]float64)
	for _, tx := range state.Transactions {
		if tx.Type != model.TxSell && tx.Type != model.TxDividend {
			continue
		}
		if !includeMartingale && ClassifyMartingale(tx, names) {
			continue
		}
		buckets[tx.Date.Format("2006-01")] += tx.RealizedPnL
	}

	out := make([]model.MonthlyPnL, 0, len(buckets))
	for month, pnl := range buckets {
		out = append(out, model.MonthlyPnL{Month: month, RealizedPnL: round(pnl)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out
}

// fallbackIndustry groups symbols without reference data.
const fallbackIndustry = "其他"

// industryBreakdown groups current personal cost basis by sector.
func industryBreakdown(categories []model.CalculatedCategory, industries map[string]string) []model.IndustrySlice {
	totals := make(map[string]float64)
	var grandTotal float64
	for _, c := range categories {
		for _, a := range c.Assets {
			industry := industries[a.Symbol]
			if industry == "" {
				industry = fallbackIndustry
			}
			totals[industry] += a.CostBasis
			grandTotal += a.CostBasis
		}
	}

	out := make([]model.IndustrySlice, 0, len(totals))
	for industry, cost := range totals {
		out = append(out, model.IndustrySlice{
			Industry:  industry,
			CostBasis: round(cost),
			Ratio:     round(ratioOf(cost, grandTotal)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CostBasis != out[j].CostBasis {
			return out[i].CostBasis > out[j].CostBasis
		}
		return out[i].Industry < out[j].Industry
	})
	return out
}
