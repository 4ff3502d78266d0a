package ledger_test

import (
	"testing"

	"github.com/libao/libao-backend/internal/ledger"
	"github.com/libao/libao-backend/internal/model"
)

// TestCalculate covers the valuation pass.
//
// WHY: every display-facing number is rederived here on each read; the
// arithmetic and the zero-division guards decide whether the UI shows
// finance or NaN.
func TestCalculate(t *testing.T) {
	t.Run("category and asset metrics", func(t *testing.T) {
		state := newTestState() // capital 1,000,000, G倉 at 50% => 500,000
		state, _, _ = ledger.ExecuteOrder(state, ledger.Personal, "cat-g", buyOrder("2330", 100, 500, "2024-01-10"))
		state.Categories[0].Assets[0].CurrentPrice = 600

		summary := ledger.Calculate(ledger.ValuationInput{State: state})

		if len(summary.Categories) != 1 {
			t.Fatalf("Expected 1 category, got %d", len(summary.Categories))
		}
		cat := summary.Categories[0]
		if cat.ProjectedInvestment != 500_000 {
			t.Errorf("Expected projected 500000, got %v", cat.ProjectedInvestment)
		}
		if !approxEqual(cat.InvestedAmount, 50_000) {
			t.Errorf("Expected invested 50000, got %v", cat.InvestedAmount)
		}
		if !approxEqual(cat.RemainingCash, 450_000) {
			t.Errorf("Expected remaining cash 450000, got %v", cat.RemainingCash)
		}
		if !approxEqual(cat.InvestmentRatio, 10) {
			t.Errorf("Expected investment ratio 10, got %v", cat.InvestmentRatio)
		}

		asset := cat.Assets[0]
		if !approxEqual(asset.MarketValue, 60_000) || !approxEqual(asset.UnrealizedPnL, 10_000) {
			t.Errorf("Expected value 60000 and unrealized 10000, got %v and %v",
				asset.MarketValue, asset.UnrealizedPnL)
		}
		if !approxEqual(asset.ReturnRate, 20) {
			t.Errorf("Expected return rate 20, got %v", asset.ReturnRate)
		}
	})

	t.Run("US category converts at the current settings rate", func(t *testing.T) {
		state := newTestState()
		state.Categories[0].Market = model.MarketUS
		buy := buyOrder("AAPL", 10, 100, "2024-01-01")
		buy.ExchangeRate = 30
		buy.TotalAmount = 10 * 100 * 30
		state, _, _ = ledger.ExecuteOrder(state, ledger.Personal, "cat-g", buy)
		state.Categories[0].Assets[0].CurrentPrice = 110
		state.Settings.USDExchangeRate = 32

		summary := ledger.Calculate(ledger.ValuationInput{State: state})
		asset := summary.Categories[0].Assets[0]

		// Mark-to-market uses today's rate for both legs.
		if !approxEqual(asset.CostBasis, 10*100*32) {
			t.Errorf("Expected cost basis 32000, got %v", asset.CostBasis)
		}
		if !approxEqual(asset.MarketValue, 10*110*32) {
			t.Errorf("Expected market value 35200, got %v", asset.MarketValue)
		}
	})

	t.Run("zero projected investment yields ratio 0", func(t *testing.T) {
		state := newTestState()
		state.TotalCapital = 0
		state, _, _ = ledger.ExecuteOrder(state, ledger.Personal, "cat-g", buyOrder("2330", 100, 500, "2024-01-10"))

		summary := ledger.Calculate(ledger.ValuationInput{State: state})
		if summary.Categories[0].InvestmentRatio != 0 {
			t.Errorf("Expected investment ratio 0, got %v", summary.Categories[0].InvestmentRatio)
		}
		if summary.Categories[0].Assets[0].PortfolioRatio != 0 {
			t.Errorf("Expected portfolio ratio 0, got %v", summary.Categories[0].Assets[0].PortfolioRatio)
		}
	})

	t.Run("zero cost basis yields return rate 0", func(t *testing.T) {
		state := newTestState()
		state.Categories[0].Assets = []model.Asset{{ID: "a", Symbol: "X", CurrentPrice: 10}}

		summary := ledger.Calculate(ledger.ValuationInput{State: state})
		if summary.Categories[0].Assets[0].ReturnRate != 0 {
			t.Errorf("Expected return rate 0, got %v", summary.Categories[0].Assets[0].ReturnRate)
		}
	})

	t.Run("realized P&L sums SELL and DIVIDEND per category", func(t *testing.T) {
		state := newTestState()
		state, _, _ = ledger.ExecuteOrder(state, ledger.Personal, "cat-g", buyOrder("2330", 100, 10, "2024-01-01"))
		sell := sellOrder("2330", 50, 20, "2024-02-01")
		sell.Fee = 0
		state, _, _ = ledger.ExecuteOrder(state, ledger.Personal, "cat-g", sell)
		state, _, _ = ledger.InsertDividend(state, ledger.Personal, model.DividendProposal{
			Symbol: "2330", CategoryName: "G倉", Date: date("2024-03-01"),
			RatePerShare: 2, Shares: 50, GrossAmount: 100,
		}, 10)

		summary := ledger.Calculate(ledger.ValuationInput{State: state})
		// 50*20 - 50*10 = 500 from the sale, 90 net dividend.
		if !approxEqual(summary.Categories[0].RealizedPnL, 590) {
			t.Errorf("Expected realized 590, got %v", summary.Categories[0].RealizedPnL)
		}
	})

	t.Run("monthly buckets group by year-month", func(t *testing.T) {
		state := newTestState()
		state, _, _ = ledger.ExecuteOrder(state, ledger.Personal, "cat-g", buyOrder("2330", 100, 10, "2024-01-01"))
		s1 := sellOrder("2330", 20, 20, "2024-02-10")
		s1.Fee = 0
		state, _, _ = ledger.ExecuteOrder(state, ledger.Personal, "cat-g", s1)
		s2 := sellOrder("2330", 20, 30, "2024-02-20")
		s2.Fee = 0
		state, _, _ = ledger.ExecuteOrder(state, ledger.Personal, "cat-g", s2)
		s3 := sellOrder("2330", 20, 15, "2024-03-05")
		s3.Fee = 0
		state, _, _ = ledger.ExecuteOrder(state, ledger.Personal, "cat-g", s3)

		summary := ledger.Calculate(ledger.ValuationInput{State: state})
		if len(summary.MonthlyPnL) != 2 {
			t.Fatalf("Expected 2 monthly buckets, got %d", len(summary.MonthlyPnL))
		}
		// Newest month first: 2024-03 then 2024-02.
		if summary.MonthlyPnL[0].Month != "2024-03" || !approxEqual(summary.MonthlyPnL[0].RealizedPnL, 100) {
			t.Errorf("Unexpected first bucket: %+v", summary.MonthlyPnL[0])
		}
		if summary.MonthlyPnL[1].Month != "2024-02" || !approxEqual(summary.MonthlyPnL[1].RealizedPnL, 200+400) {
			t.Errorf("Unexpected second bucket: %+v", summary.MonthlyPnL[1])
		}
	})

	t.Run("martingale collection appears only when included", func(t *testing.T) {
		state := newTestState()
		state, _, _ = ledger.ExecuteOrder(state, ledger.Martingale, "cat-m", buyOrder("0050", 10, 150, "2024-01-01"))

		hidden := ledger.Calculate(ledger.ValuationInput{State: state})
		if hidden.Martingale != nil {
			t.Error("Expected martingale hidden for viewer role")
		}

		shown := ledger.Calculate(ledger.ValuationInput{State: state, IncludeMartingale: true})
		if len(shown.Martingale) != 1 || len(shown.Martingale[0].Assets) != 1 {
			t.Error("Expected martingale categories in the summary")
		}
	})

	t.Run("industry breakdown groups cost basis", func(t *testing.T) {
		state := newTestState()
		state, _, _ = ledger.ExecuteOrder(state, ledger.Personal, "cat-g", buyOrder("2330", 100, 500, "2024-01-01"))
		state, _, _ = ledger.ExecuteOrder(state, ledger.Personal, "cat-g", buyOrder("2317", 100, 100, "2024-01-02"))

		summary := ledger.Calculate(ledger.ValuationInput{
			State:      state,
			Industries: map[string]string{"2330": "半導體"},
		})

		if len(summary.IndustryBreakdown) != 2 {
			t.Fatalf("Expected 2 industry slices, got %d", len(summary.IndustryBreakdown))
		}
		top := summary.IndustryBreakdown[0]
		if top.Industry != "半導體" || !approxEqual(top.CostBasis, 50_000) {
			t.Errorf("Unexpected top slice: %+v", top)
		}
		if !approxEqual(top.Ratio, 83.33) {
			t.Errorf("Expected ratio 83.33, got %v", top.Ratio)
		}
		if summary.IndustryBreakdown[1].Industry != "其他" {
			t.Errorf("Expected fallback industry 其他, got %q", summary.IndustryBreakdown[1].Industry)
		}
	})

	t.Run("valuation does not mutate canonical state", func(t *testing.T) {
		state := newTestState()
		state, _, _ = ledger.ExecuteOrder(state, ledger.Personal, "cat-g", buyOrder("2330", 100, 500, "2024-01-01"))
		sharesBefore := state.Categories[0].Assets[0].Shares
		txBefore := len(state.Transactions)

		_ = ledger.Calculate(ledger.ValuationInput{State: state, IncludeMartingale: true})

		if state.Categories[0].Assets[0].Shares != sharesBefore || len(state.Transactions) != txBefore {
			t.Error("Calculate must not mutate its input")
		}
	})
}

// TestClassifyMartingale covers the two-tier legacy classification.
//
// WHY: the explicit flag must always win; the heuristic only exists for
// records written before the flag was introduced.
func TestClassifyMartingale(t *testing.T) {
	names := map[string]bool{"馬丁倉": true}
	boolPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name string
		tx   model.Transaction
		want bool
	}{
		{"explicit true wins", model.Transaction{IsMartingale: boolPtr(true), CategoryName: "G倉"}, true},
		{"explicit false wins over name match", model.Transaction{IsMartingale: boolPtr(false), CategoryName: "馬丁倉"}, false},
		{"legacy name match with zero ratio", model.Transaction{CategoryName: "馬丁倉", PortfolioRatio: 0}, true},
		{"legacy name match with nonzero ratio stays personal", model.Transaction{CategoryName: "馬丁倉", PortfolioRatio: 12.5}, false},
		{"legacy unrelated name", model.Transaction{CategoryName: "G倉", PortfolioRatio: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ledger.ClassifyMartingale(tt.tx, names); got != tt.want {
				t.Errorf("ClassifyMartingale() = %v, want %v", got, tt.want)
			}
		})
	}
}
