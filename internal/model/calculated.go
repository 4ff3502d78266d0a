package model

// CalculatedAsset is the display-facing projection of an Asset.
// All monetary values are TWD and rounded to two decimal places. These
// values are derived on every read and never persisted.
type CalculatedAsset struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Shares         float64 `json:"shares"`
	AvgCost        float64 `json:"avgCost"`
	CurrentPrice   float64 `json:"currentPrice"`
	CostBasis      float64 `json:"costBasis"`
	MarketValue    float64 `json:"marketValue"`
	UnrealizedPnL  float64 `json:"unrealizedPnL"`
	ReturnRate     float64 `json:"returnRate"`     // percent
	PortfolioRatio float64 `json:"portfolioRatio"` // percent of projected investment
	Industry       string  `json:"industry,omitempty"`
}

// CalculatedCategory is the display-facing projection of a Category.
type CalculatedCategory struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Market              Market            `json:"market"`
	AllocationPercent   float64           `json:"allocationPercent"`
	ProjectedInvestment float64           `json:"projectedInvestment"`
	InvestedAmount      float64           `json:"investedAmount"`
	RemainingCash       float64           `json:"remainingCash"`
	InvestmentRatio     float64           `json:"investmentRatio"` // percent
	UnrealizedPnL       float64           `json:"unrealizedPnL"`
	RealizedPnL         float64           `json:"realizedPnL"`
	Assets              []CalculatedAsset `json:"assets"`
}

// MonthlyPnL buckets realized P&L by year-month of the transaction date.
type MonthlyPnL struct {
	Month       string  `json:"month"` // YYYY-MM
	RealizedPnL float64 `json:"realizedPnL"`
}

// IndustrySlice is one sector's share of current invested cost basis.
type IndustrySlice struct {
	Industry  string  `json:"industry"`
	CostBasis float64 `json:"costBasis"`
	Ratio     float64 `json:"ratio"` // percent of total invested
}

// PortfolioSummary is the complete derived view model returned by the
// valuation pass.
type PortfolioSummary struct {
	TotalCapital      float64              `json:"totalCapital"`
	TotalInvested     float64              `json:"totalInvested"`
	TotalMarketValue  float64              `json:"totalMarketValue"`
	TotalUnrealized   float64              `json:"totalUnrealized"`
	TotalRealized     float64              `json:"totalRealized"`
	Categories        []CalculatedCategory `json:"categories"`
	Martingale        []CalculatedCategory `json:"martingale,omitempty"`
	MonthlyPnL        []MonthlyPnL         `json:"monthlyPnL"`
	IndustryBreakdown []IndustrySlice      `json:"industryBreakdown"`
}
