package model

import "time"

// Transaction types. The type field gates which ledger mutation applies;
// every consumer dispatches through an exhaustive switch so an unknown type
// is always surfaced as an error instead of silently ignored.
const (
	TxBuy      = "BUY"
	TxSell     = "SELL"
	TxDividend = "DIVIDEND"
)

// Transaction is an immutable append-only ledger entry. Once written it is
// never mutated; a revoke deletes the whole record after the lot state has
// been rolled back. The transaction log, sorted most-recent-first, is the
// actual source of truth: the repair flow can rebuild every asset and lot
// from it alone.
type Transaction struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	AssetID      string    `json:"assetId"`
	LotID        string    `json:"lotId,omitempty"`
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Shares       float64   `json:"shares"`
	Price        float64   `json:"price"`        // original currency
	ExchangeRate float64   `json:"exchangeRate"` // TWD per unit at transaction time
	Amount       float64   `json:"amount"`       // TWD
	Fee          float64   `json:"fee"`
	Tax          float64   `json:"tax"`
	CategoryName string    `json:"categoryName"`

	// RealizedPnL is populated only for SELL and DIVIDEND.
	RealizedPnL float64 `json:"realizedPnL"`

	PortfolioRatio float64 `json:"portfolioRatio"`

	// IsMartingale is nullable so records written before the flag existed
	// stay distinguishable from an explicit false. Legacy records are
	// classified by the heuristic in ledger.ClassifyMartingale.
	IsMartingale *bool `json:"isMartingale,omitempty"`

	// OriginalCostTWD records, for SELL only, the exact TWD cost basis
	// consumed from the lots. Required to reconstruct the consumed lot on
	// revoke.
	OriginalCostTWD *float64 `json:"originalCostTWD,omitempty"`
}

// DividendProposal is a not-yet-confirmed DIVIDEND transaction produced by
// scanning the dividend source against current holdings. Confirming one
// turns it into a regular ledger insertion.
type DividendProposal struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	CategoryName string    `json:"categoryName"`
	Date         time.Time `json:"date"`
	RatePerShare float64   `json:"ratePerShare"`
	Shares       float64   `json:"shares"`
	GrossAmount  float64   `json:"grossAmount"`
	IsMartingale bool      `json:"isMartingale"`
}
