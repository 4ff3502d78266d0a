package model

import "time"

// SymbolInfo is static reference data for a listed symbol, used for name
// lookups on order entry and for industry breakdowns in the valuation pass.
type SymbolInfo struct {
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	Market      Market    `json:"market"`
	Industry    string    `json:"industry"`
	LastUpdated time.Time `json:"lastUpdated"`
}
