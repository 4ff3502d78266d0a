package request

// UpdateSettingsRequest is the body for replacing portfolio settings. A
// blank or masked MarketDataToken keeps the stored token.
type UpdateSettingsRequest struct {
	USDExchangeRate float64 `json:"usdExchangeRate"`
	MarketDataToken string  `json:"marketDataToken,omitempty"`
}
