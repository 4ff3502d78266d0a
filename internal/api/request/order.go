package request

// ExecuteOrderRequest is the body for placing a buy or sell order against
// one category. Collection selects the personal or martingale side; an empty
// value means personal.
type ExecuteOrderRequest struct {
	CategoryID   string  `json:"categoryId"`
	Collection   string  `json:"collection,omitempty"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name,omitempty"`
	Action       string  `json:"action"`
	Price        float64 `json:"price"`
	Shares       float64 `json:"shares"`
	ExchangeRate float64 `json:"exchangeRate"`
	Fee          float64 `json:"fee"`
	Tax          float64 `json:"tax"`
	TotalAmount  float64 `json:"totalAmount"`
	Date         string  `json:"transactionDate"`
	AssetID      string  `json:"assetId,omitempty"`
}
