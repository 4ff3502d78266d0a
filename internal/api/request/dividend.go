package request

// ScanDividendsRequest bounds a dividend scan. Since is optional; scans
// default to the last year.
type ScanDividendsRequest struct {
	Since string `json:"since,omitempty"`
}

// ConfirmDividendRequest is the body for recording one accepted dividend
// proposal in the ledger.
type ConfirmDividendRequest struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name,omitempty"`
	CategoryName string  `json:"categoryName"`
	Date         string  `json:"date"`
	RatePerShare float64 `json:"ratePerShare"`
	Shares       float64 `json:"shares"`
	GrossAmount  float64 `json:"grossAmount"`
	Tax          float64 `json:"tax"`
	IsMartingale bool    `json:"isMartingale,omitempty"`
}
