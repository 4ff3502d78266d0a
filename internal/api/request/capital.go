package request

// AddCapitalLogRequest is the body for recording a deposit or withdrawal.
type AddCapitalLogRequest struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date,omitempty"`
	Note   string  `json:"note,omitempty"`
}
