package model

import "time"

// PortfolioState is the full canonical document persisted per user.
// Everything displayed to the user is rederived from this state on read;
// calculated values are never stored, which keeps the derived numbers from
// drifting away from the transaction ledger.
type PortfolioState struct {
	TotalCapital float64       `json:"totalCapital"`
	Settings     Settings      `json:"settings"`
	Categories   []Category    `json:"categories"`
	Transactions []Transaction `json:"transactions"`
	CapitalLogs  []CapitalLog  `json:"capitalLogs"`
	Martingale   []Category    `json:"martingale"`
	LastModified time.Time     `json:"lastModified"`
}

// Settings holds per-portfolio configuration.
// MarketDataToken is kept fernet-encrypted at rest; the plaintext value
// never appears in the persisted document.
type Settings struct {
	USDExchangeRate float64 `json:"usdExchangeRate"`
	MarketDataToken string  `json:"marketDataToken,omitempty"`
}

// CapitalLog is a dated deposit or withdrawal. The portfolio's TotalCapital
// is always the signed sum of these entries, recomputed rather than stored
// independently.
type CapitalLog struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Type   string    `json:"type"` // CapitalDeposit or CapitalWithdraw
	Amount float64   `json:"amount"`
	Note   string    `json:"note,omitempty"`
}

// Capital log entry types.
const (
	CapitalDeposit  = "DEPOSIT"
	CapitalWithdraw = "WITHDRAW"
)

// TotalCapitalFromLogs returns the signed sum of all capital log entries.
func TotalCapitalFromLogs(logs []CapitalLog) float64 {
	var total float64
	for _, l := range logs {
		switch l.Type {
		case CapitalWithdraw:
			total -= l.Amount
		default:
			total += l.Amount
		}
	}
	return total
}
