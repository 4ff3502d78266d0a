package model

import "time"

// Market identifies which exchange a category trades on.
// TW positions are priced in TWD (exchange rate 1); US positions carry the
// historical USD/TWD rate on each transaction and lot.
type Market string

// Supported markets.
const (
	MarketTW Market = "TW"
	MarketUS Market = "US"
)

// Lot is a discrete purchase batch. Once created, only Shares may change,
// and only downward, as sales consume the lot FIFO. A fully consumed lot is
// removed from its asset.
type Lot struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Shares       float64   `json:"shares"`
	CostPerShare float64   `json:"costPerShare"` // original currency
	ExchangeRate float64   `json:"exchangeRate"` // TWD per unit at acquisition
}

// Asset is a held position within a category.
// Invariants maintained by the ledger package:
//   - Shares equals the sum of lot shares
//   - AvgCost equals the cost-weighted average of lot costs (original currency)
//
// CurrentPrice is the only field updated outside trade execution; a failed
// price fetch leaves it unchanged rather than zeroing it.
type Asset struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Shares       float64 `json:"shares"`
	AvgCost      float64 `json:"avgCost"`
	CurrentPrice float64 `json:"currentPrice"`
	Lots         []Lot   `json:"lots"`
}

// Category is a named capital bucket with its own allocation percentage.
// The same structure serves both personal and martingale collections; the
// two differ only by which slice of PortfolioState they live in.
type Category struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Market            Market  `json:"market"`
	AllocationPercent float64 `json:"allocationPercent"`
	Assets            []Asset `json:"assets"`
}

// ProjectedInvestment returns the capital earmarked for this category:
// floor(totalCapital * allocationPercent / 100).
func (c Category) ProjectedInvestment(totalCapital float64) float64 {
	return float64(int64(totalCapital * c.AllocationPercent / 100))
}

// FindAsset returns a pointer to the asset with the given symbol, or nil.
func (c *Category) FindAsset(symbol string) *Asset {
	for i := range c.Assets {
		if c.Assets[i].Symbol == symbol {
			return &c.Assets[i]
		}
	}
	return nil
}

// FindAssetByID returns a pointer to the asset with the given id, or nil.
func (c *Category) FindAssetByID(id string) *Asset {
	for i := range c.Assets {
		if c.Assets[i].ID == id {
			return &c.Assets[i]
		}
	}
	return nil
}

// RemoveAsset deletes the asset with the given id from the category.
func (c *Category) RemoveAsset(id string) {
	for i := range c.Assets {
		if c.Assets[i].ID == id {
			c.Assets = append(c.Assets[:i], c.Assets[i+1:]...)
			return
		}
	}
}
