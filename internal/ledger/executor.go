package ledger

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/libao/libao-backend/internal/apperrors"
	"github.com/libao/libao-backend/internal/model"
)

// Order actions.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// Order is a user's trade intent. Price is in the asset's original currency;
// TotalAmount is the settled TWD amount including the user's own rounding;
// ExchangeRate is the historical rate at order time and travels with the
// resulting lot and transaction record forever.
type Order struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Action       string    `json:"action"`
	Price        float64   `json:"price"`
	Shares       float64   `json:"shares"`
	ExchangeRate float64   `json:"exchangeRate"`
	Fee          float64   `json:"fee"`
	Tax          float64   `json:"tax"`
	TotalAmount  float64   `json:"totalAmount"`
	Date         time.Time `json:"transactionDate"`

	// AssetID, when set on a BUY that opens a new position, becomes the new
	// asset's id; the transaction record references the same id either way.
	AssetID string `json:"assetId,omitempty"`
}

// ValidateOrder rejects orders with missing or non-numeric fields before any
// state is touched. The executor calls this itself so the guarantee does not
// depend on the transport layer.
func ValidateOrder(order Order) error {
	if strings.TrimSpace(order.Symbol) == "" {
		return apperrors.ErrInvalidSymbol
	}
	if order.Action != ActionBuy && order.Action != ActionSell {
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownTransactionType, order.Action)
	}
	for _, v := range []float64{order.Price, order.Shares, order.ExchangeRate, order.Fee, order.Tax, order.TotalAmount} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.ErrInvalidAmount
		}
	}
	if order.Shares <= 0 {
		return apperrors.ErrInvalidShares
	}
	if order.Price <= 0 {
		return apperrors.ErrInvalidPrice
	}
	if order.ExchangeRate <= 0 || order.TotalAmount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	return nil
}

// ratioOf returns numerator/denominator as a percentage, and 0 when the
// denominator is 0 so an unfunded category never produces NaN or Inf.
func ratioOf(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	r := numerator / denominator * 100
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// ExecuteOrder applies a BUY or SELL intent against one category of the
// state and returns the new state plus the transaction record written for
// it. The input state is never mutated: a returned error means nothing
// happened. The new record is prepended to the transaction log, whose
// canonical order is most-recent-first.
func ExecuteOrder(state model.PortfolioState, collection Collection, categoryID string, order Order) (model.PortfolioState, model.Transaction, error) {
	if err := ValidateOrder(order); err != nil {
		return state, model.Transaction{}, err
	}

	next := CloneState(state)
	category := findCategoryByID(collectionOf(&next, collection), categoryID)
	if category == nil {
		return state, model.Transaction{}, apperrors.ErrCategoryNotFound
	}

	projected := category.ProjectedInvestment(next.TotalCapital)

	var tx model.Transaction
	var err error
	switch order.Action {
	case ActionBuy:
		tx = executeBuy(category, order, projected)
	case ActionSell:
		tx, err = executeSell(category, order, projected)
		if err != nil {
			return state, model.Transaction{}, err
		}
	default:
		return state, model.Transaction{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownTransactionType, order.Action)
	}

	isMartingale := collection == Martingale
	tx.IsMartingale = &isMartingale
	tx.CategoryName = category.Name

	next.Transactions = append([]model.Transaction{tx}, next.Transactions...)
	return next, tx, nil
}

// executeBuy inserts a new lot for the order, creating the asset on the
// first purchase of a symbol within the category.
func executeBuy(category *model.Category, order Order, projected float64) model.Transaction {
	lot := model.Lot{
		ID:           uuid.New().String(),
		Date:         order.Date,
		Shares:       order.Shares,
		CostPerShare: order.Price,
		ExchangeRate: order.ExchangeRate,
	}

	asset := category.FindAsset(order.Symbol)
	if asset == nil {
		id := order.AssetID
		if id == "" {
			id = uuid.New().String()
		}
		category.Assets = append(category.Assets, model.Asset{
			ID:     id,
			Symbol: order.Symbol,
			Name:   order.Name,
			Lots:   []model.Lot{lot},
		})
		asset = &category.Assets[len(category.Assets)-1]
	} else {
		asset.Lots = insertLotSorted(asset.Lots, lot)
	}
	recomputeFromLots(asset)

	return model.Transaction{
		ID:             uuid.New().String(),
		Date:           order.Date,
		AssetID:        asset.ID,
		LotID:          lot.ID,
		Symbol:         order.Symbol,
		Name:           order.Name,
		Type:           model.TxBuy,
		Shares:         order.Shares,
		Price:          order.Price,
		ExchangeRate:   order.ExchangeRate,
		Amount:         order.TotalAmount,
		Fee:            order.Fee,
		Tax:            order.Tax,
		PortfolioRatio: ratioOf(order.TotalAmount, projected),
	}
}

// executeSell consumes lots FIFO and computes realized P&L from the exact
// TWD cost basis of the consumed shares. The consumed cost is stored on the
// transaction as OriginalCostTWD so a later revoke can reconstruct the lot.
func executeSell(category *model.Category, order Order, projected float64) (model.Transaction, error) {
	asset := category.FindAssetByID(order.AssetID)
	if asset == nil {
		asset = category.FindAsset(order.Symbol)
	}
	if asset == nil {
		return model.Transaction{}, apperrors.ErrAssetNotFound
	}

	if dec(order.Shares).GreaterThan(dec(asset.Shares).Add(sharesEpsilon)) {
		return model.Transaction{}, apperrors.ErrInsufficientShares
	}

	remaining, costTWD := consumeFIFO(asset.Lots, order.Shares)
	asset.Lots = remaining

	realized, _ := dec(order.TotalAmount).Sub(costTWD).Sub(dec(order.Fee)).Sub(dec(order.Tax)).Float64()
	originalCost, _ := costTWD.Float64()

	tx := model.Transaction{
		ID:              uuid.New().String(),
		Date:            order.Date,
		AssetID:         asset.ID,
		Symbol:          order.Symbol,
		Name:            order.Name,
		Type:            model.TxSell,
		Shares:          order.Shares,
		Price:           order.Price,
		ExchangeRate:    order.ExchangeRate,
		Amount:          order.TotalAmount,
		Fee:             order.Fee,
		Tax:             order.Tax,
		RealizedPnL:     realized,
		PortfolioRatio:  ratioOf(originalCost, projected),
		OriginalCostTWD: &originalCost,
	}
	if tx.Name == "" {
		tx.Name = asset.Name
	}

	if totalLotShares(asset.Lots).LessThanOrEqual(sharesEpsilon) {
		category.RemoveAsset(asset.ID)
	} else {
		recomputeFromLots(asset)
	}

	return tx, nil
}

// InsertDividend appends a confirmed DIVIDEND transaction to the log.
// Dividends never touch share counts or lots; realized P&L is the gross
// amount less tax.
func InsertDividend(state model.PortfolioState, collection Collection, proposal model.DividendProposal, tax float64) (model.PortfolioState, model.Transaction, error) {
	if strings.TrimSpace(proposal.Symbol) == "" {
		return state, model.Transaction{}, apperrors.ErrInvalidSymbol
	}
	if proposal.GrossAmount <= 0 || math.IsNaN(proposal.GrossAmount) {
		return state, model.Transaction{}, apperrors.ErrInvalidAmount
	}

	next := CloneState(state)
	category := findCategoryByName(collectionOf(&next, collection), proposal.CategoryName)
	if category == nil {
		return state, model.Transaction{}, apperrors.ErrCategoryNotFound
	}

	var assetID string
	if asset := category.FindAsset(proposal.Symbol); asset != nil {
		assetID = asset.ID
	}

	realized, _ := dec(proposal.GrossAmount).Sub(dec(tax)).Float64()
	isMartingale := collection == Martingale

	tx := model.Transaction{
		ID:           uuid.New().String(),
		Date:         proposal.Date,
		AssetID:      assetID,
		Symbol:       proposal.Symbol,
		Name:         proposal.Name,
		Type:         model.TxDividend,
		Shares:       proposal.Shares,
		Price:        proposal.RatePerShare,
		ExchangeRate: 1,
		Amount:       proposal.GrossAmount,
		Tax:          tax,
		CategoryName: category.Name,
		RealizedPnL:  realized,
		IsMartingale: &isMartingale,
	}

	next.Transactions = append([]model.Transaction{tx}, next.Transactions...)
	return next, tx, nil
}
