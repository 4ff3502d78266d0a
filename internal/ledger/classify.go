package ledger

import "github.com/libao/libao-backend/internal/model"

// ClassifyMartingale reports whether a transaction belongs to the martingale
// collection. Classification is two-tier: the explicit IsMartingale flag
// wins whenever the record carries one; records predating the flag fall back
// to a heuristic that matches the category name against the martingale
// category-name list, confirmed by a zero portfolio ratio (martingale
// records were written without a personal projected investment, so their
// ratio is always zero).
//
// The heuristic can misclassify a legacy personal transaction whose category
// shares a name with a martingale category and happens to have a zero ratio.
// That ambiguity is inherent to the pre-flag data and is deliberately left
// as-is rather than rewritten.
func ClassifyMartingale(tx model.Transaction, martingaleNames map[string]bool) bool {
	if tx.IsMartingale != nil {
		return *tx.IsMartingale
	}
	return martingaleNames[tx.CategoryName] && tx.PortfolioRatio == 0
}
