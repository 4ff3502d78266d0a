package validation

import (
	"math"
	"strings"
	"time"

	"github.com/libao/libao-backend/internal/api/request"
)

// ValidateExecuteOrder validates an order placement request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - categoryId: Target category
//   - symbol: Ticker symbol
//   - action: BUY or SELL
//   - price, shares, exchangeRate, totalAmount: Must be positive and finite
//   - transactionDate: Must be in YYYY-MM-DD or RFC3339 format
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateExecuteOrder(req request.ExecuteOrderRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.CategoryID) == "" {
		errors["categoryId"] = "categoryId is required"
	}

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}

	if req.Action != "BUY" && req.Action != "SELL" {
		errors["action"] = "action must be BUY or SELL"
	}

	if err := validateCollection(req.Collection); err != "" {
		errors["collection"] = err
	}

	checkPositive(errors, "price", req.Price)
	checkPositive(errors, "shares", req.Shares)
	checkPositive(errors, "exchangeRate", req.ExchangeRate)
	checkPositive(errors, "totalAmount", req.TotalAmount)
	checkFinite(errors, "fee", req.Fee)
	checkFinite(errors, "tax", req.Tax)

	if strings.TrimSpace(req.Date) == "" {
		errors["transactionDate"] = "transactionDate is required"
	} else if _, err := ParseTime(req.Date); err != nil {
		errors["transactionDate"] = err.Error()
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// validateCollection checks a collection selector; empty means personal.
func validateCollection(collection string) string {
	switch collection {
	case "", "personal", "martingale":
		return ""
	}
	return "collection must be personal or martingale"
}

func checkPositive(errors map[string]string, field string, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		errors[field] = field + " is not a valid number"
		return
	}
	if value <= 0 {
		errors[field] = field + " must be positive"
	}
}

func checkFinite(errors map[string]string, field string, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		errors[field] = field + " is not a valid number"
		return
	}
	if value < 0 {
		errors[field] = field + " must not be negative"
	}
}

// ParseTime accepts "2006-01-02" or RFC3339.
func ParseTime(str string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", str)
	if err != nil {
		t, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}
