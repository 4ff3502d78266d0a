package validation

import (
	"strings"

	"github.com/libao/libao-backend/internal/api/request"
)

// ValidateConfirmDividend validates a dividend confirmation request.
//
// Required fields:
//   - symbol: Ticker the dividend was paid on
//   - categoryName: Category holding the position
//   - date: Ex-dividend date in YYYY-MM-DD or RFC3339 format
//   - grossAmount: Must be positive
//
// Tax is optional but must not be negative when provided.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateConfirmDividend(req request.ConfirmDividendRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}

	if strings.TrimSpace(req.CategoryName) == "" {
		errors["categoryName"] = "categoryName is required"
	}

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := ParseTime(req.Date); err != nil {
		errors["date"] = err.Error()
	}

	checkPositive(errors, "grossAmount", req.GrossAmount)
	checkFinite(errors, "tax", req.Tax)

	if req.Shares < 0 {
		errors["shares"] = "shares must not be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateScanDividends validates a dividend scan request.
func ValidateScanDividends(req request.ScanDividendsRequest) error {
	if req.Since == "" {
		return nil
	}
	if _, err := ParseTime(req.Since); err != nil {
		return &Error{Fields: map[string]string{"since": err.Error()}}
	}
	return nil
}
