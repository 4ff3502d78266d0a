package validation

import (
	"github.com/libao/libao-backend/internal/api/request"
)

// ValidateAddCapitalLog validates a capital deposit or withdrawal request.
func ValidateAddCapitalLog(req request.AddCapitalLogRequest) error {
	errors := make(map[string]string)

	if req.Type != "DEPOSIT" && req.Type != "WITHDRAW" {
		errors["type"] = "type must be DEPOSIT or WITHDRAW"
	}

	checkPositive(errors, "amount", req.Amount)

	if req.Date != "" {
		if _, err := ParseTime(req.Date); err != nil {
			errors["date"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
