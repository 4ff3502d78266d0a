package validation

import (
	"github.com/libao/libao-backend/internal/api/request"
)

// ValidateUpdateSettings validates a settings update request.
func ValidateUpdateSettings(req request.UpdateSettingsRequest) error {
	errors := make(map[string]string)

	checkPositive(errors, "usdExchangeRate", req.USDExchangeRate)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
