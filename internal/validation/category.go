package validation

import (
	"strings"

	"github.com/libao/libao-backend/internal/api/request"
)

// ValidateCategory validates a category create or update request.
func ValidateCategory(req request.CategoryRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}

	if req.Market != "" && req.Market != "TW" && req.Market != "US" {
		errors["market"] = "market must be TW or US"
	}

	if req.AllocationPercent < 0 || req.AllocationPercent > 100 {
		errors["allocationPercent"] = "allocationPercent must be between 0 and 100"
	}

	if err := validateCollection(req.Collection); err != "" {
		errors["collection"] = err
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
