package validation_test

import (
	"math"
	"testing"

	"github.com/libao/libao-backend/internal/api/request"
	"github.com/libao/libao-backend/internal/validation"
)

func validOrderRequest() request.ExecuteOrderRequest {
	return request.ExecuteOrderRequest{
		CategoryID:   "cat-1",
		Symbol:       "2330",
		Action:       "BUY",
		Price:        500,
		Shares:       100,
		ExchangeRate: 1,
		Fee:          20,
		TotalAmount:  50020,
		Date:         "2024-01-15",
	}
}

func TestValidateExecuteOrder(t *testing.T) {
	t.Run("valid request passes", func(t *testing.T) {
		if err := validation.ValidateExecuteOrder(validOrderRequest()); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*request.ExecuteOrderRequest)
		field  string
	}{
		{"missing category", func(r *request.ExecuteOrderRequest) { r.CategoryID = " " }, "categoryId"},
		{"missing symbol", func(r *request.ExecuteOrderRequest) { r.Symbol = "" }, "symbol"},
		{"unknown action", func(r *request.ExecuteOrderRequest) { r.Action = "SHORT" }, "action"},
		{"unknown collection", func(r *request.ExecuteOrderRequest) { r.Collection = "shared" }, "collection"},
		{"zero price", func(r *request.ExecuteOrderRequest) { r.Price = 0 }, "price"},
		{"negative shares", func(r *request.ExecuteOrderRequest) { r.Shares = -5 }, "shares"},
		{"NaN shares", func(r *request.ExecuteOrderRequest) { r.Shares = math.NaN() }, "shares"},
		{"infinite total", func(r *request.ExecuteOrderRequest) { r.TotalAmount = math.Inf(1) }, "totalAmount"},
		{"negative fee", func(r *request.ExecuteOrderRequest) { r.Fee = -1 }, "fee"},
		{"missing date", func(r *request.ExecuteOrderRequest) { r.Date = "" }, "transactionDate"},
		{"malformed date", func(r *request.ExecuteOrderRequest) { r.Date = "15/01/2024" }, "transactionDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validOrderRequest()
			tt.mutate(&req)

			err := validation.ValidateExecuteOrder(req)
			if err == nil {
				t.Fatal("Expected a validation error")
			}

			var verr *validation.Error
			if !asValidationError(err, &verr) {
				t.Fatalf("Expected *validation.Error, got %T", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("Expected error on field %q, got %v", tt.field, verr.Fields)
			}
		})
	}

	t.Run("martingale collection is accepted", func(t *testing.T) {
		req := validOrderRequest()
		req.Collection = "martingale"
		if err := validation.ValidateExecuteOrder(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}

func asValidationError(err error, target **validation.Error) bool {
	verr, ok := err.(*validation.Error)
	if ok {
		*target = verr
	}
	return ok
}

func TestParseTime(t *testing.T) {
	t.Run("date only", func(t *testing.T) {
		ts, err := validation.ParseTime("2024-01-15")
		if err != nil {
			t.Fatalf("ParseTime() error = %v", err)
		}
		if ts.Year() != 2024 || ts.Month() != 1 || ts.Day() != 15 {
			t.Errorf("Unexpected time: %v", ts)
		}
	})

	t.Run("RFC3339", func(t *testing.T) {
		ts, err := validation.ParseTime("2024-01-15T09:30:00+08:00")
		if err != nil {
			t.Fatalf("ParseTime() error = %v", err)
		}
		if ts.Location() != ts.UTC().Location() {
			t.Errorf("Expected UTC normalization, got %v", ts.Location())
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := validation.ParseTime("last tuesday"); err == nil {
			t.Error("Expected an error")
		}
	})
}
