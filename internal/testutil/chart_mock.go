package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

// ChartStub is one symbol's canned chart API response. Keys in the stub map
// use the chart ticker format, so TW equities carry the .TW suffix.
type ChartStub struct {
	Name       string
	Currency   string
	Price      float64 // served as regularMarketPrice
	Closes     []float64
	Timestamps []int64
	Dividends  map[int64]float64 // ex-date unix seconds -> amount per share
	Fail       bool
}

// NewChartServer starts a fake chart API that serves the given stubs.
// Unknown symbols get the upstream's not-found error shape.
func NewChartServer(t *testing.T, stubs map[string]ChartStub) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.TrimPrefix(r.URL.Path, "/")
		w.Header().Set("Content-Type", "application/json")

		stub, ok := stubs[symbol]
		if !ok || stub.Fail {
			json.NewEncoder(w).Encode(map[string]any{
				"chart": map[string]any{
					"result": nil,
					"error":  map[string]any{"code": "Not Found", "description": "No data found, symbol may be delisted"},
				},
			})
			return
		}

		meta := map[string]any{
			"currency":  stub.Currency,
			"symbol":    symbol,
			"shortName": stub.Name,
		}
		if stub.Price > 0 {
			meta["regularMarketPrice"] = stub.Price
		}

		result := map[string]any{
			"meta":      meta,
			"timestamp": stub.Timestamps,
			"indicators": map[string]any{
				"quote": []any{map[string]any{"close": stub.Closes}},
			},
		}

		if len(stub.Dividends) > 0 {
			dividends := make(map[string]any, len(stub.Dividends))
			for ts, amount := range stub.Dividends {
				dividends[strconv.FormatInt(ts, 10)] = map[string]any{"amount": amount, "date": ts}
			}
			result["events"] = map[string]any{"dividends": dividends}
		}

		json.NewEncoder(w).Encode(map[string]any{
			"chart": map[string]any{"result": []any{result}, "error": nil},
		})
	}))
	t.Cleanup(server.Close)
	return server
}
