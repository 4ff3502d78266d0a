package market_test

import (
	"context"
	"testing"
	"time"

	"github.com/libao/libao-backend/internal/market"
	"github.com/libao/libao-backend/internal/model"
	"github.com/libao/libao-backend/internal/testutil"
)

func TestChartSymbol(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		market model.Market
		want   string
	}{
		{"numeric TW equity gets suffix", "2330", model.MarketTW, "2330.TW"},
		{"TW ETF gets suffix", "0050", model.MarketTW, "0050.TW"},
		{"already suffixed passes through", "2330.TW", model.MarketTW, "2330.TW"},
		{"non-numeric TW passes through", "TWD=X", model.MarketTW, "TWD=X"},
		{"US symbol passes through", "AAPL", model.MarketUS, "AAPL"},
		{"US numeric-looking symbol passes through", "5", model.MarketUS, "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := market.ChartSymbol(tt.symbol, tt.market); got != tt.want {
				t.Errorf("ChartSymbol(%q, %s) = %q, want %q", tt.symbol, tt.market, got, tt.want)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	t.Run("prefers the regular market price", func(t *testing.T) {
		server := testutil.NewChartServer(t, map[string]testutil.ChartStub{
			"2330.TW": {Name: "台積電", Currency: "TWD", Price: 505},
		})
		client := market.NewClient(5 * time.Second).WithBaseURL(server.URL)

		quote, err := client.Quote(context.Background(), "2330", model.MarketTW)
		if err != nil {
			t.Fatalf("Quote() error = %v", err)
		}
		if quote.Price != 505 {
			t.Errorf("Expected price 505, got %v", quote.Price)
		}
		if quote.Name != "台積電" || quote.Currency != "TWD" {
			t.Errorf("Unexpected quote metadata: %+v", quote)
		}
	})

	t.Run("falls back through the close series skipping zeros", func(t *testing.T) {
		server := testutil.NewChartServer(t, map[string]testutil.ChartStub{
			"AAPL": {
				Currency:   "USD",
				Closes:     []float64{190, 191.5, 0, 0},
				Timestamps: []int64{1704067200, 1704153600, 1704240000, 1704326400},
			},
		})
		client := market.NewClient(5 * time.Second).WithBaseURL(server.URL)

		quote, err := client.Quote(context.Background(), "AAPL", model.MarketUS)
		if err != nil {
			t.Fatalf("Quote() error = %v", err)
		}
		if quote.Price != 191.5 {
			t.Errorf("Expected last non-zero close 191.5, got %v", quote.Price)
		}
		if quote.Time.Unix() != 1704153600 {
			t.Errorf("Expected timestamp of the matched close, got %v", quote.Time)
		}
	})

	t.Run("unknown symbol surfaces the chart error", func(t *testing.T) {
		server := testutil.NewChartServer(t, map[string]testutil.ChartStub{})
		client := market.NewClient(5 * time.Second).WithBaseURL(server.URL)

		if _, err := client.Quote(context.Background(), "NOPE", model.MarketUS); err == nil {
			t.Error("Expected an error for an unknown symbol")
		}
	})
}

func TestUSDExchangeRate(t *testing.T) {
	server := testutil.NewChartServer(t, map[string]testutil.ChartStub{
		"TWD=X": {Currency: "TWD", Price: 31.42},
	})
	client := market.NewClient(5 * time.Second).WithBaseURL(server.URL)

	rate, err := client.USDExchangeRate(context.Background())
	if err != nil {
		t.Fatalf("USDExchangeRate() error = %v", err)
	}
	if rate != 31.42 {
		t.Errorf("Expected rate 31.42, got %v", rate)
	}
}

func TestDividends(t *testing.T) {
	march := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	july := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	server := testutil.NewChartServer(t, map[string]testutil.ChartStub{
		"2330.TW": {
			Currency: "TWD",
			Price:    505,
			Dividends: map[int64]float64{
				july.Unix():  3.5,
				march.Unix(): 3,
			},
		},
	})
	client := market.NewClient(5 * time.Second).WithBaseURL(server.URL)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	events, err := client.Dividends(context.Background(), "2330", model.MarketTW, start, end)
	if err != nil {
		t.Fatalf("Dividends() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if !events[0].ExDate.Equal(march) || events[0].AmountPerShare != 3 {
		t.Errorf("Expected oldest event first, got %+v", events[0])
	}
	if !events[1].ExDate.Equal(july) || events[1].AmountPerShare != 3.5 {
		t.Errorf("Unexpected second event: %+v", events[1])
	}
}
