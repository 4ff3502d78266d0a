// Package market fetches quotes, exchange rates and dividend events from the
// public finance chart API. TW symbols are suffixed with the exchange code
// before querying; US symbols pass through unchanged.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/libao/libao-backend/internal/model"
)

const (
	chartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

	// usdTWDSymbol is the chart symbol for the USD/TWD exchange rate.
	usdTWDSymbol = "TWD=X"
)

// Client fetches market data over HTTP. A zero token is fine; the token is
// only attached when the user has configured one in their settings.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a market data client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    chartBaseURL,
	}
}

// WithToken returns a copy of the client that sends the given API token on
// every request.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// WithBaseURL returns a copy of the client that queries the given endpoint
// instead of the public chart API.
func (c *Client) WithBaseURL(baseURL string) *Client {
	clone := *c
	clone.baseURL = baseURL
	return &clone
}

// ChartSymbol maps an internal symbol to the chart API's ticker format.
// TW equities are numeric and need the .TW suffix; everything else is
// passed through as-is.
func ChartSymbol(symbol string, market model.Market) string {
	if market == model.MarketTW && !strings.Contains(symbol, ".") {
		if _, err := strconv.Atoi(symbol); err == nil {
			return symbol + ".TW"
		}
	}
	return symbol
}

// Quote fetches the latest close for a symbol, falling back through the last
// five trading days so a holiday never produces a zero price.
func (c *Client) Quote(ctx context.Context, symbol string, mkt model.Market) (Quote, error) {
	url := fmt.Sprintf("%s/%s?interval=1d&range=5d", c.baseURL, ChartSymbol(symbol, mkt))

	response, err := c.query(ctx, url)
	if err != nil {
		return Quote{}, err
	}
	if len(response.Chart.Result) == 0 {
		return Quote{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	result := response.Chart.Result[0]

	name := result.Meta.LongName
	if name == "" {
		name = result.Meta.ShortName
	}

	quote := Quote{
		Symbol:   symbol,
		Name:     name,
		Currency: result.Meta.Currency,
	}

	// Prefer the live regular market price, then walk the closes backwards.
	if result.Meta.MarketPrice > 0 {
		quote.Price = result.Meta.MarketPrice
		quote.Time = time.Now().UTC()
		return quote, nil
	}

	if len(result.Indicators.Quote) == 0 {
		return Quote{}, fmt.Errorf("no close prices returned for symbol %s", symbol)
	}
	closes := result.Indicators.Quote[0].Close
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] > 0 {
			quote.Price = closes[i]
			if i < len(result.Timestamp) {
				quote.Time = time.Unix(result.Timestamp[i], 0).UTC()
			}
			return quote, nil
		}
	}

	return Quote{}, fmt.Errorf("no usable price for symbol %s", symbol)
}

// USDExchangeRate fetches the current USD to TWD rate.
func (c *Client) USDExchangeRate(ctx context.Context) (float64, error) {
	quote, err := c.Quote(ctx, usdTWDSymbol, model.MarketUS)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch USD/TWD rate: %w", err)
	}
	return quote.Price, nil
}

// Dividends fetches the cash dividends a symbol paid within the date range,
// sorted oldest first.
func (c *Client) Dividends(ctx context.Context, symbol string, mkt model.Market, start, end time.Time) ([]DividendEvent, error) {
	url := fmt.Sprintf(
		"%s/%s?interval=1d&period1=%d&period2=%d&events=div",
		c.baseURL,
		ChartSymbol(symbol, mkt),
		start.Unix(),
		end.Unix(),
	)

	response, err := c.query(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(response.Chart.Result) == 0 {
		return nil, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	dividends := response.Chart.Result[0].Events.Dividends
	events := make([]DividendEvent, 0, len(dividends))
	for _, d := range dividends {
		if d.Amount <= 0 {
			continue
		}
		events = append(events, DividendEvent{
			Symbol:         symbol,
			ExDate:         time.Unix(d.Date, 0).UTC(),
			AmountPerShare: d.Amount,
		})
	}

	sort.Slice(events, func(i, j int) bool { return events[i].ExDate.Before(events[j].ExDate) })
	return events, nil
}

func (c *Client) query(ctx context.Context, url string) (chartResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return chartResponse{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chartResponse{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return chartResponse{}, err
	}

	var response chartResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return chartResponse{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("chart api error: %s: %s",
			response.Chart.Error.Code, response.Chart.Error.Description)
	}

	return response, nil
}
