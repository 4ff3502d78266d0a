package market

import "time"

// chartResponse maps the finance chart API response. Only the fields the
// tracker reads are declared; dividends arrive under events when the query
// asks for them.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency     string  `json:"currency"`
				Symbol       string  `json:"symbol"`
				ExchangeName string  `json:"exchangeName"`
				LongName     string  `json:"longName"`
				ShortName    string  `json:"shortName"`
				MarketPrice  float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
			Events struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote is the latest known price for a symbol.
type Quote struct {
	Symbol   string    `json:"symbol"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Currency string    `json:"currency"`
	Time     time.Time `json:"time"`
}

// DividendEvent is one cash dividend paid by a symbol.
type DividendEvent struct {
	Symbol         string    `json:"symbol"`
	ExDate         time.Time `json:"exDate"`
	AmountPerShare float64   `json:"amountPerShare"`
}
