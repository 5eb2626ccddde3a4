package dto

// CMCQuote is one currency leg of a CoinMarketCap quote.
type CMCQuote struct {
	Price            float64 `json:"price"`
	MarketCap        float64 `json:"market_cap"`
	PercentChange1h  float64 `json:"percent_change_1h"`
	PercentChange24h float64 `json:"percent_change_24h"`
	PercentChange7d  float64 `json:"percent_change_7d"`
	PercentChange30d float64 `json:"percent_change_30d"`
	LastUpdated      string  `json:"last_updated"`
}

type CMCCoin struct {
	ID      int                 `json:"id"`
	Name    string              `json:"name"`
	Symbol  string              `json:"symbol"`
	Slug    string              `json:"slug"`
	CMCRank int                 `json:"cmc_rank"`
	IsFiat  int                 `json:"is_fiat"`
	Quote   map[string]CMCQuote `json:"quote"`
}

type CMCStatus struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// CMCSymbolResponse is the shape of /v2/cryptocurrency/quotes/latest when
// queried by symbol: data is keyed by symbol and each key holds a list of
// coins sharing that ticker.
type CMCSymbolResponse struct {
	Status CMCStatus            `json:"status"`
	Data   map[string][]CMCCoin `json:"data"`
}

// CMCSlugResponse is the same endpoint queried by slug: data is keyed by
// CoinMarketCap id and holds a single coin per key.
type CMCSlugResponse struct {
	Status CMCStatus          `json:"status"`
	Data   map[string]CMCCoin `json:"data"`
}

// CryptoQuote is the provider-neutral result of one crypto lookup.
type CryptoQuote struct {
	Name             string  `json:"name"`
	Symbol           string  `json:"symbol"`
	Slug             string  `json:"slug"`
	Rank             int     `json:"rank"`
	IsFiat           bool    `json:"is_fiat"`
	PriceUSD         float64 `json:"price_usd"`
	MarketCapUSD     float64 `json:"market_cap_usd"`
	PercentChange1h  float64 `json:"percent_change_1h"`
	PercentChange24h float64 `json:"percent_change_24h"`
	PercentChange7d  float64 `json:"percent_change_7d"`
	PercentChange30d float64 `json:"percent_change_30d"`
}

// CryptoSnapshot is a resolved crypto price, optionally enriched with a
// second-currency value derived from a live FX rate.
type CryptoSnapshot struct {
	CryptoQuote
	QuoteCurrency string   `json:"quote_currency,omitempty"`
	PriceQuoted   *float64 `json:"price_quoted,omitempty"`
}
