package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"pricewatch/config"
	"pricewatch/internal/dto"
	"pricewatch/pkg/httpclient"
	"pricewatch/pkg/logger"
	"pricewatch/pkg/ratelimit"
)

const quotesLatestEndpoint = "/v2/cryptocurrency/quotes/latest"

// CryptoMarketRepository looks up crypto quotes by ticker symbol or by
// canonical name slug. Both lookups hit the same provider endpoint with
// different query keys.
type CryptoMarketRepository interface {
	QuoteBySymbol(ctx context.Context, symbol string) (*dto.CryptoQuote, error)
	QuoteBySlug(ctx context.Context, slug string) (*dto.CryptoQuote, error)
}

type cryptoMarketRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	logger     *logger.Logger
	quota      *ratelimit.TokenLimiter
}

func NewCryptoMarketRepository(cfg *config.Config, log *logger.Logger) CryptoMarketRepository {
	headers := map[string]string{
		"X-CMC_PRO_API_KEY": cfg.CoinMarketCap.APIKey,
	}
	return &cryptoMarketRepository{
		httpClient: httpclient.New(cfg.CoinMarketCap.BaseURL, cfg.CoinMarketCap.Timeout, headers),
		cfg:        cfg,
		logger:     log,
		quota:      ratelimit.NewTokenLimiter(cfg.CoinMarketCap.MaxRequestPerMin),
	}
}

func (r *cryptoMarketRepository) QuoteBySymbol(ctx context.Context, symbol string) (*dto.CryptoQuote, error) {
	if err := r.quota.Wait(ctx, 1); err != nil {
		return nil, err
	}

	var respData dto.CMCSymbolResponse
	resp, err := r.httpClient.Get(ctx, quotesLatestEndpoint, map[string]string{
		"symbol": strings.ToUpper(symbol),
	}, nil, &respData)
	if err != nil {
		return nil, fmt.Errorf("%w: symbol quote request failed: %v", ErrProvider, err)
	}

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Error("CoinMarketCap returned non-OK status for symbol quote",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("symbol", symbol))
		return nil, fmt.Errorf("%w: coinmarketcap returned status %d", ErrProvider, resp.StatusCode)
	}

	// Symbol queries return a list per key; the first entry is the provider's
	// best match for the ticker.
	for _, coins := range respData.Data {
		if len(coins) > 0 {
			return toCryptoQuote(coins[0]), nil
		}
	}
	return nil, ErrNotFound
}

func (r *cryptoMarketRepository) QuoteBySlug(ctx context.Context, slug string) (*dto.CryptoQuote, error) {
	if err := r.quota.Wait(ctx, 1); err != nil {
		return nil, err
	}

	var respData dto.CMCSlugResponse
	resp, err := r.httpClient.Get(ctx, quotesLatestEndpoint, map[string]string{
		"slug": strings.ToLower(slug),
	}, nil, &respData)
	if err != nil {
		return nil, fmt.Errorf("%w: slug quote request failed: %v", ErrProvider, err)
	}

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Error("CoinMarketCap returned non-OK status for slug quote",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("slug", slug))
		return nil, fmt.Errorf("%w: coinmarketcap returned status %d", ErrProvider, resp.StatusCode)
	}

	for _, coin := range respData.Data {
		return toCryptoQuote(coin), nil
	}
	return nil, ErrNotFound
}

func toCryptoQuote(coin dto.CMCCoin) *dto.CryptoQuote {
	usd := coin.Quote["USD"]
	return &dto.CryptoQuote{
		Name:             coin.Name,
		Symbol:           coin.Symbol,
		Slug:             coin.Slug,
		Rank:             coin.CMCRank,
		IsFiat:           coin.IsFiat == 1,
		PriceUSD:         usd.Price,
		MarketCapUSD:     usd.MarketCap,
		PercentChange1h:  usd.PercentChange1h,
		PercentChange24h: usd.PercentChange24h,
		PercentChange7d:  usd.PercentChange7d,
		PercentChange30d: usd.PercentChange30d,
	}
}
