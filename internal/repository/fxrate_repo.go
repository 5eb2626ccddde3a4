package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"pricewatch/config"
	"pricewatch/pkg/httpclient"
	"pricewatch/pkg/logger"
)

// FxRateRepository returns a live conversion rate between two fiat currencies.
// Failures are treated as optional-enrichment failures by the resolver.
type FxRateRepository interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

type fxRateRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	logger     *logger.Logger
}

func NewFxRateRepository(cfg *config.Config, log *logger.Logger) FxRateRepository {
	return &fxRateRepository{
		httpClient: httpclient.New(cfg.FxRate.BaseURL, cfg.FxRate.Timeout, nil),
		cfg:        cfg,
		logger:     log,
	}
}

func (r *fxRateRepository) Rate(ctx context.Context, from, to string) (float64, error) {
	pair := fmt.Sprintf("%s_%s", strings.ToUpper(from), strings.ToUpper(to))

	var respData map[string]float64
	resp, err := r.httpClient.Get(ctx, "/api/v7/convert", map[string]string{
		"q":       pair,
		"compact": "ultra",
		"apiKey":  r.cfg.FxRate.APIKey,
	}, nil, &respData)
	if err != nil {
		return 0, fmt.Errorf("%w: fx rate request failed: %v", ErrProvider, err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("FX rate provider returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("pair", pair))
		return 0, fmt.Errorf("%w: fx provider returned status %d", ErrProvider, resp.StatusCode)
	}

	rate, ok := respData[pair]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: no rate for pair %s", ErrNotFound, pair)
	}
	return rate, nil
}
