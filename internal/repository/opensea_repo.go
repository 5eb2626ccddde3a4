package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pricewatch/config"
	"pricewatch/internal/dto"
	"pricewatch/pkg/httpclient"
	"pricewatch/pkg/logger"

	"golang.org/x/time/rate"
)

// NFTMarketRepository looks up collection stats by slug. Validity filtering of
// the returned stats is the resolver's concern.
type NFTMarketRepository interface {
	CollectionStats(ctx context.Context, slug string) (*dto.NFTCollectionStats, error)
}

type nftMarketRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewNFTMarketRepository(cfg *config.Config, log *logger.Logger) NFTMarketRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.OpenSea.MaxRequestPerMin)
	headers := map[string]string{}
	if cfg.OpenSea.APIKey != "" {
		headers["X-API-KEY"] = cfg.OpenSea.APIKey
	}

	return &nftMarketRepository{
		httpClient:     httpclient.New(cfg.OpenSea.BaseURL, cfg.OpenSea.Timeout, headers),
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *nftMarketRepository) CollectionStats(ctx context.Context, slug string) (*dto.NFTCollectionStats, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/api/v1/collection/%s", strings.ToLower(slug))

	var respData dto.OpenSeaCollectionResponse
	resp, err := r.httpClient.Get(ctx, endpoint, nil, nil, &respData)
	if err != nil {
		return nil, fmt.Errorf("%w: collection request failed: %v", ErrProvider, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Error("OpenSea returned non-OK status for collection",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("slug", slug))
		return nil, fmt.Errorf("%w: opensea returned status %d", ErrProvider, resp.StatusCode)
	}

	col := respData.Collection
	return &dto.NFTCollectionStats{
		Name:        col.Name,
		Slug:        col.Slug,
		FloorPrice:  col.Stats.FloorPrice,
		MarketCap:   col.Stats.MarketCap,
		NumOwners:   col.Stats.NumOwners,
		TotalSupply: col.Stats.TotalSupply,
		ImageURL:    col.ImageURL,
		ExternalURL: col.ExternalURL,
	}, nil
}
