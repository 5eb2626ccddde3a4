package service

import (
	"context"
	"fmt"

	"pricewatch/config"
	"pricewatch/internal/dto"
	"pricewatch/internal/model"
	"pricewatch/internal/repository"
	"pricewatch/pkg/logger"
	"pricewatch/pkg/utils"
)

// WatchRegistry is the registration boundary: it validates a new watch
// against the asset's current value, rejects duplicates and scopes listing
// and clearing to one requester.
type WatchRegistry interface {
	Register(ctx context.Context, param dto.RegisterWatchParam) (*model.Watch, float64, error)
	List(ctx context.Context, requesterID int64) ([]dto.WatchListItem, error)
	Clear(ctx context.Context, requesterID int64, class model.AssetClass) (int64, error)
}

type watchRegistry struct {
	cfg       *config.Config
	log       *logger.Logger
	watchRepo repository.WatchRepository
	resolver  PriceResolver
}

func NewWatchRegistry(cfg *config.Config, log *logger.Logger, watchRepo repository.WatchRepository, resolver PriceResolver) WatchRegistry {
	return &watchRegistry{
		cfg:       cfg,
		log:       log,
		watchRepo: watchRepo,
		resolver:  resolver,
	}
}

// Register resolves the asset, checks the threshold is at or below the
// current value and persists the watch. Returns the created watch and the
// observed current value.
func (r *watchRegistry) Register(ctx context.Context, param dto.RegisterWatchParam) (*model.Watch, float64, error) {
	var (
		current float64
		cycles  int
	)

	switch param.AssetClass {
	case model.AssetClassNFT:
		snap, err := r.resolver.ResolveNFT(ctx, param.Name)
		if err != nil {
			return nil, 0, err
		}
		current = snap.FloorPrice
		cycles = r.cfg.Watcher.NFTWatchCycles
	default:
		snap, err := r.resolver.ResolveCrypto(ctx, param.Name)
		if err != nil {
			return nil, 0, err
		}
		current = snap.PriceUSD
		cycles = r.cfg.Watcher.CryptoWatchCycles
	}

	if param.ThresholdValue > current {
		return nil, current, fmt.Errorf("%w: threshold %.4f, current %.4f", ErrThresholdTooHigh, param.ThresholdValue, current)
	}

	watch := &model.Watch{
		Name:            param.Name,
		RequesterID:     param.RequesterID,
		RequesterName:   param.RequesterName,
		ChannelID:       param.ChannelID,
		ThresholdValue:  param.ThresholdValue,
		RemainingCycles: cycles,
	}

	if err := r.watchRepo.Insert(ctx, param.AssetClass, watch); err != nil {
		return nil, current, err
	}

	r.log.InfoContext(ctx, "Watch registered",
		logger.Field("watch_id", watch.ID),
		logger.StringField("asset_class", string(param.AssetClass)),
		logger.StringField("asset", param.Name),
		logger.Float64Field("threshold", param.ThresholdValue),
		logger.Float64Field("current", current))

	return watch, current, nil
}

func (r *watchRegistry) List(ctx context.Context, requesterID int64) ([]dto.WatchListItem, error) {
	var items []dto.WatchListItem

	for _, class := range []model.AssetClass{model.AssetClassCrypto, model.AssetClassNFT} {
		watches, err := r.watchRepo.ActiveByRequester(ctx, class, requesterID)
		if err != nil {
			return nil, err
		}
		for _, w := range watches {
			items = append(items, dto.WatchListItem{
				ID:              w.ID,
				AssetClass:      string(class),
				Name:            w.Name,
				ThresholdValue:  w.ThresholdValue,
				RemainingCycles: w.RemainingCycles,
				CreatedAt:       utils.PrettyDate(w.CreatedAt),
				Color:           utils.NameColor(w.Name),
			})
		}
	}

	return items, nil
}

func (r *watchRegistry) Clear(ctx context.Context, requesterID int64, class model.AssetClass) (int64, error) {
	count, err := r.watchRepo.DeactivateAll(ctx, class, requesterID)
	if err != nil {
		return 0, err
	}

	r.log.InfoContext(ctx, "Watches cleared",
		logger.Field("requester_id", requesterID),
		logger.StringField("asset_class", string(class)),
		logger.Field("count", count))
	return count, nil
}
