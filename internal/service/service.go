package service

import (
	"pricewatch/config"
	"pricewatch/internal/repository"
	"pricewatch/pkg/cache"
	"pricewatch/pkg/logger"
)

type Service struct {
	Resolver   PriceResolver
	Registry   WatchRegistry
	Dispatcher AlertDispatcher
	Watcher    *Watcher
	Digest     *DigestService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	sender TelegramSender,
) *Service {
	resolver := NewPriceResolver(cfg, log, repo.CryptoMarketRepo, repo.NFTMarketRepo, repo.FxRateRepo, inmemoryCache)
	dispatcher := NewAlertDispatcher(cfg, log, repo.WatchRepo, sender)

	return &Service{
		Resolver:   resolver,
		Registry:   NewWatchRegistry(cfg, log, repo.WatchRepo, resolver),
		Dispatcher: dispatcher,
		Watcher:    NewWatcher(cfg, log, repo.WatchRepo, resolver, dispatcher),
		Digest:     NewDigestService(cfg, log, repo.WatchRepo, sender),
	}
}
