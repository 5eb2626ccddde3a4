package repository

import (
	"pricewatch/config"
	"pricewatch/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	WatchRepo        WatchRepository
	CryptoMarketRepo CryptoMarketRepository
	NFTMarketRepo    NFTMarketRepository
	FxRateRepo       FxRateRepository
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) *Repository {
	return &Repository{
		WatchRepo:        NewWatchRepository(db),
		CryptoMarketRepo: NewCryptoMarketRepository(cfg, log),
		NFTMarketRepo:    NewNFTMarketRepository(cfg, log),
		FxRateRepo:       NewFxRateRepository(cfg, log),
	}
}
