package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"pricewatch/config"
	"pricewatch/internal/model"
	"pricewatch/internal/repository"
	"pricewatch/pkg/logger"

	"github.com/robfig/cron/v3"
)

// DigestService sends a daily summary of the watch tables to the ops chat.
type DigestService struct {
	cfg       *config.Config
	log       *logger.Logger
	watchRepo repository.WatchRepository
	sender    TelegramSender
	cron      *cron.Cron
	now       func() time.Time
}

func NewDigestService(cfg *config.Config, log *logger.Logger, watchRepo repository.WatchRepository, sender TelegramSender) *DigestService {
	return &DigestService{
		cfg:       cfg,
		log:       log,
		watchRepo: watchRepo,
		sender:    sender,
		cron:      cron.New(),
		now:       time.Now,
	}
}

func (s *DigestService) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Watcher.DigestCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := s.Run(ctx); err != nil {
			s.log.ErrorContext(ctx, "Digest run failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule digest: %w", err)
	}

	s.cron.Start()
	s.log.Info("Digest scheduled", logger.StringField("cron", s.cfg.Watcher.DigestCron))
	return nil
}

func (s *DigestService) Stop() {
	s.cron.Stop()
}

// Run produces one digest immediately.
func (s *DigestService) Run(ctx context.Context) error {
	since := s.now().Add(-24 * time.Hour)

	var lines string
	for _, class := range []model.AssetClass{model.AssetClassCrypto, model.AssetClassNFT} {
		active, err := s.watchRepo.CountActive(ctx, class)
		if err != nil {
			return err
		}
		triggered, err := s.watchRepo.CountTriggeredSince(ctx, class, since)
		if err != nil {
			return err
		}

		s.log.InfoContext(ctx, "Watch digest",
			logger.StringField("asset_class", string(class)),
			logger.Field("active", active),
			logger.Field("triggered_24h", triggered))
		lines += fmt.Sprintf("%s: %d active, %d triggered in last 24h\n", class, active, triggered)
	}

	if s.cfg.Telegram.OpsChatID == "" {
		return nil
	}

	chatID, err := strconv.ParseInt(s.cfg.Telegram.OpsChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ops chat id: %w", err)
	}
	return s.sender.SendMessage(ctx, chatID, "📊 Daily watch digest\n\n"+lines)
}
