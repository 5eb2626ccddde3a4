package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pricewatch/config"
	"pricewatch/internal/dto"
	"pricewatch/internal/model"
	"pricewatch/internal/repository"
	"pricewatch/pkg/logger"
	"pricewatch/pkg/telegram"

	"gopkg.in/telebot.v3"
)

// TelegramSender is the outbound message boundary, satisfied by
// telegram.RateLimitedSender.
type TelegramSender interface {
	SendMessage(ctx context.Context, chatID int64, what interface{}, opts ...interface{}) error
}

// AlertDispatcher delivers one alert and persists the triggered state.
//
// Delivery-failure policy: a watch is marked triggered only after the send is
// confirmed. On failure the watch stays active and is re-evaluated the next
// applicable pass; the cycle countdown still runs, so an unreachable channel
// cannot keep an entry alive past its remaining cycles.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, class model.AssetClass, watch model.Watch, observed float64, snapshot interface{}) error
}

type alertDispatcher struct {
	cfg       *config.Config
	log       *logger.Logger
	watchRepo repository.WatchRepository
	sender    TelegramSender
	now       func() time.Time
}

func NewAlertDispatcher(cfg *config.Config, log *logger.Logger, watchRepo repository.WatchRepository, sender TelegramSender) AlertDispatcher {
	return &alertDispatcher{
		cfg:       cfg,
		log:       log,
		watchRepo: watchRepo,
		sender:    sender,
		now:       time.Now,
	}
}

func (d *alertDispatcher) Dispatch(ctx context.Context, class model.AssetClass, watch model.Watch, observed float64, snapshot interface{}) error {
	message := d.formatMessage(watch, observed, snapshot)

	err := d.sender.SendMessage(ctx, watch.ChannelID, message, &telebot.SendOptions{ParseMode: telebot.ModeHTML})
	if err != nil {
		return fmt.Errorf("%w: watch %d (%s): %v", ErrDeliveryFailed, watch.ID, watch.Name, err)
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		d.log.WarnContext(ctx, "Failed to marshal trigger snapshot",
			logger.ErrorField(err), logger.Field("watch_id", watch.ID))
		raw = nil
	}

	if err := d.watchRepo.MarkTriggered(ctx, class, watch.ID, raw); err != nil {
		// The alert went out but the entry is still active; the next pass may
		// re-send. Surface it loudly so the store issue gets looked at.
		d.log.ErrorContextWithAlert(ctx, "Alert delivered but watch not marked triggered",
			logger.ErrorField(err),
			logger.Field("watch_id", watch.ID),
			logger.StringField("asset", watch.Name))
		return err
	}

	d.log.InfoContext(ctx, "Alert dispatched",
		logger.Field("watch_id", watch.ID),
		logger.StringField("asset_class", string(class)),
		logger.StringField("asset", watch.Name),
		logger.Float64Field("observed", observed),
		logger.Float64Field("threshold", watch.ThresholdValue))
	return nil
}

func (d *alertDispatcher) formatMessage(watch model.Watch, observed float64, snapshot interface{}) string {
	switch snap := snapshot.(type) {
	case *dto.CryptoSnapshot:
		return telegram.FormatCryptoAlert(snap.Name, snap.Symbol, observed, watch.ThresholdValue, d.now())
	case *dto.NFTSnapshot:
		name := snap.Name
		if name == "" {
			name = watch.Name
		}
		return telegram.FormatNFTAlert(name, observed, watch.ThresholdValue, snap.NativeAsset, d.now())
	default:
		return telegram.FormatCryptoAlert(watch.Name, watch.Name, observed, watch.ThresholdValue, d.now())
	}
}
