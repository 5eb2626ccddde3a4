package telegram

import (
	"context"
	"strconv"
	"time"

	"pricewatch/config"
	"pricewatch/pkg/logger"
	"pricewatch/pkg/ratelimit"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// RateLimitedSender serialises outbound sends through a global limiter plus a
// per-chat limiter, the way the Bot API meters them.
type RateLimitedSender struct {
	cfg           *config.TelegramConfig
	log           *logger.Logger
	bot           *telebot.Bot
	globalLimiter *rate.Limiter
	chatLimiters  *ratelimit.LimiterStore
}

func NewRateLimitedSender(cfg *config.TelegramConfig, log *logger.Logger, bot *telebot.Bot) *RateLimitedSender {
	return &RateLimitedSender{
		cfg:           cfg,
		log:           log,
		bot:           bot,
		globalLimiter: rate.NewLimiter(rate.Limit(cfg.MaxGlobalRequestPerSecond), cfg.MaxGlobalRequestPerSecond),
		chatLimiters:  ratelimit.NewLimiterStore(rate.Limit(cfg.MaxChatRequestPerSecond), 1, 10*time.Minute),
	}
}

// SendMessage delivers a message to one chat, honouring both limiters.
func (t *RateLimitedSender) SendMessage(ctx context.Context, chatID int64, what interface{}, opts ...interface{}) error {
	if err := t.globalLimiter.Wait(ctx); err != nil {
		return err
	}
	if err := t.chatLimiters.GetLimiter(strconv.FormatInt(chatID, 10)).Wait(ctx); err != nil {
		return err
	}

	_, err := t.bot.Send(telebot.ChatID(chatID), what, opts...)
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to send telegram message", logger.ErrorField(err), logger.Field("chat_id", chatID))
	}
	return err
}

// CleanupLoop drops idle per-chat limiters until ctx is cancelled.
func (t *RateLimitedSender) CleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.chatLimiters.Cleanup()
		}
	}
}
