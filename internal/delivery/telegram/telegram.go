package telegram

import (
	"context"

	"pricewatch/config"
	"pricewatch/internal/service"
	"pricewatch/pkg/logger"

	"gopkg.in/telebot.v3"
)

type TelegramBotHandler struct {
	ctx      context.Context
	cfg      *config.Config
	log      *logger.Logger
	bot      *telebot.Bot
	services *service.Service
}

func NewTelegramBotHandler(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	bot *telebot.Bot,
	services *service.Service,
) *TelegramBotHandler {
	return &TelegramBotHandler{
		ctx:      ctx,
		cfg:      cfg,
		log:      log,
		bot:      bot,
		services: services,
	}
}

func (t *TelegramBotHandler) Start() {
	t.RegisterHandlers()
	t.log.Info("Telegram bot started")
	t.bot.Start()
}

func (t *TelegramBotHandler) Stop() {
	t.bot.Stop()
	t.log.Info("Telegram bot stopped")
}
