package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"pricewatch/internal/dto"
	"pricewatch/internal/model"
	"pricewatch/internal/repository"
	"pricewatch/internal/service"
	"pricewatch/pkg/logger"
	"pricewatch/pkg/utils"

	"gopkg.in/telebot.v3"
)

func (t *TelegramBotHandler) handleWatch(ctx context.Context, c telebot.Context) error {
	return t.registerWatch(ctx, c, model.AssetClassCrypto,
		"Usage: /watch <asset> <price>\nExample: /watch btc 50000")
}

func (t *TelegramBotHandler) handleNFTWatch(ctx context.Context, c telebot.Context) error {
	return t.registerWatch(ctx, c, model.AssetClassNFT,
		"Usage: /nftwatch <collection-slug> <floor>\nExample: /nftwatch cool-cats 2.5")
}

func (t *TelegramBotHandler) registerWatch(ctx context.Context, c telebot.Context, class model.AssetClass, usage string) error {
	args := c.Args()
	if len(args) != 2 {
		return c.Send(usage)
	}

	threshold, err := strconv.ParseFloat(args[1], 64)
	if err != nil || threshold <= 0 {
		return c.Send(fmt.Sprintf("I couldn't read %q as a price.\n%s", args[1], usage))
	}

	param := dto.RegisterWatchParam{
		AssetClass:     class,
		Name:           args[0],
		RequesterID:    c.Sender().ID,
		RequesterName:  c.Sender().Username,
		ChannelID:      c.Chat().ID,
		ThresholdValue: threshold,
	}

	watch, current, err := t.services.Registry.Register(ctx, param)
	switch {
	case errors.Is(err, repository.ErrDuplicateAlert):
		return c.Send(fmt.Sprintf("You are already watching %s at %s.", args[0], utils.FormatPrice(threshold)))
	case errors.Is(err, service.ErrThresholdTooHigh):
		return c.Send(fmt.Sprintf("%s is currently at %s - a watch only makes sense at or below that.", args[0], utils.FormatPrice(current)))
	case errors.Is(err, repository.ErrNotFound):
		return c.Send(fmt.Sprintf("Failed to find %s: %s", classNoun(class), args[0]))
	case err != nil:
		t.log.ErrorContext(ctx, "Watch registration failed", logger.ErrorField(err), logger.StringField("asset", args[0]))
		return c.Send("Something went wrong registering that watch, please try again later.")
	}

	unit := "$"
	if class == model.AssetClassNFT {
		unit = t.cfg.OpenSea.NativeAsset + " "
	}

	return c.Send(fmt.Sprintf(
		"👀 Watching <b>%s</b>: I'll ping you when it drops to %s%s (now %s%s). Watch #%d runs for about 30 days.",
		args[0], unit, utils.FormatPrice(threshold), unit, utils.FormatPrice(current), watch.ID,
	), &telebot.SendOptions{ParseMode: telebot.ModeHTML})
}

func classNoun(class model.AssetClass) string {
	if class == model.AssetClassNFT {
		return "NFT collection"
	}
	return "crypto"
}
