package telegram

import (
	"context"
	"fmt"
	"strings"

	"pricewatch/internal/model"
	"pricewatch/pkg/logger"
	"pricewatch/pkg/utils"

	"gopkg.in/telebot.v3"
)

func (t *TelegramBotHandler) handleWatchList(ctx context.Context, c telebot.Context) error {
	items, err := t.services.Registry.List(ctx, c.Sender().ID)
	if err != nil {
		t.log.ErrorContext(ctx, "Watch list failed", logger.ErrorField(err))
		return c.Send("Couldn't load your watches right now, please try again later.")
	}

	if len(items) == 0 {
		return c.Send("You have no active watches. Start one with /watch or /nftwatch.")
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Your active watches</b>\n")
	for _, item := range items {
		unit := "$"
		if item.AssetClass == string(model.AssetClassNFT) {
			unit = t.cfg.OpenSea.NativeAsset + " "
		}
		sb.WriteString(fmt.Sprintf("\n#%d <b>%s</b> [%s]\nAlert at %s%s, %d checks left, since %s\n",
			item.ID,
			item.Name,
			item.AssetClass,
			unit,
			utils.FormatPrice(item.ThresholdValue),
			item.RemainingCycles,
			item.CreatedAt))
	}

	return c.Send(sb.String(), &telebot.SendOptions{ParseMode: telebot.ModeHTML})
}

func (t *TelegramBotHandler) handleClearWatch(ctx context.Context, c telebot.Context) error {
	classes := []model.AssetClass{model.AssetClassCrypto, model.AssetClassNFT}

	if args := c.Args(); len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "crypto":
			classes = classes[:1]
		case "nft":
			classes = classes[1:]
		default:
			return c.Send("Usage: /clearwatch [crypto|nft]")
		}
	}

	var total int64
	for _, class := range classes {
		count, err := t.services.Registry.Clear(ctx, c.Sender().ID, class)
		if err != nil {
			t.log.ErrorContext(ctx, "Clear watches failed", logger.ErrorField(err), logger.StringField("asset_class", string(class)))
			return c.Send("Couldn't clear your watches right now, please try again later.")
		}
		total += count
	}

	if total == 0 {
		return c.Send("Nothing to clear - you had no active watches.")
	}
	return c.Send(fmt.Sprintf("🗑 Cleared %d watch(es).", total))
}
