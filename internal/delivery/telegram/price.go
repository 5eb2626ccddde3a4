package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pricewatch/internal/repository"
	"pricewatch/pkg/logger"
	"pricewatch/pkg/utils"

	"gopkg.in/telebot.v3"
)

// handlePriceQuery treats any plain text message as an ad-hoc quote lookup.
func (t *TelegramBotHandler) handlePriceQuery(ctx context.Context, c telebot.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == "" || strings.HasPrefix(text, "/") {
		return nil
	}

	// Quote lookups are single-token. Anything longer is conversation, not
	// an asset name.
	if len(strings.Fields(text)) > 1 {
		return nil
	}

	snap, err := t.services.Resolver.ResolveCrypto(ctx, text)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Send(fmt.Sprintf("Failed to find crypto: %s", text))
	case err != nil:
		t.log.ErrorContext(ctx, "Price query failed", logger.ErrorField(err), logger.StringField("asset", text))
		return c.Send("Couldn't fetch that price right now, please try again later.")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💰 <b>%s (%s)</b>", snap.Name, snap.Symbol))
	if snap.Rank > 0 {
		sb.WriteString(fmt.Sprintf(" - rank #%d", snap.Rank))
	}
	sb.WriteString(fmt.Sprintf("\n\nUSD: $%s", utils.FormatPrice(snap.PriceUSD)))
	if snap.PriceQuoted != nil {
		sb.WriteString(fmt.Sprintf("\n%s: %s", snap.QuoteCurrency, utils.FormatPrice(*snap.PriceQuoted)))
	}
	if snap.MarketCapUSD > 0 {
		sb.WriteString(fmt.Sprintf("\nMarket cap: $%s", utils.FormatAmount(utils.RoundToSig(snap.MarketCapUSD, 6))))
	}
	sb.WriteString(fmt.Sprintf("\n24h: %+.2f%% | 7d: %+.2f%%", snap.PercentChange24h, snap.PercentChange7d))

	return c.Send(sb.String(), &telebot.SendOptions{ParseMode: telebot.ModeHTML})
}
