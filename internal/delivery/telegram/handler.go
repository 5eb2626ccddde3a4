package telegram

import (
	"context"

	"pricewatch/pkg/middleware"

	"gopkg.in/telebot.v3"
)

func (t *TelegramBotHandler) WithContext(handler func(ctx context.Context, c telebot.Context) error) func(c telebot.Context) error {
	return middleware.WithContext(t.ctx, t.cfg.Telegram.TimeoutDuration, handler)
}

func (t *TelegramBotHandler) RegisterHandlers() {
	t.bot.Handle("/start", t.WithContext(t.handleStart))
	t.bot.Handle("/help", t.WithContext(t.handleHelp))
	t.bot.Handle("/watch", t.WithContext(t.handleWatch))
	t.bot.Handle("/nftwatch", t.WithContext(t.handleNFTWatch))
	t.bot.Handle("/watchlist", t.WithContext(t.handleWatchList))
	t.bot.Handle("/clearwatch", t.WithContext(t.handleClearWatch))
	t.bot.Handle(telebot.OnText, t.WithContext(t.handlePriceQuery))
}

func (t *TelegramBotHandler) handleStart(ctx context.Context, c telebot.Context) error {
	message := `👋 <b>Welcome to the price watch bot!</b>

I keep an eye on crypto prices and NFT floor prices for you and ping you when they drop to your level.

📉 /watch &lt;asset&gt; &lt;price&gt; - Alert when a crypto drops to a USD price
🖼 /nftwatch &lt;collection&gt; &lt;floor&gt; - Alert when an NFT floor drops (ETH)
📋 /watchlist - Show your active watches
🗑 /clearwatch [crypto|nft] - Clear your watches
🆘 /help - Full usage guide

You can also just send me an asset name (e.g. <code>btc</code>) for a live quote.`
	return c.Send(message, &telebot.SendOptions{ParseMode: telebot.ModeHTML})
}

func (t *TelegramBotHandler) handleHelp(ctx context.Context, c telebot.Context) error {
	message := `❓ <b>Price watch bot guide</b>

<b>Quotes</b>
Send any asset name or ticker (e.g. <code>btc</code>, <code>ethereum</code>) and I reply with the current price, market cap and rank.

<b>Watches</b>
/watch btc 50000 - tells me to alert you once BTC drops to $50,000 or below.
/nftwatch cool-cats 2.5 - alerts you once the cool-cats floor drops to 2.5 ETH or below.

The watched price must be at or below the current one - these are drop alerts.
Crypto watches are checked every couple of hours, NFT floors every few minutes, for about 30 days. A watch fires once and then retires.

<b>Managing</b>
/watchlist - everything you are watching right now
/clearwatch - drop all your watches
/clearwatch crypto - drop only the crypto ones
/clearwatch nft - drop only the NFT ones`
	return c.Send(message, &telebot.SendOptions{ParseMode: telebot.ModeHTML})
}
