package telegram

import (
	"fmt"
	"strings"
	"time"

	"pricewatch/pkg/utils"
)

// FormatCryptoAlert renders the message sent when a crypto watch fires.
func FormatCryptoAlert(name, symbol string, observed, threshold float64, t time.Time) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("🔔 <b>%s (%s)</b> dropped to your watch level\n", name, symbol))
	builder.WriteString(fmt.Sprintf("💰 Current: $%s (watched: $%s)\n", utils.FormatPrice(observed), utils.FormatPrice(threshold)))
	builder.WriteString(utils.PrettyDate(t))
	return builder.String()
}

// FormatNFTAlert renders the message sent when an NFT floor watch fires.
func FormatNFTAlert(collection string, floor, threshold float64, unit string, t time.Time) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("🔔 <b>%s</b> floor dropped to your watch level\n", collection))
	builder.WriteString(fmt.Sprintf("💰 Floor: %s %s (watched: %s %s)\n", utils.FormatPrice(floor), unit, utils.FormatPrice(threshold), unit))
	builder.WriteString(utils.PrettyDate(t))
	return builder.String()
}
