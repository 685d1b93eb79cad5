package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/machiloop14/memecoin-price-tracker-bot/lib/helpers"
	"github.com/machiloop14/memecoin-price-tracker-bot/lib/translation"

	log "github.com/sirupsen/logrus"
)

// CommandList renders every live alert of the chat, each augmented with a
// freshly fetched price, market cap and multiple-so-far. Quote fetches are
// best-effort: a failed fetch marks the live fields N/A but never fails the
// whole listing.
func CommandList(chatID int64) string {
	log.Debugf("processing command /list for chat %d", chatID)

	alerts := reg.ListByChat(chatID)
	if len(alerts) == 0 {
		return helpers.EscapeMarkdownV2(translation.Translate("📭 No active alerts."))
	}

	var list strings.Builder
	list.WriteString("📋 *" + helpers.EscapeMarkdownV2(translation.Translate("Your Alerts:")) + "*\n")

	for i, alert := range alerts {
		currentPrice := "N/A"
		currentCap := "N/A"
		multiple := "N/A"

		price, marketCap, err := resolver.FetchQuote(context.Background(), alert.PairAddress)
		if err == nil {
			currentPrice = "$" + helpers.FormatPriceUS(price, true)
			currentCap = "$" + helpers.FormatMarketCapUS(marketCap)
			multiple = helpers.FormatMultiple(price / alert.BasePrice)
		}

		list.WriteString(fmt.Sprintf(
			"\n%d\\. 🪙 %s\n"+
				"   📌 ID: `%s`\n"+
				"   💰 Base: $%s\n"+
				"   💰 Current: %s\n"+
				"   🏦 Base Cap: $%s\n"+
				"   🏦 Current Cap: %s\n"+
				"   🔢 Multiple: %s\n"+
				"   🗓 Since: %s\n",
			i+1,
			helpers.EscapeMarkdownV2(alert.TokenName),
			alert.AlertID,
			helpers.FormatPriceUS(alert.BasePrice, true),
			currentPrice,
			helpers.FormatMarketCapUS(alert.MarketCap),
			currentCap,
			multiple,
			helpers.EscapeMarkdownV2(alert.CreatedAt),
		))
	}

	return list.String()
}
