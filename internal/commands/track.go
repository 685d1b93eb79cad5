package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/machiloop14/memecoin-price-tracker-bot/config"
	"github.com/machiloop14/memecoin-price-tracker-bot/internal/types"
	"github.com/machiloop14/memecoin-price-tracker-bot/lib/helpers"
	"github.com/machiloop14/memecoin-price-tracker-bot/lib/translation"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CommandTrack registers a new alert for the chat. The capacity limit is
// enforced before any upstream call so a full chat never costs a resolution
// round-trip. Any resolution or quote failure aborts without creating a
// record.
func CommandTrack(chatID int64, argument string) (string, error) {
	log.Debugf("processing command /track with argument :%s", argument)

	tokenAddress := strings.TrimSpace(argument)
	if tokenAddress == "" {
		return helpers.EscapeMarkdownV2(translation.Translate("⚠️ Usage: /track <token_address>")), nil
	}

	if reg.CountByChat(chatID) >= maxAlertsPerChat {
		return helpers.EscapeMarkdownV2(translation.Translate(
			"⚠️ Max %d tokens per user. Delete one to add more.", maxAlertsPerChat)), nil
	}

	pairAddress, tokenName, err := resolver.ResolvePair(context.Background(), tokenAddress)
	if err != nil {
		log.Debugf("could not resolve pair for %s: %v", tokenAddress, err)
		return helpers.EscapeMarkdownV2(translation.Translate(
			"❌ Could not find a %s pair for this token.", config.GetString("reference_symbol"))), nil
	}

	basePrice, marketCap, err := resolver.FetchQuote(context.Background(), pairAddress)
	if err != nil || basePrice <= 0 {
		// a zero quote is valid data but unusable as the crossing divisor
		return helpers.EscapeMarkdownV2(translation.Translate("❌ Failed to fetch token price.")), nil
	}

	alert := types.Alert{
		AlertID:      uuid.NewString()[:8],
		ChatID:       chatID,
		TokenName:    tokenName,
		TokenAddress: tokenAddress,
		PairAddress:  pairAddress,
		BasePrice:    basePrice,
		MarketCap:    marketCap,
		LastMultiple: 1,
		CreatedAt:    time.Now().UTC().Format("2006-01-02 15:04:05"),
	}

	if err := reg.Create(alert); err != nil {
		return "", errors.Wrap(err, "command /track")
	}

	return fmt.Sprintf(
		"🔔 *Tracking Started\\!*\n"+
			"📌 Alert ID: `%s`\n"+
			"🪙 Token: %s\n"+
			"💰 Start Price: $%s\n"+
			"🏦 Market Cap: $%s\n"+
			"❌ Delete: `/delete %s`",
		alert.AlertID,
		helpers.EscapeMarkdownV2(alert.TokenName),
		helpers.FormatPriceUS(alert.BasePrice, true),
		helpers.FormatMarketCapUS(alert.MarketCap),
		alert.AlertID,
	), nil
}
