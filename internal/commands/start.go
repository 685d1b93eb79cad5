package commands

import (
	"github.com/machiloop14/memecoin-price-tracker-bot/lib/helpers"
	"github.com/machiloop14/memecoin-price-tracker-bot/lib/translation"
)

func CommandStart() string {
	return helpers.EscapeMarkdownV2(translation.Translate(
		"👋 Welcome! Send /track <token_address> and I'll monitor its price against SOL.",
	))
}
