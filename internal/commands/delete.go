package commands

import (
	"fmt"
	"strings"

	"github.com/machiloop14/memecoin-price-tracker-bot/lib/helpers"
	"github.com/machiloop14/memecoin-price-tracker-bot/lib/translation"

	log "github.com/sirupsen/logrus"
)

// CommandDelete removes one of the chat's own alerts. Unknown IDs and IDs
// owned by another chat get the same reply, so identifiers cannot be probed
// or deleted across chats.
func CommandDelete(chatID int64, argument string) string {
	log.Debugf("processing command /delete with argument :%s", argument)

	alertID := strings.TrimSpace(argument)
	if alertID == "" {
		return helpers.EscapeMarkdownV2(translation.Translate("⚠️ Usage: /delete <alert_id>"))
	}

	alert, ok := reg.Get(alertID)
	if !ok || alert.ChatID != chatID {
		return helpers.EscapeMarkdownV2(translation.Translate("❌ Alert ID not found."))
	}

	reg.Delete(alertID)
	return fmt.Sprintf(helpers.EscapeMarkdownV2(translation.Translate("✅ Alert %s deleted.")), "`"+alertID+"`")
}
