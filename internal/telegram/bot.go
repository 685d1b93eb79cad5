package telegram

import (
	"github.com/machiloop14/memecoin-price-tracker-bot/internal/commands"
	"github.com/machiloop14/memecoin-price-tracker-bot/lib/helpers"
	"github.com/machiloop14/memecoin-price-tracker-bot/lib/translation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// NewBot creates new telegram bot
func NewBot(c BotConfig) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Bot{
		Bot:    bot,
		Config: c,
	}, nil
}

// GetUpdatesChannel gets new updates updates
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.Bot.GetUpdatesChan(updatesConfig), nil
}

// SendMessage sends a telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(int64(m.ChatID), m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	msg.ParseMode = "MarkdownV2"
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message: %v", m)
}

// Notify implements the monitor's Notifier: crossing notifications are plain
// chat messages, not replies.
func (b *Bot) Notify(chatID int64, text string) error {
	return b.SendMessage(Message{
		ChatID: int(chatID),
		Text:   text,
	})
}

// HandleUpdate processes Telegram updates
func (b *Bot) HandleUpdate(u tgbotapi.Update) string {
	text := helpers.EscapeMarkdownV2(translation.Translate(
		"Commands: /track <token_address>, /delete <alert_id>, /list"))
	log.Debugf("received command: %s", u.Message.Command())

	var err error = nil

	switch u.Message.Command() {
	case "start":
		text = commands.CommandStart()
	case "track":
		if text, err = commands.CommandTrack(u.Message.Chat.ID, u.Message.CommandArguments()); err != nil {
			text = helpers.EscapeMarkdownV2(translation.Translate("❌ Failed to save alert. Please try again later."))
			log.Error(err)
		}
	case "delete":
		text = commands.CommandDelete(u.Message.Chat.ID, u.Message.CommandArguments())
	case "list":
		text = commands.CommandList(u.Message.Chat.ID)
	}

	return text
}
