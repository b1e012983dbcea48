package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pkg/errors"

	"DoshiiWithPos/internal/config"
	"DoshiiWithPos/pkg/logging"
)

// Notifier pushes operational alerts to the configured chat. When no bot
// token is configured the notifier is inert and only logs.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewNotifier() *Notifier {
	logger := logging.GetLogger()
	cfg := config.GetConfig()

	if cfg.ALERT.BotToken == "" {
		logger.Info("telegram alerts disabled, no bot token configured")
		return &Notifier{}
	}

	bot, err := tgbotapi.NewBotAPI(cfg.ALERT.BotToken)
	if err != nil {
		logger.Errorf("failed in tgbotapi.NewBotAPI(), alerts disabled, error: %v", err)
		return &Notifier{}
	}
	bot.Debug = cfg.ALERT.Debug == 1

	return &Notifier{bot: bot, chatID: cfg.ALERT.ChatID}
}

// Alert implements controller.Alerter.
func (n *Notifier) Alert(message string) {
	logger := logging.GetLogger()

	if err := n.SendMessage(message); err != nil {
		logger.Errorf("failed to send telegram alert, error: %v", err)
	}
}

func (n *Notifier) SendMessage(message string) error {
	if n.bot == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(n.chatID, message)
	if _, err := n.bot.Send(msg); err != nil {
		return errors.Wrap(err, "failed in bot.Send()")
	}
	return nil
}
