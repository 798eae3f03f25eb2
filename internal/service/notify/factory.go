package notify

import (
	"log/slog"

	"github.com/scoutreport/activityform/internal/config"
)

// NewSender picks the notification channel based on configuration.
func NewSender(cfg *config.Config) (Sender, error) {
	if !cfg.TelegramEnabled() {
		slog.Warn("telegram not configured, notifications will only be logged")
		return NewLogSender(), nil
	}

	slog.Info("initializing notification sender", "sender", "telegram")
	return NewTelegramSender(cfg.TelegramAPIURL, cfg.TelegramToken, cfg.TelegramChatID)
}
