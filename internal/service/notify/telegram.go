package notify

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gopkg.in/telebot.v3"
)

// chatRecipient addresses a chat either by numeric id or by @channel name.
type chatRecipient string

func (c chatRecipient) Recipient() string {
	return string(c)
}

// TelegramSender posts to a single chat through the Bot API.
type TelegramSender struct {
	bot  *telebot.Bot
	chat telebot.Recipient
}

// NewTelegramSender builds an offline bot: no getMe call, no polling.
func NewTelegramSender(apiURL, token, chatID string) (*TelegramSender, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		URL:     strings.TrimSuffix(apiURL, "/"),
		Token:   token,
		Offline: true,
		Client:  &http.Client{Timeout: 30 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramSender{
		bot:  bot,
		chat: recipientFor(chatID),
	}, nil
}

func recipientFor(chatID string) telebot.Recipient {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err == nil {
		return telebot.ChatID(id)
	}
	return chatRecipient(chatID)
}

func (s *TelegramSender) SendText(text string) error {
	_, err := s.bot.Send(s.chat, text, &telebot.SendOptions{ParseMode: telebot.ModeHTML})
	if err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}

// SendFile uploads images as photos and everything else as documents.
func (s *TelegramSender) SendFile(caption string, file File) error {
	upload := telebot.FromReader(bytes.NewReader(file.Data))

	var what telebot.Sendable
	if file.IsImage() {
		what = &telebot.Photo{File: upload, Caption: caption}
	} else {
		what = &telebot.Document{File: upload, Caption: caption, FileName: file.Name}
	}

	_, err := s.bot.Send(s.chat, what, &telebot.SendOptions{ParseMode: telebot.ModeHTML})
	if err != nil {
		return fmt.Errorf("telegram upload %q: %w", file.Name, err)
	}
	return nil
}

func (s *TelegramSender) Name() string {
	return "telegram"
}
