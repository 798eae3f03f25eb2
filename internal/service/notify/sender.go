package notify

import (
	"log/slog"
	"strings"
)

// File is an attachment buffered in memory so it outlives the request that
// uploaded it.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) IsImage() bool {
	return strings.HasPrefix(f.ContentType, "image/")
}

// Sender defines the interface that all notification channels must implement
type Sender interface {
	// SendText delivers an HTML-formatted message
	SendText(text string) error

	// SendFile delivers one attachment with a caption
	SendFile(caption string, file File) error

	// Name returns the channel name (e.g., "telegram", "log")
	Name() string
}

// LogSender stands in for Telegram when no bot is configured.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) SendText(text string) error {
	slog.Info("notification sent (log mode)", "type", "text", "text", text)
	return nil
}

func (s *LogSender) SendFile(caption string, file File) error {
	slog.Info("notification sent (log mode)", "type", "file", "caption", caption, "filename", file.Name, "size", len(file.Data))
	return nil
}

func (s *LogSender) Name() string {
	return "log"
}
