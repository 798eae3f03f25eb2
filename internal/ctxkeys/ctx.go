package ctxkeys

import (
	"context"

	"github.com/scoutreport/activityform/internal/config"
	"github.com/scoutreport/activityform/internal/flash"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	URLPathKey   contextKey = "url_path"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
	FlashKey     contextKey = "flash"
)

func URLPath(ctx context.Context) string {
	path, _ := ctx.Value(URLPathKey).(string)
	return path
}

func WithURLPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, URLPathKey, path)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}

// Flash is the message popped for this request, if any.
func Flash(ctx context.Context) *flash.Message {
	msg, _ := ctx.Value(FlashKey).(*flash.Message)
	return msg
}

func WithFlash(ctx context.Context, msg *flash.Message) context.Context {
	return context.WithValue(ctx, FlashKey, msg)
}
