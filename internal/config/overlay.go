// config/overlay.go
package config

import (
	"strconv"
	"strings"
	"time"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// OverlayEnv applies the environment variables the bot has always honoured
// on top of the file config. Unparseable values are ignored.
func OverlayEnv(cfg *Config, lookup LookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.EqualFold(strings.TrimSpace(v), "true")
		}
	}

	str("TELEGRAM_BOT_TOKEN", &cfg.Notify.Telegram.BotToken)
	str("TELEGRAM_CHAT_ID", &cfg.Notify.Telegram.ChatID)
	str("SEEN_FILE", &cfg.Seen.File)
	str("IMAP_APP_PASSWORD", &cfg.Sources.AlertMail.AppPassword)
	str("REDIS_ADDR", &cfg.Seen.RedisAddr)
	str("KAFKA_BROKER", &cfg.Notify.Kafka.Broker)

	flag("ENABLE_AICTE", &cfg.Sources.AICTE.Enabled)
	flag("ENABLE_INTERNSHALA", &cfg.Sources.Internshala.Enabled)

	if v, ok := lookup("CHECK_INTERVAL_HOURS"); ok {
		if h, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && h > 0 {
			cfg.Polling.Interval = time.Duration(h) * time.Hour
		}
	}
	if v, ok := lookup("PORT"); ok {
		if p, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.App.Port = p
		}
	}
	if v, ok := lookup("INTERESTS"); ok && strings.TrimSpace(v) != "" {
		cfg.Interests = strings.Split(v, ",")
	}
}
