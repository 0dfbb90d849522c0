package main

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"internwatch/internal/config"
	"internwatch/internal/notify"
	"internwatch/internal/store"
)

// inDataDir resolves relative state paths against the data directory.
func inDataDir(dataDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir, p)
}

// buildSeenStore opens the configured backend. The returned closer is never nil.
func buildSeenStore(cfg config.Config, logger *log.Logger) (store.SeenStore, io.Closer, error) {
	switch cfg.Seen.Backend {
	case "sqlite":
		path := inDataDir(cfg.App.DataDir, cfg.Seen.SQLitePath)
		db, err := store.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", path, err)
		}
		logger.Printf("[main] seen backend=sqlite path=%s", path)
		return store.NewSQLiteStore(db), db, nil
	case "redis":
		rs := store.NewRedisStore(cfg.Seen.RedisAddr, cfg.Seen.RedisKey)
		logger.Printf("[main] seen backend=redis addr=%s key=%s", cfg.Seen.RedisAddr, cfg.Seen.RedisKey)
		return rs, rs, nil
	default:
		path := inDataDir(cfg.App.DataDir, cfg.Seen.File)
		logger.Printf("[main] seen backend=file path=%s", path)
		return store.NewFileStore(path), nopCloser{}, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// buildNotifier fans out to every enabled transport.
func buildNotifier(cfg config.Config, logger *log.Logger) (notify.Notifier, []io.Closer) {
	format := notify.NewFormatter(cfg.Notify.Timezone)

	var (
		out     notify.Multi
		closers []io.Closer
	)
	if tg := cfg.Notify.Telegram; tg.Enabled {
		out = append(out, notify.NewTelegram(notify.TelegramConfig{
			Token:       tg.BotToken,
			ChatID:      tg.ChatID,
			APIBase:     tg.APIBase,
			Timeout:     cfg.Polling.RequestTimeout,
			MinInterval: time.Second,
		}, format))
	}
	if kc := cfg.Notify.Kafka; kc.Enabled {
		k := notify.NewKafkaNotifier(kc.Broker, kc.Topic)
		out = append(out, k)
		closers = append(closers, k)
	}
	if cfg.Notify.Log.Enabled {
		out = append(out, notify.LogNotifier{Logger: logger, Format: format})
	}

	if len(out) == 1 {
		return out[0], closers
	}
	return out, closers
}
