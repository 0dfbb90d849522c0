package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"

	"internwatch/internal/config"
	"internwatch/internal/notify"
	"internwatch/internal/secrets"
	"internwatch/internal/store"
)

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func TestInDataDir(t *testing.T) {
	if got := inDataDir("/data", "seen.json"); got != filepath.Join("/data", "seen.json") {
		t.Fatalf("relative = %q", got)
	}
	if got := inDataDir("/data", "/abs/seen.json"); got != "/abs/seen.json" {
		t.Fatalf("absolute = %q", got)
	}
}

func TestBuildSeenStoreFile(t *testing.T) {
	cfg := config.Default()
	cfg.App.DataDir = t.TempDir()

	st, closer, err := buildSeenStore(cfg, quiet())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer closer.Close()

	fs, ok := st.(*store.FileStore)
	if !ok {
		t.Fatalf("store = %T", st)
	}
	if fs.Path != filepath.Join(cfg.App.DataDir, "seen_internships.json") {
		t.Fatalf("path = %q", fs.Path)
	}
	if err := st.Persist(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("persist: %v", err)
	}
}

func TestBuildSeenStoreSQLite(t *testing.T) {
	cfg := config.Default()
	cfg.App.DataDir = t.TempDir()
	cfg.Seen.Backend = "sqlite"

	st, closer, err := buildSeenStore(cfg, quiet())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer closer.Close()
	if _, ok := st.(*store.SQLiteStore); !ok {
		t.Fatalf("store = %T", st)
	}
}

func TestBuildNotifier(t *testing.T) {
	cfg := config.Default()
	cfg.Notify.Telegram.BotToken = "t"
	cfg.Notify.Telegram.ChatID = "1"

	n, closers := buildNotifier(cfg, quiet())
	if _, ok := n.(*notify.Telegram); !ok {
		t.Fatalf("single transport = %T", n)
	}
	if len(closers) != 0 {
		t.Fatalf("closers = %d", len(closers))
	}

	cfg.Notify.Log.Enabled = true
	n, _ = buildNotifier(cfg, quiet())
	m, ok := n.(notify.Multi)
	if !ok || len(m) != 2 {
		t.Fatalf("fan-out = %T %v", n, n)
	}
}

func TestSecretSetAndFill(t *testing.T) {
	keyring.MockInit()

	cfg := config.Default()
	cfg.Notify.Telegram.ChatID = "777"

	var out bytes.Buffer
	if err := runSecret([]string{"set", "telegram"}, cfg, strings.NewReader("123:abc\n"), &out); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !strings.Contains(out.String(), "stored telegram") {
		t.Fatalf("output = %q", out.String())
	}

	got, err := secrets.Get(secrets.TelegramAccount("777"))
	if err != nil || got != "123:abc" {
		t.Fatalf("keychain = %q, %v", got, err)
	}

	fillSecrets(&cfg, quiet())
	if cfg.Notify.Telegram.BotToken != "123:abc" {
		t.Fatalf("token not filled: %q", cfg.Notify.Telegram.BotToken)
	}
}

func TestSecretRequiresAccountFields(t *testing.T) {
	keyring.MockInit()

	cfg := config.Default()
	if err := runSecret([]string{"set", "imap"}, cfg, strings.NewReader("pw"), io.Discard); err == nil {
		t.Fatalf("expected error without username and host")
	}
	if err := runSecret([]string{"set"}, cfg, strings.NewReader(""), io.Discard); err == nil {
		t.Fatalf("expected usage error")
	}
}
