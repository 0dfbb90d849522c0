package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"internwatch/internal/config"
	"internwatch/internal/dedupe"
	"internwatch/internal/domain"
	"internwatch/internal/events"
	"internwatch/internal/httpapi"
	"internwatch/internal/poll"
	"internwatch/internal/scheduler"
	"internwatch/internal/scrape"
	"internwatch/internal/scrape/util"
	"internwatch/internal/secrets"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)
	if err := run(os.Args[1:], logger); err != nil {
		logger.Fatalf("[main] %v", err)
	}
}

func run(args []string, logger *log.Logger) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Printf("[main] .env ignored: %v", err)
	}

	// Data dir: env wins (containers mount a volume there), else the cwd.
	dataDir := os.Getenv("INTERNWATCH_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		return fmt.Errorf("%w: config bootstrap failed: %v", domain.ErrFatalConfig, err)
	}
	cfg, err := config.Load(userCfgPath)
	if err != nil {
		return fmt.Errorf("%w: config load failed (%s): %v", domain.ErrFatalConfig, userCfgPath, err)
	}
	config.OverlayEnv(&cfg, os.LookupEnv)
	if os.Getenv("INTERNWATCH_DATA_DIR") != "" {
		cfg.App.DataDir = dataDir
	}

	if len(args) > 0 && args[0] == "secret" {
		return runSecret(args[1:], cfg, os.Stdin, os.Stdout)
	}

	fillSecrets(&cfg, logger)

	cfg, vr := config.NormalizeAndValidate(cfg)
	for _, w := range vr.Warnings {
		logger.Printf("[config] warning: %s", w)
	}
	if !vr.OK() {
		return fmt.Errorf("%w: %s", domain.ErrFatalConfig, vr.Error())
	}
	var cfgVal atomic.Value // stores config.Config
	cfgVal.Store(cfg)

	lock := flock.New(filepath.Join(cfg.App.DataDir, "internwatch.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock data dir: %w", err)
	}
	if !locked {
		return fmt.Errorf("another internwatch process is using %s", cfg.App.DataDir)
	}
	defer func() { _ = lock.Unlock() }()

	seen, seenCloser, err := buildSeenStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	defer seenCloser.Close()

	notifier, closers := buildNotifier(cfg, logger)
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Printf("[main] close notifier: %v", err)
			}
		}
	}()

	limiter := util.NewHostLimiter(cfg.Polling.RequestsPerSec, 2)
	fetchers := scrape.BuildFetchers(cfg, limiter, logger)

	hub := events.NewHub()
	runner := poll.NewRunner(
		fetchers,
		dedupe.New(seen, cfg.Seen.Capacity, logger),
		notifier,
		poll.Options{
			Interests:   cfg.Interests,
			SourceDelay: cfg.Polling.SourceDelay,
			NotifyDelay: cfg.Polling.NotifyDelay,
		},
		logger,
		hub,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	logger.Printf("[main] starting sources=%d interval=%s interests=%d", len(fetchers), cfg.Polling.Interval, len(cfg.Interests))

	g.Go(func() error {
		scheduler.Every(gctx, cfg.Polling.Interval, "poll", func(ctx context.Context) error {
			_, err := runner.TryRun(ctx)
			if errors.Is(err, poll.ErrBusy) {
				logger.Printf("[poll] tick skipped: %v", err)
				return nil
			}
			return err
		}, logger)
		return nil
	})

	if cfg.App.Port > 0 {
		srv := &http.Server{
			Addr: fmt.Sprintf(":%d", cfg.App.Port),
			Handler: httpapi.NewHandler(httpapi.Deps{
				Hub:     hub,
				Runner:  runner,
				Seen:    seen,
				CfgVal:  &cfgVal,
				BaseCtx: gctx,
				Logger:  logger,
			}),
			ReadHeaderTimeout: 5 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return gctx },
		}
		g.Go(func() error {
			logger.Printf("[main] http listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	logger.Printf("[main] stopped")
	return err
}

// fillSecrets takes credentials missing from file and environment from the
// OS keychain. Headless hosts often have no keychain; that is only logged.
func fillSecrets(cfg *config.Config, logger *log.Logger) {
	tg := &cfg.Notify.Telegram
	if tg.Enabled && tg.ChatID != "" {
		v, err := secrets.Fill(tg.BotToken, secrets.TelegramAccount(tg.ChatID))
		if err != nil {
			logger.Printf("[secrets] telegram token lookup failed: %v", err)
		} else {
			tg.BotToken = v
		}
	}

	am := &cfg.Sources.AlertMail
	if am.Enabled && am.Username != "" && am.IMAPHost != "" {
		v, err := secrets.Fill(am.AppPassword, secrets.IMAPAccount(am.Username, am.IMAPHost))
		if err != nil {
			logger.Printf("[secrets] imap password lookup failed: %v", err)
		} else {
			am.AppPassword = v
		}
	}
}
