package scheduler

import (
	"context"
	"log"
	"time"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then on every tick until ctx is done.
// Runs never overlap: ticks that fire while task is running are dropped.
func Every(ctx context.Context, interval time.Duration, name string, task Task, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	run := func() {
		if err := task(ctx); err != nil {
			logger.Printf("[%s] error: %v", name, err)
		}
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	// run immediately
	run()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if ctx.Err() != nil {
				return
			}
			run()
			select {
			case <-t.C:
				logger.Printf("[%s] run took longer than %s; skipped a tick", name, interval)
			default:
			}
		}
	}
}
