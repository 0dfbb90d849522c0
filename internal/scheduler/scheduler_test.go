package scheduler

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"
)

func TestEveryRunsImmediatelyAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32

	done := make(chan struct{})
	go func() {
		Every(ctx, time.Hour, "test", func(context.Context) error {
			runs.Add(1)
			return errors.New("logged, not fatal")
		}, log.New(io.Discard, "", 0))
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("task did not run immediately")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Every did not return after cancel")
	}
	if runs.Load() != 1 {
		t.Fatalf("runs = %d", runs.Load())
	}
}

func TestEveryNeverOverlaps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var active, maxActive, runs atomic.Int32
	go Every(ctx, 5*time.Millisecond, "test", func(context.Context) error {
		n := active.Add(1)
		if n > maxActive.Load() {
			maxActive.Store(n)
		}
		time.Sleep(20 * time.Millisecond)
		active.Add(-1)
		runs.Add(1)
		return nil
	}, log.New(io.Discard, "", 0))

	time.Sleep(150 * time.Millisecond)
	cancel()

	if maxActive.Load() != 1 {
		t.Fatalf("max concurrent runs = %d", maxActive.Load())
	}
	if r := runs.Load(); r < 2 || r > 10 {
		t.Fatalf("runs = %d", r)
	}
}
