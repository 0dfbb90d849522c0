package notify

import (
	"context"
	"errors"
	"log"

	"internwatch/internal/domain"
)

// Notifier delivers alerts for one cycle. Each call is one delivery
// attempt; callers do not retry.
type Notifier interface {
	SendPosting(ctx context.Context, p domain.Posting) error
	SendSummary(ctx context.Context, stats domain.RunStats) error
	SendError(ctx context.Context, err error) error
}

// PartialDeliveryError reports a posting that reached at least one
// transport while others failed. The posting counts as delivered.
type PartialDeliveryError struct {
	Err error
}

func (e *PartialDeliveryError) Error() string { return "partial delivery: " + e.Err.Error() }
func (e *PartialDeliveryError) Unwrap() error { return e.Err }

// Multi fans every call out to all notifiers and joins their errors.
type Multi []Notifier

// SendPosting fails only when no transport delivered. Failures next to a
// successful delivery come back as *PartialDeliveryError.
func (m Multi) SendPosting(ctx context.Context, p domain.Posting) error {
	var (
		errs      []error
		delivered int
	)
	for _, n := range m {
		if err := n.SendPosting(ctx, p); err != nil {
			errs = append(errs, err)
			continue
		}
		delivered++
	}
	err := errors.Join(errs...)
	if err != nil && delivered > 0 {
		return &PartialDeliveryError{Err: err}
	}
	return err
}

func (m Multi) SendSummary(ctx context.Context, stats domain.RunStats) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.SendSummary(ctx, stats))
	}
	return errors.Join(errs...)
}

func (m Multi) SendError(ctx context.Context, err error) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.SendError(ctx, err))
	}
	return errors.Join(errs...)
}

// LogNotifier writes the rendered messages to a logger. Useful for dry runs.
type LogNotifier struct {
	Logger *log.Logger
	Format Formatter
}

func (l LogNotifier) SendPosting(_ context.Context, p domain.Posting) error {
	l.Logger.Printf("[notify:log] posting id=%s\n%s", p.ID, l.Format.FormatPosting(p))
	return nil
}

func (l LogNotifier) SendSummary(_ context.Context, stats domain.RunStats) error {
	l.Logger.Printf("[notify:log] summary cycle=%s\n%s", stats.CycleID, l.Format.FormatSummary(stats))
	return nil
}

func (l LogNotifier) SendError(_ context.Context, err error) error {
	l.Logger.Printf("[notify:log] error\n%s", l.Format.FormatError(err))
	return nil
}
