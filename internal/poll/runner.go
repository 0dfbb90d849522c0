package poll

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"internwatch/internal/dedupe"
	"internwatch/internal/domain"
	"internwatch/internal/events"
	"internwatch/internal/notify"
	"internwatch/internal/scrape"
	"internwatch/internal/scrape/types"
	"internwatch/internal/scrape/util"

	"github.com/google/uuid"
)

// Publisher receives cycle progress events. *events.Hub satisfies it.
type Publisher interface {
	Publish(evt string)
}

type Options struct {
	Interests    []string
	SourceDelay  time.Duration // between sources
	NotifyDelay  time.Duration // between posting messages
	FetchTimeout time.Duration // per source
}

// Runner executes one pipeline cycle at a time:
// fetch, filter, deduplicate, notify, summarize.
type Runner struct {
	fetchers []types.Fetcher
	dedupe   *dedupe.Deduplicator
	notifier notify.Notifier
	opts     Options
	logger   *log.Logger
	pub      Publisher
	status   *Tracker

	running atomic.Bool
	now     func() time.Time
	pause   func(ctx context.Context, d time.Duration) error
}

func NewRunner(fetchers []types.Fetcher, dd *dedupe.Deduplicator, n notify.Notifier, opts Options, logger *log.Logger, pub Publisher) *Runner {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 5 * time.Minute
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		fetchers: fetchers,
		dedupe:   dd,
		notifier: n,
		opts:     opts,
		logger:   logger,
		pub:      pub,
		status:   NewTracker(),
		now:      time.Now,
		pause:    util.Pause,
	}
}

func (r *Runner) Status() Status { return r.status.Snapshot() }

// ErrBusy is returned by TryRun while another cycle is running.
var ErrBusy = errors.New("a cycle is already running")

// TryRun runs a cycle unless one is already running.
func (r *Runner) TryRun(ctx context.Context) (domain.RunStats, error) {
	if !r.running.CompareAndSwap(false, true) {
		return domain.RunStats{}, ErrBusy
	}
	defer r.running.Store(false)
	return r.RunCycle(ctx)
}

// RunCycle runs the pipeline once. ctx only signals shutdown: calls already
// in flight complete, and the cycle stops at the next source or send.
// Source failures are isolated into the stats; the returned error is set
// only for failures that abort or degrade the whole cycle.
func (r *Runner) RunCycle(ctx context.Context) (stats domain.RunStats, err error) {
	callCtx := context.WithoutCancel(ctx)

	stats = domain.RunStats{CycleID: uuid.NewString(), StartedAt: r.now()}
	r.status.start(stats.CycleID, stats.StartedAt)
	r.publish(stats.CycleID, events.CycleStarted, map[string]int{"sources": len(r.fetchers)})
	r.logger.Printf("[poll] cycle=%s start sources=%d", stats.CycleID, len(r.fetchers))

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pipeline panic: %v", rec)
			r.logger.Printf("[poll] cycle=%s recovered: %v", stats.CycleID, err)
			r.reportError(callCtx, err)
		}
		stats.FinishedAt = r.now()
		r.status.finish(stats, err)
		if err != nil {
			r.publish(stats.CycleID, events.CycleFailed, map[string]string{"error": err.Error()})
			return
		}
		r.publish(stats.CycleID, events.CycleFinished, stats)
	}()

	if err := r.dedupe.Begin(callCtx); err != nil {
		r.logger.Printf("[poll] cycle=%s %v; continuing with empty seen set", stats.CycleID, err)
	}

	candidates, finals := r.collect(ctx, callCtx, &stats)

	r.status.phase(PhaseDeduplicating, "")
	fresh := r.dedupe.Select(candidates)
	for _, p := range fresh {
		stats.Source(p.Source).New++
	}
	r.logger.Printf("[poll] cycle=%s candidates=%d new=%d", stats.CycleID, len(candidates), len(fresh))

	r.status.phase(PhaseNotifying, "")
	held := r.deliver(ctx, callCtx, fresh, &stats)

	var persistErr error
	if err := r.dedupe.Commit(callCtx); err != nil {
		persistErr = err
		r.logger.Printf("[poll] cycle=%s %v", stats.CycleID, err)
	} else {
		r.finalize(callCtx, finals, held)
	}

	r.status.phase(PhaseSummarizing, "")
	stats.FinishedAt = r.now()
	if err := r.notifier.SendSummary(callCtx, stats); err != nil {
		r.logger.Printf("[poll] cycle=%s summary not sent: %v", stats.CycleID, err)
	}

	if persistErr != nil {
		r.reportError(callCtx, persistErr)
		return stats, persistErr
	}

	found, filtered, _ := stats.Totals()
	r.logger.Printf("[poll] cycle=%s done found=%d filtered=%d notified=%d failed=%d took=%s",
		stats.CycleID, found, filtered, stats.Notified, stats.Failed, r.now().Sub(stats.StartedAt).Round(time.Millisecond))
	return stats, nil
}

// sourceFinal is a source's post-commit step, such as marking alert mail read.
type sourceFinal struct {
	source string
	fn     func(context.Context) error
}

// collect fetches and filters every source in order, stopping early on
// shutdown.
func (r *Runner) collect(ctx, callCtx context.Context, stats *domain.RunStats) ([]domain.Posting, []sourceFinal) {
	var (
		all    []domain.Posting
		finals []sourceFinal
	)
	for i, f := range r.fetchers {
		if i > 0 {
			if err := r.pause(ctx, r.opts.SourceDelay); err != nil {
				r.logger.Printf("[poll] cycle=%s shutdown; skipping remaining sources", stats.CycleID)
				break
			}
		}
		if ctx.Err() != nil {
			break
		}

		name := f.Name()
		r.status.phase(PhaseFetching, name)
		ss := stats.Source(name)

		res, err := r.fetchOne(callCtx, f)
		if err != nil {
			ss.Err = err.Error()
			r.logger.Printf("[poll] cycle=%s source=%s err=%v", stats.CycleID, name, err)
			r.publish(stats.CycleID, events.SourceDone, *ss)
			continue
		}

		filtered := scrape.FilterByInterest(res.Postings, r.opts.Interests, r.logger)
		ss.Found = len(res.Postings)
		ss.Filtered = len(filtered)
		ss.Skipped = res.Skipped
		all = append(all, filtered...)
		if res.Finalize != nil {
			finals = append(finals, sourceFinal{source: name, fn: res.Finalize})
		}

		r.logger.Printf("[poll] cycle=%s source=%s found=%d filtered=%d skipped=%d",
			stats.CycleID, name, ss.Found, ss.Filtered, ss.Skipped)
		r.publish(stats.CycleID, events.SourceDone, *ss)
	}
	r.status.phase(PhaseAggregating, "")
	return all, finals
}

func (r *Runner) fetchOne(ctx context.Context, f types.Fetcher) (res types.ScrapeResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s panicked: %v: %w", f.Name(), rec, domain.ErrTransientSource)
		}
	}()

	fctx, cancel := context.WithTimeout(ctx, r.opts.FetchTimeout)
	defer cancel()
	return f.Fetch(fctx)
}

// deliver sends one message per new posting. Postings not attempted because
// of shutdown are forgotten so the next cycle treats them as new again; the
// returned set names their sources, whose Finalize must not run.
func (r *Runner) deliver(ctx, callCtx context.Context, fresh []domain.Posting, stats *domain.RunStats) map[string]bool {
	held := map[string]bool{}
	for i, p := range fresh {
		stop := ctx.Err() != nil
		if !stop && i > 0 {
			stop = r.pause(ctx, r.opts.NotifyDelay) != nil
		}
		if stop {
			for _, rest := range fresh[i:] {
				r.dedupe.Forget(rest)
				held[rest.Source] = true
			}
			r.logger.Printf("[poll] cycle=%s shutdown; %d postings left for next cycle", stats.CycleID, len(fresh)-i)
			return held
		}

		err := r.notifier.SendPosting(callCtx, p)
		var partial *notify.PartialDeliveryError
		if errors.As(err, &partial) {
			r.logger.Printf("[poll] cycle=%s partial delivery id=%s source=%s err=%v",
				stats.CycleID, p.ID, p.Source, partial.Err)
			err = nil
		}
		if err != nil {
			stats.Failed++
			r.logger.Printf("[poll] cycle=%s send failed id=%s title=%q source=%s err=%v",
				stats.CycleID, p.ID, p.Title, p.Source, err)
			continue
		}
		stats.Notified++
		r.logger.Printf("[poll] cycle=%s sent id=%s title=%q org=%q source=%s",
			stats.CycleID, p.ID, p.Title, p.Organization, p.Source)
		r.publish(stats.CycleID, events.PostingNotified, p)
	}
	return held
}

// finalize runs post-commit steps, except for sources with postings held
// back for the next cycle: their origin must still offer them then.
func (r *Runner) finalize(ctx context.Context, finals []sourceFinal, held map[string]bool) {
	for _, f := range finals {
		if held[f.source] {
			r.logger.Printf("[poll] source=%s finalize skipped; unsent postings wait for next cycle", f.source)
			continue
		}
		if err := f.fn(ctx); err != nil {
			r.logger.Printf("[poll] source=%s finalize error: %v", f.source, err)
		}
	}
}

// reportError tells the user a cycle failed. It never panics or fails the
// caller.
func (r *Runner) reportError(ctx context.Context, cause error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Printf("[poll] error notification panicked: %v", rec)
		}
	}()
	if err := r.notifier.SendError(ctx, cause); err != nil {
		r.logger.Printf("[poll] error notification not sent: %v", err)
	}
}

func (r *Runner) publish(cycleID, typ string, data any) {
	if r.pub == nil {
		return
	}
	r.pub.Publish(events.MakeEvent(cycleID, typ, 1, data))
}
