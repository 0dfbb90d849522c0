package poll

import (
	"sync"
	"time"

	"internwatch/internal/domain"
)

type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseFetching      Phase = "fetching"
	PhaseAggregating   Phase = "aggregating"
	PhaseDeduplicating Phase = "deduplicating"
	PhaseNotifying     Phase = "notifying"
	PhaseSummarizing   Phase = "summarizing"
)

type Status struct {
	Phase     Phase            `json:"phase"`
	Source    string           `json:"source,omitempty"` // set while fetching
	Running   bool             `json:"running"`
	CycleID   string           `json:"cycle_id,omitempty"`
	Cycles    int              `json:"cycles"`
	LastRunAt string           `json:"last_run_at,omitempty"`
	LastOkAt  string           `json:"last_ok_at,omitempty"`
	LastError string           `json:"last_error,omitempty"`
	LastStats *domain.RunStats `json:"last_stats,omitempty"`
}

// Tracker holds the live Status for the HTTP surface.
type Tracker struct {
	mu sync.Mutex
	st Status
}

func NewTracker() *Tracker {
	return &Tracker{st: Status{Phase: PhaseIdle}}
}

func (t *Tracker) Snapshot() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.st
	if st.LastStats != nil {
		cp := *st.LastStats
		cp.Sources = append([]domain.SourceStats(nil), cp.Sources...)
		st.LastStats = &cp
	}
	return st
}

func (t *Tracker) start(cycleID string, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.st.Running = true
	t.st.CycleID = cycleID
	t.st.LastRunAt = at.Format(time.RFC3339)
	t.st.Phase = PhaseFetching
}

func (t *Tracker) phase(p Phase, source string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.st.Phase = p
	t.st.Source = source
}

func (t *Tracker) finish(stats domain.RunStats, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.st.Running = false
	t.st.Phase = PhaseIdle
	t.st.Source = ""
	t.st.Cycles++
	t.st.LastStats = &stats
	if err != nil {
		t.st.LastError = err.Error()
		return
	}
	t.st.LastError = ""
	t.st.LastOkAt = stats.FinishedAt.Format(time.RFC3339)
}
