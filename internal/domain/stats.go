package domain

import "time"

// SourceStats counts what one source produced during a cycle.
type SourceStats struct {
	Source   string `json:"source"`
	Found    int    `json:"found"`
	Filtered int    `json:"filtered"`
	New      int    `json:"new"`
	Skipped  int    `json:"skipped"`
	Err      string `json:"error,omitempty"`
}

// RunStats is the per-cycle aggregate handed to the summary.
type RunStats struct {
	CycleID    string        `json:"cycle_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Sources    []SourceStats `json:"sources"`
	Notified   int           `json:"notified"`
	Failed     int           `json:"failed"`
}

// Source returns the counters for name, adding an entry if needed.
func (r *RunStats) Source(name string) *SourceStats {
	for i := range r.Sources {
		if r.Sources[i].Source == name {
			return &r.Sources[i]
		}
	}
	r.Sources = append(r.Sources, SourceStats{Source: name})
	return &r.Sources[len(r.Sources)-1]
}

func (r RunStats) Totals() (found, filtered, fresh int) {
	for _, s := range r.Sources {
		found += s.Found
		filtered += s.Filtered
		fresh += s.New
	}
	return found, filtered, fresh
}
