package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published while a cycle runs.
const (
	CycleStarted    = "cycle.started"
	SourceDone      = "source.done"
	PostingNotified = "posting.notified"
	CycleFinished   = "cycle.finished"
	CycleFailed     = "cycle.failed"
)

type Event struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Version int             `json:"v"`
	At      time.Time       `json:"at"`
	CycleID string          `json:"cycle_id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// MakeEvent renders an event as the JSON line sent to subscribers.
func MakeEvent(cycleID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		ID:      uuid.NewString(),
		Type:    typ,
		Version: v,
		At:      time.Now().UTC(),
		CycleID: cycleID,
		Data:    raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
