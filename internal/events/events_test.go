package events

import (
	"encoding/json"
	"testing"
)

func TestHubDelivers(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	defer cancel()

	h.Publish(MakeEvent("c1", CycleStarted, 1, map[string]int{"sources": 2}))

	var e Event
	if err := json.Unmarshal([]byte(<-ch), &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Type != CycleStarted || e.CycleID != "c1" || e.ID == "" || string(e.Data) != `{"sources":2}` {
		t.Fatalf("event = %+v", e)
	}
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	for i := 0; i < 100; i++ {
		h.Publish("x")
	}
	if len(ch) != cap(ch) {
		t.Fatalf("buffered = %d", len(ch))
	}
	cancel()
	cancel()
	if h.Subscribers() != 0 {
		t.Fatal("subscriber not removed")
	}
	h.Publish("after")
}
