package store

import (
	"container/list"
	"context"
)

// DefaultCapacity bounds the seen state when the config leaves it unset.
const DefaultCapacity = 2000

// SeenStore persists notified posting ids between runs. Load returns ids
// oldest first; Persist replaces the stored set with ids in the same order.
type SeenStore interface {
	Load(ctx context.Context) ([]string, error)
	Persist(ctx context.Context, ids []string) error
}

// SeenSet is an insertion-ordered set. Re-adding an id moves it to the
// newest position so ids that keep showing up are evicted last.
type SeenSet struct {
	order *list.List
	index map[string]*list.Element
}

func NewSeenSet(ids []string) *SeenSet {
	s := &SeenSet{
		order: list.New(),
		index: make(map[string]*list.Element, len(ids)),
	}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *SeenSet) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *SeenSet) Add(id string) {
	if id == "" {
		return
	}
	if el, ok := s.index[id]; ok {
		s.order.MoveToBack(el)
		return
	}
	s.index[id] = s.order.PushBack(id)
}

// Remove drops id. Used when a posting was selected but never offered to
// the notifier, so the next cycle treats it as new again.
func (s *SeenSet) Remove(id string) {
	if el, ok := s.index[id]; ok {
		s.order.Remove(el)
		delete(s.index, id)
	}
}

func (s *SeenSet) Len() int { return len(s.index) }

// Truncate keeps the max most recently added ids and returns how many were dropped.
func (s *SeenSet) Truncate(max int) int {
	if max < 0 {
		max = 0
	}
	dropped := 0
	for s.order.Len() > max {
		el := s.order.Front()
		s.order.Remove(el)
		delete(s.index, el.Value.(string))
		dropped++
	}
	return dropped
}

// IDs returns the ids oldest first.
func (s *SeenSet) IDs() []string {
	out := make([]string, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(string))
	}
	return out
}
