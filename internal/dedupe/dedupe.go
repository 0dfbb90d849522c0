// Package dedupe decides which filtered postings have not been notified yet.
//
// One Deduplicator serves one cycle at a time: Begin loads the seen state,
// Select evaluates the cycle's postings in fetch order, Commit truncates and
// persists exactly once.
package dedupe

import (
	"context"
	"fmt"
	"log"

	"internwatch/internal/domain"
	"internwatch/internal/store"
)

type Deduplicator struct {
	store    store.SeenStore
	capacity int
	logger   *log.Logger

	seen *store.SeenSet
}

func New(st store.SeenStore, capacity int, logger *log.Logger) *Deduplicator {
	if capacity <= 0 {
		capacity = store.DefaultCapacity
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Deduplicator{store: st, capacity: capacity, logger: logger}
}

// Begin loads the persisted ids. A read failure leaves an empty set in
// place and is returned for logging: the cycle may then repeat
// notifications, which is preferred over missing one.
func (d *Deduplicator) Begin(ctx context.Context) error {
	ids, err := d.store.Load(ctx)
	if err != nil {
		d.seen = store.NewSeenSet(nil)
		return fmt.Errorf("load seen state: %w", err)
	}
	d.seen = store.NewSeenSet(ids)
	d.logger.Printf("[dedupe] loaded seen=%d capacity=%d", d.seen.Len(), d.capacity)
	return nil
}

func (d *Deduplicator) set() *store.SeenSet {
	if d.seen == nil {
		d.seen = store.NewSeenSet(nil)
	}
	return d.seen
}

func (d *Deduplicator) IsNew(p domain.Posting) bool {
	return !d.set().Has(p.ID)
}

func (d *Deduplicator) MarkSeen(p domain.Posting) {
	d.set().Add(p.ID)
}

// Forget undoes MarkSeen for a posting that was selected as new but never
// reached the notifier (shutdown mid-cycle).
func (d *Deduplicator) Forget(p domain.Posting) {
	d.set().Remove(p.ID)
}

// Select returns the postings whose id was absent when evaluated, in input
// order. Every evaluated id is (re)inserted, so a second occurrence of an id
// within the same batch is not new.
func (d *Deduplicator) Select(postings []domain.Posting) []domain.Posting {
	var fresh []domain.Posting
	for _, p := range postings {
		if d.IsNew(p) {
			fresh = append(fresh, p)
		}
		d.MarkSeen(p)
	}
	return fresh
}

// Commit truncates to capacity, newest kept, and persists the set.
func (d *Deduplicator) Commit(ctx context.Context) error {
	s := d.set()
	if dropped := s.Truncate(d.capacity); dropped > 0 {
		d.logger.Printf("[dedupe] evicted oldest=%d", dropped)
	}
	if err := d.store.Persist(ctx, s.IDs()); err != nil {
		return fmt.Errorf("persist seen state: %w", err)
	}
	d.logger.Printf("[dedupe] persisted seen=%d", s.Len())
	return nil
}

// Len reports the size of the in-memory set.
func (d *Deduplicator) Len() int { return d.set().Len() }
