package dedupe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"

	"internwatch/internal/domain"
)

type memStore struct {
	ids      []string
	loadErr  error
	saveErr  error
	persists int
}

func (m *memStore) Load(context.Context) ([]string, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]string(nil), m.ids...), nil
}

func (m *memStore) Persist(_ context.Context, ids []string) error {
	m.persists++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.ids = append([]string(nil), ids...)
	return nil
}

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func posting(src, title string) domain.Posting {
	return domain.Posting{Source: src, Organization: "Acme", Title: title, PostedOn: "today"}.WithID()
}

func TestSelectIsIdempotent(t *testing.T) {
	st := &memStore{}
	batch := []domain.Posting{posting("AICTE", "ML Intern"), posting("AICTE", "Data Intern")}
	ctx := context.Background()

	d := New(st, 100, quietLogger())
	if err := d.Begin(ctx); err != nil {
		t.Fatal(err)
	}
	if got := d.Select(batch); len(got) != 2 {
		t.Fatalf("first pass new=%d, want 2", len(got))
	}
	if err := d.Commit(ctx); err != nil {
		t.Fatal(err)
	}

	d2 := New(st, 100, quietLogger())
	if err := d2.Begin(ctx); err != nil {
		t.Fatal(err)
	}
	if got := d2.Select(batch); len(got) != 0 {
		t.Fatalf("second pass new=%d, want 0", len(got))
	}
}

func TestSelectDedupesWithinBatch(t *testing.T) {
	d := New(&memStore{}, 100, quietLogger())
	_ = d.Begin(context.Background())

	p := posting("AICTE", "ML Intern")
	got := d.Select([]domain.Posting{p, p})
	if len(got) != 1 {
		t.Fatalf("new=%d, want exactly 1", len(got))
	}
}

func TestSelectKeepsFetchOrder(t *testing.T) {
	d := New(&memStore{}, 100, quietLogger())
	_ = d.Begin(context.Background())

	a, b, c := posting("S", "a"), posting("S", "b"), posting("S", "c")
	got := d.Select([]domain.Posting{c, a, b})
	if got[0].ID != c.ID || got[1].ID != a.ID || got[2].ID != b.ID {
		t.Fatalf("order not preserved")
	}
}

func TestBeginLoadFailureStartsEmpty(t *testing.T) {
	st := &memStore{ids: []string{posting("S", "a").ID}, loadErr: domain.ErrPersistence}
	d := New(st, 100, quietLogger())

	err := d.Begin(context.Background())
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if got := d.Select([]domain.Posting{posting("S", "a")}); len(got) != 1 {
		t.Fatalf("unreadable state must treat postings as new")
	}
}

func TestCommitBoundsGrowth(t *testing.T) {
	const capacity = 50
	st := &memStore{}
	ctx := context.Background()

	for cycle := 0; cycle < 20; cycle++ {
		d := New(st, capacity, quietLogger())
		_ = d.Begin(ctx)
		var batch []domain.Posting
		for k := 0; k < 7; k++ {
			batch = append(batch, posting("S", fmt.Sprintf("c%d-k%d", cycle, k)))
		}
		d.Select(batch)
		if err := d.Commit(ctx); err != nil {
			t.Fatal(err)
		}
		if len(st.ids) > capacity {
			t.Fatalf("cycle %d persisted %d ids, cap %d", cycle, len(st.ids), capacity)
		}
	}

	// newest survive
	last := posting("S", "c19-k6").ID
	if st.ids[len(st.ids)-1] != last {
		t.Fatalf("newest id not kept at tail")
	}
}

func TestCommitRefreshesRecurringIDs(t *testing.T) {
	st := &memStore{}
	ctx := context.Background()
	old := posting("S", "still listed")

	d := New(st, 3, quietLogger())
	_ = d.Begin(ctx)
	d.Select([]domain.Posting{old, posting("S", "x"), posting("S", "y")})
	_ = d.Commit(ctx)

	d = New(st, 3, quietLogger())
	_ = d.Begin(ctx)
	d.Select([]domain.Posting{posting("S", "z"), old})
	_ = d.Commit(ctx)

	found := false
	for _, id := range st.ids {
		if id == old.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("re-seen id was evicted: %v", st.ids)
	}
}

func TestCommitPersistsOnce(t *testing.T) {
	st := &memStore{saveErr: errors.New("disk full")}
	d := New(st, 10, quietLogger())
	_ = d.Begin(context.Background())
	d.Select([]domain.Posting{posting("S", "a")})

	if err := d.Commit(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if st.persists != 1 {
		t.Fatalf("persists=%d, want 1", st.persists)
	}
}

func TestForgetMakesPostingNewAgain(t *testing.T) {
	d := New(&memStore{}, 10, quietLogger())
	_ = d.Begin(context.Background())
	p := posting("S", "a")
	d.Select([]domain.Posting{p})
	d.Forget(p)
	if !d.IsNew(p) {
		t.Fatal("forgotten posting should be new")
	}
}
