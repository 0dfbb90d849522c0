package types

import (
	"context"

	"internwatch/internal/domain"
)

// ScrapeResult is one source's output for a cycle. Skipped counts records
// that could not be parsed. Finalize, when set, runs after the cycle's
// seen state has been committed.
type ScrapeResult struct {
	Source   string
	Postings []domain.Posting
	Skipped  int
	Finalize func(context.Context) error
}

type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) (ScrapeResult, error)
}
