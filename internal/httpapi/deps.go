package httpapi

import (
	"context"
	"log"
	"sync/atomic"

	"internwatch/internal/domain"
	"internwatch/internal/events"
	"internwatch/internal/poll"
	"internwatch/internal/store"
)

// Runner is the part of poll.Runner the API drives.
type Runner interface {
	Status() poll.Status
	TryRun(ctx context.Context) (domain.RunStats, error)
}

type Deps struct {
	Hub    *events.Hub
	Runner Runner
	Seen   store.SeenStore

	CfgVal *atomic.Value // stores config.Config

	// BaseCtx parents cycles started from POST /run so they stop with the
	// process rather than with the request.
	BaseCtx context.Context
	Logger  *log.Logger
}
