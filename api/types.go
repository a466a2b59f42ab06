package api

import (
	"context"

	"github.com/antoine01000/bureau-main/domain"
	"github.com/antoine01000/bureau-main/notify"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Admin    domain.AdminService
	Planning domain.PlanningService
	Board    domain.BoardService
	// Events feeds /events. The route is not registered when it is nil.
	Events *notify.Broker
	// Stop ends open event streams when closed, so shutdown does not wait
	// on them. Nil keeps streams open until clients leave.
	Stop <-chan struct{}
}

// ActivitySink persists activities.
type ActivitySink interface {
	EnqueueActivity(ctx context.Context, a domain.Activity) error
}
