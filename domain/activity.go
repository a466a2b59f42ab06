package domain

import "context"

// Entity names carried by activities.
const (
	EntityPerson     = "person"
	EntityRoom       = "room"
	EntitySuggestion = "suggestion"
	EntityTask       = "task"
)

// Actions carried by activities.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Activity describes a committed mutation.
type Activity struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Room   string `json:"room,omitempty"`
	Time   int64  `json:"time"`
}

// ActivityRecorder receives activities after a mutation succeeded. Record
// must not block on slow downstreams.
type ActivityRecorder interface {
	Record(ctx context.Context, a Activity)
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, Activity) {}

func recorderOrNop(r ActivityRecorder) ActivityRecorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
