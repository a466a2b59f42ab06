package domain

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// PlanningStorage defines the reads used by the planning page.
type PlanningStorage interface {
	FetchRooms(ctx context.Context) ([]Room, error)
	FetchTasks(ctx context.Context) ([]Task, error)
}

// PlanningService builds the read-only room plan.
type PlanningService struct {
	st  PlanningStorage
	log *log.Logger
}

func NewPlanningService(st PlanningStorage, logger *log.Logger) PlanningService {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return PlanningService{st: st, log: logger}
}

// LoadPlan fetches rooms and tasks and joins them. Either fetch failing
// yields an empty plan.
func (s PlanningService) LoadPlan(ctx context.Context) []RoomPlan {
	rooms, err := s.st.FetchRooms(ctx)
	if err != nil {
		s.log.WithError(err).WithField("op", "fetch_rooms").Error("store operation failed")
		return []RoomPlan{}
	}
	tasks, err := s.st.FetchTasks(ctx)
	if err != nil {
		s.log.WithError(err).WithField("op", "fetch_tasks").Error("store operation failed")
		return []RoomPlan{}
	}
	return BuildPlan(rooms, tasks)
}
