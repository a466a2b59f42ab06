package domain

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

// BoardStorage defines the store calls used by the task board.
type BoardStorage interface {
	FetchRooms(ctx context.Context) ([]Room, error)
	FetchPeople(ctx context.Context) ([]Person, error)
	FetchSuggestions(ctx context.Context, roomKey string) ([]TaskSuggestion, error)
	FetchTasks(ctx context.Context) ([]Task, error)
	InsertTask(ctx context.Context, t NewTask) (Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Suggestion picker placeholders.
const (
	PickRoomFirst    = "Sélectionnez d'abord une pièce..."
	PickSuggestion   = "Choisir une tâche suggérée..."
	NoSuggestions    = "Aucune suggestion"
	NoTasks          = "Aucune tâche"
	PickRoom         = "Choisir une pièce..."
	PickPerson       = "Choisir une personne..."
	PickStatus       = "Choisir un statut..."
	RemoveTaskPrompt = "Voulez-vous vraiment supprimer cette tâche ?"
)

// SuggestionPicker is the state of the suggestion selector, which depends on
// the selected room.
type SuggestionPicker struct {
	Enabled     bool             `json:"enabled"`
	Placeholder string           `json:"placeholder"`
	Options     []TaskSuggestion `json:"options"`
}

// NewSuggestionPicker derives the selector state. A nil room disables it.
func NewSuggestionPicker(room *Room, suggestions []TaskSuggestion) SuggestionPicker {
	if room == nil {
		return SuggestionPicker{Placeholder: PickRoomFirst, Options: []TaskSuggestion{}}
	}
	if len(suggestions) == 0 {
		return SuggestionPicker{Enabled: true, Placeholder: NoSuggestions, Options: []TaskSuggestion{}}
	}
	return SuggestionPicker{Enabled: true, Placeholder: PickSuggestion, Options: suggestions}
}

// Board is everything the task board renders.
type Board struct {
	Rooms        []Room           `json:"rooms"`
	People       []Person         `json:"people"`
	SelectedRoom *Room            `json:"selectedRoom,omitempty"`
	Suggestions  SuggestionPicker `json:"suggestions"`
	Filter       Filter           `json:"filter"`
	Tasks        []Task           `json:"tasks"`
}

// BoardService drives the task board.
type BoardService struct {
	st  BoardStorage
	rec ActivityRecorder
	log *log.Logger
}

func NewBoardService(st BoardStorage, rec ActivityRecorder, logger *log.Logger) BoardService {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return BoardService{st: st, rec: recorderOrNop(rec), log: logger}
}

func (s BoardService) fail(op string, err error, fields log.Fields) {
	s.log.WithError(err).WithFields(fields).WithField("op", op).Error("store operation failed")
}

// ListRooms returns every room for the room selector.
func (s BoardService) ListRooms(ctx context.Context) []Room {
	rooms, err := s.st.FetchRooms(ctx)
	if err != nil {
		s.fail("fetch_rooms", err, nil)
		return []Room{}
	}
	return rooms
}

// ListPeople returns every person for the assignee selector.
func (s BoardService) ListPeople(ctx context.Context) []Person {
	people, err := s.st.FetchPeople(ctx)
	if err != nil {
		s.fail("fetch_people", err, nil)
		return []Person{}
	}
	return people
}

// Suggestions returns the picker state for the selected room.
func (s BoardService) Suggestions(ctx context.Context, room *Room) SuggestionPicker {
	if room == nil {
		return NewSuggestionPicker(nil, nil)
	}
	key := room.Key()
	suggestions, err := s.st.FetchSuggestions(ctx, key)
	if err != nil {
		s.fail("fetch_suggestions", err, log.Fields{"room": key})
		suggestions = nil
	}
	return NewSuggestionPicker(room, suggestions)
}

// ListTasks returns tasks of roomID (all rooms when empty) passing filter.
func (s BoardService) ListTasks(ctx context.Context, roomID string, filter Filter) []Task {
	tasks, err := s.st.FetchTasks(ctx)
	if err != nil {
		s.fail("fetch_tasks", err, nil)
		return []Task{}
	}
	return FilterTasks(tasks, roomID, filter)
}

// Load assembles the board for the selected room id and filter. An unknown
// room id counts as no selection.
func (s BoardService) Load(ctx context.Context, roomID string, filter Filter) Board {
	b := Board{
		Rooms:  s.ListRooms(ctx),
		People: s.ListPeople(ctx),
		Filter: filter,
	}
	if r, ok := FindRoom(b.Rooms, roomID); ok {
		b.SelectedRoom = &r
	} else {
		roomID = ""
	}
	b.Suggestions = s.Suggestions(ctx, b.SelectedRoom)
	b.Tasks = s.ListTasks(ctx, roomID, filter)
	return b
}

// AddTask validates and stores a task. Only validation failures are
// reported; a failed insert is logged and yields a nil task.
func (s BoardService) AddTask(ctx context.Context, in NewTask) (*Task, error) {
	nt, err := in.Normalize()
	if err != nil {
		return nil, err
	}
	t, err := s.st.InsertTask(ctx, nt)
	if err != nil {
		s.fail("insert_task", err, log.Fields{"name": nt.Name, "room": nt.RoomID})
		return nil, nil
	}
	s.log.WithFields(log.Fields{"id": t.ID, "name": t.Name, "room": t.RoomID}).Debug("task inserted")
	s.rec.Record(ctx, Activity{Entity: EntityTask, Action: ActionCreated, ID: t.ID, Name: t.Name, Room: t.RoomID})
	return &t, nil
}

// RemoveTask deletes the task with the given id.
func (s BoardService) RemoveTask(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := s.st.DeleteTask(ctx, id); err != nil {
		s.fail("delete_task", err, log.Fields{"id": id})
		return
	}
	s.rec.Record(ctx, Activity{Entity: EntityTask, Action: ActionDeleted, ID: id})
}

// IsValidationError reports whether err came from task validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingFields)
}
