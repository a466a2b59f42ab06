package domain

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
)

// AdminStorage defines the store calls used by the admin page.
type AdminStorage interface {
	FetchPeople(ctx context.Context) ([]Person, error)
	InsertPerson(ctx context.Context, name string) (Person, error)
	DeletePerson(ctx context.Context, id string) error

	FetchRooms(ctx context.Context) ([]Room, error)
	InsertRoom(ctx context.Context, name string) (Room, error)
	DeleteRoom(ctx context.Context, id string) error
	UpdateRoomName(ctx context.Context, id, name string) error

	FetchSuggestions(ctx context.Context, roomKey string) ([]TaskSuggestion, error)
	InsertSuggestion(ctx context.Context, roomKey, name string) (TaskSuggestion, error)
	UpdateSuggestion(ctx context.Context, id, name string) (TaskSuggestion, error)
	UpdateSuggestionRoom(ctx context.Context, id, roomKey string) error
	DeleteSuggestion(ctx context.Context, id string) error
}

// AdminService manages people, rooms and room suggestions. Store failures are
// logged and reported as empty results.
type AdminService struct {
	st  AdminStorage
	rec ActivityRecorder
	log *log.Logger
}

func NewAdminService(st AdminStorage, rec ActivityRecorder, logger *log.Logger) AdminService {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return AdminService{st: st, rec: recorderOrNop(rec), log: logger}
}

func (s AdminService) fail(op string, err error, fields log.Fields) {
	s.log.WithError(err).WithFields(fields).WithField("op", op).Error("store operation failed")
}

// ListPeople returns every person.
func (s AdminService) ListPeople(ctx context.Context) []Person {
	people, err := s.st.FetchPeople(ctx)
	if err != nil {
		s.fail("fetch_people", err, nil)
		return []Person{}
	}
	return people
}

// AddPerson creates a person from the trimmed name. It returns nil when the
// name is blank or the insert failed.
func (s AdminService) AddPerson(ctx context.Context, name string) *Person {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	p, err := s.st.InsertPerson(ctx, name)
	if err != nil {
		s.fail("insert_person", err, log.Fields{"name": name})
		return nil
	}
	s.rec.Record(ctx, Activity{Entity: EntityPerson, Action: ActionCreated, ID: p.ID, Name: p.Name})
	return &p
}

// RemovePerson deletes the person with the given id.
func (s AdminService) RemovePerson(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := s.st.DeletePerson(ctx, id); err != nil {
		s.fail("delete_person", err, log.Fields{"id": id})
		return
	}
	s.rec.Record(ctx, Activity{Entity: EntityPerson, Action: ActionDeleted, ID: id})
}

// ListRooms returns every room.
func (s AdminService) ListRooms(ctx context.Context) []Room {
	rooms, err := s.st.FetchRooms(ctx)
	if err != nil {
		s.fail("fetch_rooms", err, nil)
		return []Room{}
	}
	return rooms
}

// FindRoom looks a room up by id.
func (s AdminService) FindRoom(ctx context.Context, id string) (Room, bool) {
	return FindRoom(s.ListRooms(ctx), id)
}

// AddRoom creates a room from the trimmed name.
func (s AdminService) AddRoom(ctx context.Context, name string) *Room {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	r, err := s.st.InsertRoom(ctx, name)
	if err != nil {
		s.fail("insert_room", err, log.Fields{"name": name})
		return nil
	}
	s.rec.Record(ctx, Activity{Entity: EntityRoom, Action: ActionCreated, ID: r.ID, Name: r.Name, Room: r.Key()})
	return &r
}

// RemoveRoom deletes the room. Its suggestions and tasks are left in place.
func (s AdminService) RemoveRoom(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := s.st.DeleteRoom(ctx, id); err != nil {
		s.fail("delete_room", err, log.Fields{"id": id})
		return
	}
	s.rec.Record(ctx, Activity{Entity: EntityRoom, Action: ActionDeleted, ID: id})
}

// RenameRoom changes the room name and moves the suggestions filed under the
// old room key to the new one so they stay attached to the room.
func (s AdminService) RenameRoom(ctx context.Context, room Room, name string) *Room {
	name = strings.TrimSpace(name)
	if name == "" || name == room.Name {
		return nil
	}
	if err := s.st.UpdateRoomName(ctx, room.ID, name); err != nil {
		s.fail("update_room_name", err, log.Fields{"id": room.ID, "name": name})
		return nil
	}
	renamed := Room{ID: room.ID, Name: name}
	if oldKey, newKey := room.Key(), renamed.Key(); oldKey != newKey {
		suggestions, err := s.st.FetchSuggestions(ctx, oldKey)
		if err != nil {
			s.fail("fetch_suggestions", err, log.Fields{"room": oldKey})
		}
		for _, sg := range suggestions {
			if err := s.st.UpdateSuggestionRoom(ctx, sg.ID, newKey); err != nil {
				s.fail("update_suggestion_room", err, log.Fields{"id": sg.ID, "room": newKey})
			}
		}
	}
	s.rec.Record(ctx, Activity{Entity: EntityRoom, Action: ActionUpdated, ID: renamed.ID, Name: renamed.Name, Room: renamed.Key()})
	return &renamed
}

// ListSuggestionsForRoom returns the suggestions filed under the room key,
// ordered by id.
func (s AdminService) ListSuggestionsForRoom(ctx context.Context, room Room) []TaskSuggestion {
	key := room.Key()
	suggestions, err := s.st.FetchSuggestions(ctx, key)
	if err != nil {
		s.fail("fetch_suggestions", err, log.Fields{"room": key})
		return []TaskSuggestion{}
	}
	return suggestions
}

// AddSuggestion files a new suggestion under the room key.
func (s AdminService) AddSuggestion(ctx context.Context, room Room, name string) *TaskSuggestion {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	key := room.Key()
	sg, err := s.st.InsertSuggestion(ctx, key, name)
	if err != nil {
		s.fail("insert_suggestion", err, log.Fields{"room": key, "name": name})
		return nil
	}
	s.rec.Record(ctx, Activity{Entity: EntitySuggestion, Action: ActionCreated, ID: sg.ID, Name: sg.Name, Room: key})
	return &sg
}

// RenameSuggestion commits an inline edit. Blank or unchanged text is a no-op.
func (s AdminService) RenameSuggestion(ctx context.Context, id, current, name string) *TaskSuggestion {
	name = strings.TrimSpace(name)
	if id == "" || name == "" || name == current {
		return nil
	}
	sg, err := s.st.UpdateSuggestion(ctx, id, name)
	if err != nil {
		s.fail("update_suggestion", err, log.Fields{"id": id, "name": name})
		return nil
	}
	s.rec.Record(ctx, Activity{Entity: EntitySuggestion, Action: ActionUpdated, ID: sg.ID, Name: sg.Name, Room: sg.Room})
	return &sg
}

// RemoveSuggestion deletes the suggestion with the given id.
func (s AdminService) RemoveSuggestion(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := s.st.DeleteSuggestion(ctx, id); err != nil {
		s.fail("delete_suggestion", err, log.Fields{"id": id})
		return
	}
	s.rec.Record(ctx, Activity{Entity: EntitySuggestion, Action: ActionDeleted, ID: id})
}
