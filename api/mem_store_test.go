package api

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/antoine01000/bureau-main/domain"
)

var errStoreDown = errors.New("store down")

// memStore is an in-memory household store. Ids are zero padded so they sort
// in creation order.
type memStore struct {
	mu          sync.Mutex
	seq         int
	people      []domain.Person
	rooms       []domain.Room
	suggestions []domain.TaskSuggestion
	tasks       []domain.Task
	inserts     int
	down        bool
}

func (m *memStore) id(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%03d", prefix, m.seq)
}

func (m *memStore) err() error {
	if m.down {
		return errStoreDown
	}
	return nil
}

func (m *memStore) FetchPeople(context.Context) ([]domain.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err(); err != nil {
		return nil, err
	}
	return append([]domain.Person{}, m.people...), nil
}

func (m *memStore) InsertPerson(_ context.Context, name string) (domain.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err(); err != nil {
		return domain.Person{}, err
	}
	p := domain.Person{ID: m.id("p"), Name: name}
	m.people = append(m.people, p)
	return p, nil
}

func (m *memStore) DeletePerson(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.people[:0]
	for _, p := range m.people {
		if p.ID != id {
			out = append(out, p)
		}
	}
	m.people = out
	return m.err()
}

func (m *memStore) FetchRooms(context.Context) ([]domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err(); err != nil {
		return nil, err
	}
	return append([]domain.Room{}, m.rooms...), nil
}

func (m *memStore) InsertRoom(_ context.Context, name string) (domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err(); err != nil {
		return domain.Room{}, err
	}
	r := domain.Room{ID: m.id("r"), Name: name}
	m.rooms = append(m.rooms, r)
	return r, nil
}

func (m *memStore) DeleteRoom(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.rooms[:0]
	for _, r := range m.rooms {
		if r.ID != id {
			out = append(out, r)
		}
	}
	m.rooms = out
	return m.err()
}

func (m *memStore) UpdateRoomName(_ context.Context, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rooms {
		if m.rooms[i].ID == id {
			m.rooms[i].Name = name
		}
	}
	return m.err()
}

func (m *memStore) FetchSuggestions(_ context.Context, roomKey string) ([]domain.TaskSuggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err(); err != nil {
		return nil, err
	}
	out := []domain.TaskSuggestion{}
	for _, s := range m.suggestions {
		if s.Room == roomKey {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) InsertSuggestion(_ context.Context, roomKey, name string) (domain.TaskSuggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err(); err != nil {
		return domain.TaskSuggestion{}, err
	}
	s := domain.TaskSuggestion{ID: m.id("s"), Room: roomKey, Name: name}
	m.suggestions = append(m.suggestions, s)
	return s, nil
}

func (m *memStore) UpdateSuggestion(_ context.Context, id, name string) (domain.TaskSuggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err(); err != nil {
		return domain.TaskSuggestion{}, err
	}
	for i := range m.suggestions {
		if m.suggestions[i].ID == id {
			m.suggestions[i].Name = name
			return m.suggestions[i], nil
		}
	}
	return domain.TaskSuggestion{}, errors.New("suggestion not found")
}

func (m *memStore) UpdateSuggestionRoom(_ context.Context, id, roomKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.suggestions {
		if m.suggestions[i].ID == id {
			m.suggestions[i].Room = roomKey
		}
	}
	return m.err()
}

func (m *memStore) DeleteSuggestion(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.suggestions[:0]
	for _, s := range m.suggestions {
		if s.ID != id {
			out = append(out, s)
		}
	}
	m.suggestions = out
	return m.err()
}

func (m *memStore) FetchTasks(context.Context) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err(); err != nil {
		return nil, err
	}
	names := make(map[string]string, len(m.rooms))
	for _, r := range m.rooms {
		names[r.ID] = r.Name
	}
	out := make([]domain.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		t.RoomName = names[t.RoomID]
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) InsertTask(_ context.Context, nt domain.NewTask) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	if err := m.err(); err != nil {
		return domain.Task{}, err
	}
	t := domain.Task{ID: m.id("t"), Name: nt.Name, Assignee: nt.Assignee, RoomID: nt.RoomID, Status: nt.Status}
	m.tasks = append(m.tasks, t)
	return t, nil
}

func (m *memStore) DeleteTask(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.tasks[:0]
	for _, t := range m.tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	m.tasks = out
	return m.err()
}

func (m *memStore) taskCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
