package domain

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
)

var errStoreDown = errors.New("store down")

type fakeStore struct {
	mu          sync.Mutex
	seq         int
	people      []Person
	rooms       []Room
	suggestions []TaskSuggestion
	tasks       []Task
	calls       []string
	failOps     map[string]bool
}

func (f *fakeStore) nextID() string {
	f.seq++
	return strconv.Itoa(1000 + f.seq)
}

func (f *fakeStore) call(op string) error {
	f.calls = append(f.calls, op)
	if f.failOps[op] {
		return errStoreDown
	}
	return nil
}

func (f *fakeStore) FetchPeople(ctx context.Context) ([]Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("FetchPeople"); err != nil {
		return nil, err
	}
	return append([]Person(nil), f.people...), nil
}

func (f *fakeStore) InsertPerson(ctx context.Context, name string) (Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("InsertPerson"); err != nil {
		return Person{}, err
	}
	p := Person{ID: f.nextID(), Name: name}
	f.people = append(f.people, p)
	return p, nil
}

func (f *fakeStore) DeletePerson(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeletePerson"); err != nil {
		return err
	}
	out := f.people[:0]
	for _, p := range f.people {
		if p.ID != id {
			out = append(out, p)
		}
	}
	f.people = out
	return nil
}

func (f *fakeStore) FetchRooms(ctx context.Context) ([]Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("FetchRooms"); err != nil {
		return nil, err
	}
	return append([]Room(nil), f.rooms...), nil
}

func (f *fakeStore) InsertRoom(ctx context.Context, name string) (Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("InsertRoom"); err != nil {
		return Room{}, err
	}
	r := Room{ID: f.nextID(), Name: name}
	f.rooms = append(f.rooms, r)
	return r, nil
}

func (f *fakeStore) DeleteRoom(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteRoom"); err != nil {
		return err
	}
	out := f.rooms[:0]
	for _, r := range f.rooms {
		if r.ID != id {
			out = append(out, r)
		}
	}
	f.rooms = out
	return nil
}

func (f *fakeStore) UpdateRoomName(ctx context.Context, id, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateRoomName"); err != nil {
		return err
	}
	for i := range f.rooms {
		if f.rooms[i].ID == id {
			f.rooms[i].Name = name
		}
	}
	return nil
}

func (f *fakeStore) FetchSuggestions(ctx context.Context, roomKey string) ([]TaskSuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("FetchSuggestions"); err != nil {
		return nil, err
	}
	out := []TaskSuggestion{}
	for _, s := range f.suggestions {
		if s.Room == roomKey {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) InsertSuggestion(ctx context.Context, roomKey, name string) (TaskSuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("InsertSuggestion"); err != nil {
		return TaskSuggestion{}, err
	}
	s := TaskSuggestion{ID: f.nextID(), Room: roomKey, Name: name}
	f.suggestions = append(f.suggestions, s)
	return s, nil
}

func (f *fakeStore) UpdateSuggestion(ctx context.Context, id, name string) (TaskSuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateSuggestion"); err != nil {
		return TaskSuggestion{}, err
	}
	for i := range f.suggestions {
		if f.suggestions[i].ID == id {
			f.suggestions[i].Name = name
			return f.suggestions[i], nil
		}
	}
	return TaskSuggestion{}, errors.New("not found")
}

func (f *fakeStore) UpdateSuggestionRoom(ctx context.Context, id, roomKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateSuggestionRoom"); err != nil {
		return err
	}
	for i := range f.suggestions {
		if f.suggestions[i].ID == id {
			f.suggestions[i].Room = roomKey
		}
	}
	return nil
}

func (f *fakeStore) DeleteSuggestion(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteSuggestion"); err != nil {
		return err
	}
	out := f.suggestions[:0]
	for _, s := range f.suggestions {
		if s.ID != id {
			out = append(out, s)
		}
	}
	f.suggestions = out
	return nil
}

func (f *fakeStore) FetchTasks(ctx context.Context) ([]Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("FetchTasks"); err != nil {
		return nil, err
	}
	names := make(map[string]string, len(f.rooms))
	for _, r := range f.rooms {
		names[r.ID] = r.Name
	}
	out := make([]Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		t.RoomName = names[t.RoomID]
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) InsertTask(ctx context.Context, nt NewTask) (Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("InsertTask"); err != nil {
		return Task{}, err
	}
	t := Task{ID: f.nextID(), Name: nt.Name, Assignee: nt.Assignee, RoomID: nt.RoomID, Status: nt.Status}
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeStore) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteTask"); err != nil {
		return err
	}
	out := f.tasks[:0]
	for _, t := range f.tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	f.tasks = out
	return nil
}

func (f *fakeStore) called(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

type recordingRecorder struct {
	mu   sync.Mutex
	acts []Activity
}

func (r *recordingRecorder) Record(ctx context.Context, a Activity) {
	r.mu.Lock()
	r.acts = append(r.acts, a)
	r.mu.Unlock()
}

func (r *recordingRecorder) activities() []Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Activity(nil), r.acts...)
}
