package domain

import (
	"errors"
	"strings"
)

// StatusDone marks a finished task.
const StatusDone = "terminé"

// Statuses lists the values offered by the status selector.
var Statuses = []string{"à faire", "en cours", StatusDone}

// ErrMissingFields is returned when a task is submitted with an empty field.
var ErrMissingFields = errors.New("missing task fields")

// MissingFieldsAlert is the message shown for ErrMissingFields.
const MissingFieldsAlert = "Veuillez remplir tous les champs."

// Task is a chore assigned to a person in a room.
type Task struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Assignee string `json:"assignee"`
	RoomID   string `json:"roomId"`
	Status   string `json:"status"`
	// RoomName is filled from the rooms table on read. It is empty when the
	// room no longer exists.
	RoomName string `json:"roomName"`
}

// Label renders the task the way the board lists it.
func (t Task) Label() string {
	return "Tâche: " + t.Name + " | Personne: " + t.Assignee + " | Pièce: " + t.RoomName + " | Statut: " + t.Status
}

// PlanLabel renders the task the way the planning page lists it.
func (t Task) PlanLabel() string {
	if t.Status == "" {
		return t.Name
	}
	return t.Name + " [" + t.Status + "]"
}

// NewTask carries the board form values for a task to be created.
type NewTask struct {
	Name     string
	Assignee string
	RoomID   string
	Status   string
}

// Normalize trims every field and reports ErrMissingFields when one of them
// ends up empty.
func (n NewTask) Normalize() (NewTask, error) {
	out := NewTask{
		Name:     strings.TrimSpace(n.Name),
		Assignee: strings.TrimSpace(n.Assignee),
		RoomID:   strings.TrimSpace(n.RoomID),
		Status:   strings.TrimSpace(n.Status),
	}
	if out.Name == "" || out.Assignee == "" || out.RoomID == "" || out.Status == "" {
		return out, ErrMissingFields
	}
	return out, nil
}

// Filter selects tasks by status. FilterActive and FilterAll are special,
// any other value matches the status exactly.
type Filter string

const (
	FilterActive Filter = "active"
	FilterAll    Filter = "all"
)

// ParseFilter maps a raw query value to a Filter. Empty means FilterActive.
func ParseFilter(raw string) Filter {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return FilterActive
	}
	return Filter(raw)
}

// Match reports whether the task passes the filter.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return t.Status != StatusDone
	case FilterAll:
		return true
	default:
		return t.Status == string(f)
	}
}

// FilterTasks keeps tasks of roomID (all rooms when empty) that match f.
func FilterTasks(tasks []Task, roomID string, f Filter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if roomID != "" && t.RoomID != roomID {
			continue
		}
		if !f.Match(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
