package domain

import (
	"strings"
	"unicode"
)

// Person is a household member tasks can be assigned to.
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Room is a place in the household. Its name also yields the key that links
// it to task suggestions.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Key returns the room key of the room name.
func (r Room) Key() string {
	return RoomKey(r.Name)
}

// TaskSuggestion is a canned task name offered for a room.
type TaskSuggestion struct {
	ID   string `json:"id"`
	Room string `json:"room"`
	Name string `json:"name"`
}

var accentFolds = map[rune]rune{
	'é': 'e',
	'è': 'e',
	'ê': 'e',
	'à': 'a',
}

// RoomKey lowercases name, collapses whitespace runs into a single
// underscore and folds accented letters. The result is stable under repeated
// application.
func RoomKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	inSpace := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
			continue
		}
		inSpace = false
		if folded, ok := accentFolds[r]; ok {
			r = folded
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FindRoom returns the room with the given id.
func FindRoom(rooms []Room, id string) (Room, bool) {
	for _, r := range rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}
