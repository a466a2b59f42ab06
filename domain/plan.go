package domain

// NoTasksInRoom is shown for a room without tasks on the planning page.
const NoTasksInRoom = "Aucune tâche pour cette pièce."

// RoomPlan is a room with the tasks that reference it.
type RoomPlan struct {
	Room  Room   `json:"room"`
	Tasks []Task `json:"tasks"`
}

// BuildPlan left-joins rooms to tasks by room id, keeping room order and the
// task order within each room.
func BuildPlan(rooms []Room, tasks []Task) []RoomPlan {
	byRoom := make(map[string][]Task, len(rooms))
	for _, t := range tasks {
		byRoom[t.RoomID] = append(byRoom[t.RoomID], t)
	}
	plan := make([]RoomPlan, 0, len(rooms))
	for _, r := range rooms {
		ts := byRoom[r.ID]
		if ts == nil {
			ts = []Task{}
		}
		plan = append(plan, RoomPlan{Room: r, Tasks: ts})
	}
	return plan
}
