package models

// TodoSet is a reusable checklist template attached to a category type.
// New timetable events of that type start from its task list.
type TodoSet struct {
	ID    string   `json:"_id"`
	Type  string   `json:"type"`
	Todos []string `json:"todos"`
}
