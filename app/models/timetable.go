package models

import "encoding/json"

// TimetableEvent represents one vignette of the operational timetable.
// Records are scoped by (event, year) and partitioned by date. Start and End
// are "HH:MM" strings, empty, or the sentinel "TBC". Todo is schemaless on
// the wire: a delimited string, a list of strings, or a list of
// {text, done} objects, depending on which tool wrote it.
type TimetableEvent struct {
	ID          string      `json:"_id"`
	Event       string      `json:"event,omitempty"`
	Year        string      `json:"year,omitempty"`
	Date        string      `json:"date"`
	Start       string      `json:"start"`
	End         string      `json:"end"`
	Duration    string      `json:"duration"`
	Category    string      `json:"category"`
	Activity    string      `json:"activity"`
	Place       string      `json:"place"`
	Department  string      `json:"department"`
	Remark      string      `json:"remark"`
	Todo        interface{} `json:"todo,omitempty"`
	Preparation string      `json:"preparation_checked"`
	Type        string      `json:"type,omitempty"`
	Origin      string      `json:"origin,omitempty"`
	ParamID     string      `json:"param_id,omitempty"`
}

// TimetableEventPatch carries a partial update. Nil fields are left
// untouched server-side; Todo uses RawMessage so "absent" can be told
// apart from an explicit new value.
type TimetableEventPatch struct {
	Start       *string         `json:"start"`
	End         *string         `json:"end"`
	Duration    *string         `json:"duration"`
	Category    *string         `json:"category"`
	Activity    *string         `json:"activity"`
	Place       *string         `json:"place"`
	Department  *string         `json:"department"`
	Remark      *string         `json:"remark"`
	Todo        json.RawMessage `json:"todo"`
	Preparation *string         `json:"preparation_checked"`
}

// TodoItem is the canonical in-memory form of one checklist entry.
type TodoItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}
