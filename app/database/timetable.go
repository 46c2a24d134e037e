package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/framboises/cockpit/app/models"
)

const timetableColumns = `id, event, year, date, start_time, end_time, duration,
	category, activity, place, department, remark, todo, preparation_checked,
	type, origin, param_id`

// GetTimetable retrieves every event of an (event, year) scope, keyed by
// date. The map is empty (not nil) when the scope has no rows.
func GetTimetable(db *sql.DB, event, year string) (map[string][]models.TimetableEvent, error) {
	query := `
		SELECT ` + timetableColumns + `
		FROM timetable_events
		WHERE event = $1 AND year = $2
		ORDER BY date ASC, start_time ASC, id ASC
	`
	rows, err := db.Query(query, event, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDate := make(map[string][]models.TimetableEvent)
	for rows.Next() {
		e, err := scanTimetableEvent(rows)
		if err != nil {
			return nil, err
		}
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	return byDate, rows.Err()
}

// GetTimetableEvent fetches one record by id within its scope.
func GetTimetableEvent(db *sql.DB, event, year, date, id string) (*models.TimetableEvent, error) {
	query := `
		SELECT ` + timetableColumns + `
		FROM timetable_events
		WHERE event = $1 AND year = $2 AND date = $3 AND id = $4
	`
	row := db.QueryRow(query, event, year, date, id)
	e, err := scanTimetableEvent(row)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetTimetableCategories returns the distinct categories used in a scope.
func GetTimetableCategories(db *sql.DB, event, year string) ([]string, error) {
	query := `
		SELECT DISTINCT category FROM timetable_events
		WHERE event = $1 AND year = $2 AND category <> ''
		ORDER BY category ASC
	`
	rows, err := db.Query(query, event, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// AddTimetableEvent inserts a new record, assigning its id.
func AddTimetableEvent(db *sql.DB, e *models.TimetableEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	todo, err := marshalTodo(e.Todo)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO timetable_events
			(id, event, year, date, start_time, end_time, duration, category,
			 activity, place, department, remark, todo, preparation_checked,
			 type, origin, param_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,NOW(),NOW())
	`
	_, err = db.Exec(query,
		e.ID, e.Event, e.Year, e.Date, e.Start, e.End, e.Duration, e.Category,
		e.Activity, e.Place, e.Department, e.Remark, todo, e.Preparation,
		e.Type, e.Origin, e.ParamID,
	)
	return err
}

// UpdateTimetableEvent applies a partial update: only non-nil patch
// fields reach the SET list, so absent values never overwrite stored ones.
func UpdateTimetableEvent(db *sql.DB, event, year, date, id string, patch models.TimetableEventPatch) error {
	sets := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if patch.Start != nil {
		add("start_time", *patch.Start)
	}
	if patch.End != nil {
		add("end_time", *patch.End)
	}
	if patch.Duration != nil {
		add("duration", *patch.Duration)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Activity != nil {
		add("activity", *patch.Activity)
	}
	if patch.Place != nil {
		add("place", *patch.Place)
	}
	if patch.Department != nil {
		add("department", *patch.Department)
	}
	if patch.Remark != nil {
		add("remark", *patch.Remark)
	}
	if len(patch.Todo) > 0 && string(patch.Todo) != "null" {
		add("todo", string(patch.Todo))
	}
	if patch.Preparation != nil {
		add("preparation_checked", *patch.Preparation)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE timetable_events SET %s
		WHERE event = $%d AND year = $%d AND date = $%d AND id = $%d
	`, strings.Join(sets, ", "), len(args)+1, len(args)+2, len(args)+3, len(args)+4)
	args = append(args, event, year, date, id)

	res, err := db.Exec(query, args...)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetPreparation writes the persisted base status of a record.
func SetPreparation(db *sql.DB, event, year, date, id, value string) error {
	query := `
		UPDATE timetable_events SET preparation_checked = $1, updated_at = NOW()
		WHERE event = $2 AND year = $3 AND date = $4 AND id = $5
	`
	res, err := db.Exec(query, value, event, year, date, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteTimetableEvent removes a record from its scope.
func DeleteTimetableEvent(db *sql.DB, event, year, date, id string) error {
	query := `DELETE FROM timetable_events WHERE event = $1 AND year = $2 AND date = $3 AND id = $4`
	res, err := db.Exec(query, event, year, date, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DuplicateTimetableEvent copies a record under a fresh id and returns
// the copy.
func DuplicateTimetableEvent(db *sql.DB, event, year, date, id string) (*models.TimetableEvent, error) {
	src, err := GetTimetableEvent(db, event, year, date, id)
	if err != nil {
		return nil, err
	}
	dup := *src
	dup.ID = uuid.NewString()
	dup.Origin = "manual"
	if err := AddTimetableEvent(db, &dup); err != nil {
		return nil, err
	}
	return &dup, nil
}

// UpsertParamVignette writes a parametrage-derived vignette. An existing
// row with the same (param_id, activity) on the same date is replaced so
// re-running the derivation converges instead of duplicating; manual
// edits to other fields of derived rows do not survive a re-sync.
func UpsertParamVignette(db *sql.DB, v *models.TimetableEvent) error {
	query := `
		UPDATE timetable_events SET
			start_time = $1, end_time = $2, duration = $3, category = $4,
			place = $5, department = $6, remark = $7, type = $8,
			origin = $9, updated_at = NOW()
		WHERE event = $10 AND year = $11 AND date = $12
		  AND param_id = $13 AND activity = $14
	`
	res, err := db.Exec(query,
		v.Start, v.End, v.Duration, v.Category, v.Place, v.Department,
		v.Remark, v.Type, v.Origin,
		v.Event, v.Year, v.Date, v.ParamID, v.Activity,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return AddTimetableEvent(db, v)
}

func scanTimetableEvent(row interface{ Scan(...interface{}) error }) (models.TimetableEvent, error) {
	var e models.TimetableEvent
	var todo sql.NullString
	err := row.Scan(
		&e.ID, &e.Event, &e.Year, &e.Date, &e.Start, &e.End, &e.Duration,
		&e.Category, &e.Activity, &e.Place, &e.Department, &e.Remark, &todo,
		&e.Preparation, &e.Type, &e.Origin, &e.ParamID,
	)
	if err != nil {
		return e, err
	}
	if todo.Valid && todo.String != "" {
		var raw interface{}
		if json.Unmarshal([]byte(todo.String), &raw) == nil {
			e.Todo = raw
		} else {
			e.Todo = todo.String
		}
	}
	return e, nil
}

// marshalTodo encodes the schemaless todo field for the JSONB column.
func marshalTodo(todo interface{}) (interface{}, error) {
	if todo == nil {
		return nil, nil
	}
	b, err := json.Marshal(todo)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
