package database

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/framboises/cockpit/app/models"
)

// GetTodoSets returns every checklist template, ordered by type.
func GetTodoSets(db *sql.DB) ([]models.TodoSet, error) {
	query := `SELECT id, type, todos FROM todo_sets ORDER BY type ASC`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []models.TodoSet
	for rows.Next() {
		s, err := scanTodoSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// GetTodoSet fetches one checklist template by id.
func GetTodoSet(db *sql.DB, id string) (*models.TodoSet, error) {
	query := `SELECT id, type, todos FROM todo_sets WHERE id = $1`
	s, err := scanTodoSet(db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateTodoSet inserts a template, assigning its id.
func CreateTodoSet(db *sql.DB, s *models.TodoSet) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	todos, err := json.Marshal(s.Todos)
	if err != nil {
		return err
	}
	query := `INSERT INTO todo_sets (id, type, todos) VALUES ($1, $2, $3)`
	_, err = db.Exec(query, s.ID, s.Type, string(todos))
	return err
}

// UpdateTodoSet replaces a template's type and task list.
func UpdateTodoSet(db *sql.DB, s *models.TodoSet) error {
	todos, err := json.Marshal(s.Todos)
	if err != nil {
		return err
	}
	query := `UPDATE todo_sets SET type = $1, todos = $2 WHERE id = $3`
	res, err := db.Exec(query, s.Type, string(todos), s.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteTodoSet removes one template.
func DeleteTodoSet(db *sql.DB, id string) error {
	res, err := db.Exec(`DELETE FROM todo_sets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteTodoSets removes a batch of templates and reports how many rows
// went away.
func DeleteTodoSets(db *sql.DB, ids []string) (int64, error) {
	res, err := db.Exec(`DELETE FROM todo_sets WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanTodoSet(row interface{ Scan(...interface{}) error }) (models.TodoSet, error) {
	var s models.TodoSet
	var todos []byte
	if err := row.Scan(&s.ID, &s.Type, &todos); err != nil {
		return s, err
	}
	if len(todos) > 0 {
		if err := json.Unmarshal(todos, &s.Todos); err != nil {
			return s, err
		}
	}
	return s, nil
}
