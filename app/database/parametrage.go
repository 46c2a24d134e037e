package database

import (
	"database/sql"
	"encoding/json"
)

// GetParametrage returns the stored parametrage document for a scope, or
// nil when none exists.
func GetParametrage(db *sql.DB, event, year string) (json.RawMessage, error) {
	var data []byte
	query := `SELECT data FROM parametrages WHERE event = $1 AND year = $2`
	err := db.QueryRow(query, event, year).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// SetParametrage upserts the parametrage document for a scope.
func SetParametrage(db *sql.DB, event, year string, data json.RawMessage) error {
	query := `
		INSERT INTO parametrages (event, year, data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (event, year) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	_, err := db.Exec(query, event, year, string(data))
	return err
}
