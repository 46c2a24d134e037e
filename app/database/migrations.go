package database

import (
	"database/sql"
	"log"
)

// RunMigrations checks and applies necessary schema updates
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	if err := createTimetableEventsTable(db); err != nil {
		return err
	}
	if err := createParametragesTable(db); err != nil {
		return err
	}
	if err := createTodoSetsTable(db); err != nil {
		return err
	}
	if err := addParamIDColumn(db); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createTimetableEventsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS timetable_events (
			id TEXT PRIMARY KEY,
			event TEXT NOT NULL,
			year TEXT NOT NULL,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL DEFAULT '',
			end_time TEXT NOT NULL DEFAULT '',
			duration TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			activity TEXT NOT NULL DEFAULT '',
			place TEXT NOT NULL DEFAULT '',
			department TEXT NOT NULL DEFAULT '',
			remark TEXT NOT NULL DEFAULT '',
			todo JSONB,
			preparation_checked TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT 'Timetable',
			origin TEXT NOT NULL DEFAULT 'manual',
			param_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_timetable_events_scope
			ON timetable_events (event, year, date);
	`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to create timetable_events table: %v", err)
		return err
	}
	return nil
}

func createParametragesTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS parametrages (
			event TEXT NOT NULL,
			year TEXT NOT NULL,
			data JSONB NOT NULL DEFAULT '{}',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (event, year)
		);
	`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to create parametrages table: %v", err)
		return err
	}
	return nil
}

func createTodoSetsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS todo_sets (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			todos JSONB NOT NULL DEFAULT '[]'
		);
	`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to create todo_sets table: %v", err)
		return err
	}
	return nil
}

// addParamIDColumn backfills the param_id column on databases created
// before the parametrage merge started stamping its vignettes.
func addParamIDColumn(db *sql.DB) error {
	query := `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1
				FROM information_schema.columns
				WHERE table_name = 'timetable_events'
				AND column_name = 'param_id'
			) THEN
				ALTER TABLE timetable_events ADD COLUMN param_id TEXT NOT NULL DEFAULT '';
				RAISE NOTICE 'Added param_id column to timetable_events';
			END IF;
		END $$;
	`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to run migration for param_id column: %v", err)
		return err
	}
	return nil
}
