package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/framboises/cockpit/app/config"
)

// Quick connectivity and scan check against the timetable tables.
func main() {
	config.Load("config.yaml")
	config.InitDB()
	db := config.GetDB()
	defer db.Close()

	fmt.Println("Testing timetable query...")
	query := `SELECT t.id, t.event, t.year, t.date, t.start_time, t.end_time,
			  t.activity, t.place, t.origin, t.preparation_checked
			  FROM timetable_events t
			  ORDER BY t.date ASC, t.start_time ASC
			  LIMIT 20`

	rows, err := db.Query(query)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, event, year, date, activity, place, origin, prep string
		var start, end sql.NullString

		err := rows.Scan(&id, &event, &year, &date, &start, &end, &activity, &place, &origin, &prep)
		if err != nil {
			fmt.Printf("Scan failed: %v\n", err)
			continue
		}
		fmt.Printf("Found: %s %s [%s %s-%s] %s (origin=%s, prep=%q)\n",
			event, year, date, start.String, end.String, activity, origin, prep)
	}
	fmt.Println("Test complete.")
}
