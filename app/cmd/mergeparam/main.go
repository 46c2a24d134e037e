package main

import (
	"flag"
	"fmt"

	"github.com/framboises/cockpit/app/config"
	"github.com/framboises/cockpit/app/services"
)

// Re-derives the parametrage vignettes for one scope from the command
// line, for operators fixing up a timetable outside the web UI.
func main() {
	event := flag.String("event", "24H AUTO", "event name")
	year := flag.String("year", "2026", "event year")
	flag.Parse()

	config.Load("config.yaml")
	config.InitDB()
	db := config.GetDB()
	if db == nil {
		fmt.Println("Failed to connect to database")
		return
	}
	defer db.Close()

	written, err := services.SyncParametrage(db, *event, *year)
	if err != nil {
		fmt.Printf("Error deriving vignettes: %v\n", err)
		return
	}
	fmt.Printf("%d vignettes written for %s %s\n", written, *event, *year)
}
