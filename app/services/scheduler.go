package services

import (
	"database/sql"
	"log"
	"time"

	"github.com/framboises/cockpit/app/timeline"
)

// StartScheduler starts the background status machinery: the sweeper that
// keeps derived statuses fresh and the now-line controller that drives it
// on the configured interval. Returns both so routes can share them.
func StartScheduler(db *sql.DB, clock *timeline.SimClock, interval time.Duration, dedupeMode string) (*Sweeper, *timeline.NowLineController) {
	sweeper := NewSweeper(db, clock, dedupeMode)

	ctl := timeline.NewNowLineController(clock, sweeper.Tick)
	if err := ctl.SetInterval(interval); err != nil {
		log.Printf("Invalid sweep interval %s, keeping default: %v", interval, err)
	}
	ctl.Start()

	log.Printf("Scheduler started, status sweep every %s", interval)
	return sweeper, ctl
}
