package timetable

import (
	"log"

	"github.com/framboises/cockpit/app/services"

	"github.com/gofiber/fiber/v2"
)

var sweeper *services.Sweeper

func SetupTimetableRoutes(app *fiber.App, sw *services.Sweeper) {
	sweeper = sw

	app.Get("/timetable", GetTimetableAPI)
	app.Get("/get_timetable_categories", GetCategoriesAPI)
	app.Get("/get_parametrage", GetParametrageAPI)
	app.Post("/set_parametrage", SetParametrageAPI)

	app.Post("/add_timetable_event", AddEventAPI)
	app.Post("/update_timetable_event", UpdateEventAPI)
	app.Post("/delete_timetable_event", DeleteEventAPI)
	app.Post("/duplicate_timetable_event", DuplicateEventAPI)
	app.Post("/set_preparation_ready", SetPreparationReadyAPI)
	app.Post("/set_preparation_progress", SetPreparationProgressAPI)
}

// kickSweep recomputes the cached schedule after a mutation so the next
// poll sees fresh statuses without waiting for the periodic refresh.
func kickSweep(event, year string) {
	if sweeper == nil {
		return
	}
	go func() {
		if _, err := sweeper.Refresh(event, year); err != nil {
			log.Printf("Schedule refresh after mutation failed: %v", err)
		}
	}()
}
