package clock

import (
	"github.com/framboises/cockpit/app/timeline"

	"github.com/gofiber/fiber/v2"
)

var simClock *timeline.SimClock

func SetupClockRoutes(app *fiber.App, ck *timeline.SimClock) {
	simClock = ck

	app.Get("/clock", GetClockAPI)
	app.Post("/clock/real", UseRealAPI)
	app.Post("/clock/sim", SetSimAPI)
	app.Post("/clock/speed", SetSpeedAPI)
	app.Post("/clock/play", PlayAPI)
	app.Post("/clock/pause", PauseAPI)
	app.Post("/clock/step", StepAPI)
}
