package schedule

import (
	"github.com/framboises/cockpit/app/services"
	"github.com/framboises/cockpit/app/timeline"

	"github.com/gofiber/fiber/v2"
)

var (
	sweeper *services.Sweeper
	nowline *timeline.NowLineController
	clock   *timeline.SimClock
)

func SetupScheduleRoutes(app *fiber.App, sw *services.Sweeper, nl *timeline.NowLineController, ck *timeline.SimClock) {
	sweeper = sw
	nowline = nl
	clock = ck

	app.Get("/timeline/schedule", GetScheduleAPI)
	app.Post("/timeline/nowline", PositionNowLineAPI)
	app.Get("/timeline/export.ics", ExportICSAPI)

	app.Post("/timeline/refresh/start", StartRefreshAPI)
	app.Post("/timeline/refresh/stop", StopRefreshAPI)
	app.Post("/timeline/refresh/interval", SetRefreshIntervalAPI)
}
