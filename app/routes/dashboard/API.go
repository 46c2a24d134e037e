package dashboard

import (
	"github.com/framboises/cockpit/app/services"
	"github.com/framboises/cockpit/app/timeline"

	"github.com/gofiber/fiber/v2"
)

var sweeper *services.Sweeper

func SetupDashboardRoutes(app *fiber.App, sw *services.Sweeper) {
	sweeper = sw

	app.Get("/dashboard", GetDashboard)
	app.Get("/api/dashboard/stats", GetDashboardStatsAPI)
}

// GetDashboard renders the timeline page. The event and year default to
// the scope of the last computed snapshot so a bare /dashboard works
// once a first schedule has been served.
func GetDashboard(c *fiber.Ctx) error {
	event := c.Query("event")
	year := c.Query("year")
	if snap := sweeper.Current(); snap != nil {
		if event == "" {
			event = snap.Event
		}
		if year == "" {
			year = snap.Year
		}
	}

	return c.Render("timeline/index", fiber.Map{
		"Title":       "Timeline",
		"CurrentPage": "timeline",
		"Event":       event,
		"Year":        year,
	})
}

// GetDashboardStatsAPI summarizes the cached schedule: how many entries
// sit in each preparation status, per day and overall.
func GetDashboardStatsAPI(c *fiber.Ctx) error {
	snap := sweeper.Current()
	if snap == nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Aucun planning calculé pour le moment.",
		})
	}

	totals := map[timeline.Status]int{}
	perDay := make([]fiber.Map, 0, len(snap.Days))
	for _, day := range snap.Days {
		counts := map[timeline.Status]int{}
		for _, node := range day.Nodes {
			counts[node.Status]++
			totals[node.Status]++
		}
		perDay = append(perDay, fiber.Map{
			"date":   day.Date,
			"counts": counts,
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"event":       snap.Event,
		"year":        snap.Year,
		"computed_at": snap.ComputedAt,
		"totals":      totals,
		"days":        perDay,
	})
}
