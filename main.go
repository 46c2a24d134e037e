package main

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/framboises/cockpit/app/config"
	"github.com/framboises/cockpit/app/database"
	"github.com/framboises/cockpit/app/routes/clock"
	"github.com/framboises/cockpit/app/routes/dashboard"
	"github.com/framboises/cockpit/app/routes/schedule"
	"github.com/framboises/cockpit/app/routes/timetable"
	"github.com/framboises/cockpit/app/routes/todosets"
	"github.com/framboises/cockpit/app/services"
	"github.com/framboises/cockpit/app/timeline"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
)

// customErrorHandler returns JSON for API requests and rendered pages
// for everything else.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	path := c.Path()
	if strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/timeline") ||
		strings.HasPrefix(path, "/clock") || strings.HasPrefix(path, "/timetable") {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}

	switch code {
	case 404:
		return c.Status(404).Render("404", fiber.Map{
			"Title":       "Page introuvable - Cockpit",
			"CurrentPage": "",
		})
	default:
		return c.Status(code).Render("error", fiber.Map{
			"Title":        "Erreur - Cockpit",
			"CurrentPage":  "",
			"ErrorCode":    code,
			"ErrorTitle":   "An Error Occurred",
			"ErrorMessage": err.Error(),
		})
	}
}

func main() {
	cfg := config.Load("config.yaml")

	// The operation runs on the circuit's local time regardless of where
	// the service is deployed.
	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		log.Printf("Warning: Failed to load %s location, falling back to UTC+2: %v", cfg.Server.Timezone, err)
		loc = time.FixedZone("CEST", 2*60*60)
	}
	time.Local = loc
	log.Printf("Application time zone set to: %s", time.Local.String())

	// Initialize database
	config.InitDB()
	defer config.GetDB().Close()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Virtual clock and background status sweep
	simClock := timeline.NewSimClock(loc)
	sweeper, nowline := services.StartScheduler(config.GetDB(), simClock, cfg.SweepInterval(), cfg.Timeline.DedupeMode)
	nowline.SetLineTop(cfg.Timeline.LineTop)

	// Initialize template engine
	engine := html.New("./app/templates", ".html")
	engine.AddFunc("json", func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	})
	engine.Reload(true)
	engine.Debug(false)

	app := fiber.New(fiber.Config{
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      customErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Static files
	app.Static("/static", "./static")

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})

	dashboard.SetupDashboardRoutes(app, sweeper)
	timetable.SetupTimetableRoutes(app, sweeper)
	schedule.SetupScheduleRoutes(app, sweeper, nowline, simClock)
	clock.SetupClockRoutes(app, simClock)
	todosets.SetupTodoSetRoutes(app)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})

	log.Printf("Server starting on %s", cfg.Server.Listen)
	log.Fatal(app.Listen(cfg.Server.Listen))
}
