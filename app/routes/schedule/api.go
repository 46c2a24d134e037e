package schedule

import (
	"fmt"
	"log"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/gofiber/fiber/v2"

	"github.com/framboises/cockpit/app/config"
	"github.com/framboises/cockpit/app/database"
	"github.com/framboises/cockpit/app/timeline"
)

// GetScheduleAPI recomputes and returns the annotated schedule for a
// scope. Polling clients can pass cached=1 to read the last computed
// snapshot without touching the database.
func GetScheduleAPI(c *fiber.Ctx) error {
	if c.Query("cached") == "1" {
		if snap := sweeper.Current(); snap != nil {
			return c.JSON(fiber.Map{"success": true, "data": snap})
		}
	}

	event := c.Query("event")
	year := c.Query("year")
	if event == "" || year == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Les paramètres 'event' et 'year' sont requis.",
		})
	}

	snap, err := sweeper.Refresh(event, year)
	if err != nil {
		log.Printf("Error computing schedule %s/%s: %v", event, year, err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to compute schedule",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    snap,
	})
}

type nowlineRequest struct {
	Layout  timeline.Layout `json:"layout"`
	LineTop *float64        `json:"line_top"`
}

// PositionNowLineAPI resolves where the current-time indicator belongs
// for a client-supplied layout, using the service clock (real or
// simulated).
func PositionNowLineAPI(c *fiber.Ctx) error {
	req := new(nowlineRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	lineTop := nowline.LineTop()
	if req.LineTop != nil {
		lineTop = *req.LineTop
	}

	placement, ok := timeline.PositionNowLine(req.Layout, clock.Now(), lineTop)
	if !ok {
		return c.JSON(fiber.Map{
			"success": false,
			"error":   "No section to position against",
		})
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"placement": placement,
	})
}

// ExportICSAPI renders the scope's timetable as an iCalendar feed.
// Events without a parseable start time are skipped; an event whose end
// is at or before its start is treated as running past midnight.
func ExportICSAPI(c *fiber.Ctx) error {
	event := c.Query("event")
	year := c.Query("year")
	if event == "" || year == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Les paramètres 'event' et 'year' sont requis.",
		})
	}

	db := config.GetDB()
	byDate, err := database.GetTimetable(db, event, year)
	if err != nil {
		log.Printf("Error fetching timetable %s/%s for export: %v", event, year, err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch timetable",
		})
	}

	loc := clock.Now().Location()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//framboises//cockpit//FR")

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, date := range dates {
		day, derr := time.ParseInLocation("2006-01-02", date, loc)
		if derr != nil {
			continue
		}
		for _, ev := range byDate[date] {
			if !timeline.IsValidClockString(ev.Start) {
				continue
			}
			start := day.Add(time.Duration(timeline.TimeToMinutes(ev.Start)) * time.Minute)
			end := start.Add(time.Hour)
			if timeline.IsValidClockString(ev.End) {
				end = day.Add(time.Duration(timeline.TimeToMinutes(ev.End)) * time.Minute)
				if !end.After(start) {
					end = end.AddDate(0, 0, 1)
				}
			}

			ve := cal.AddEvent(fmt.Sprintf("%s@cockpit", ev.ID))
			ve.SetCreatedTime(time.Now())
			ve.SetStartAt(start)
			ve.SetEndAt(end)
			ve.SetSummary(ev.Activity)
			if ev.Place != "" {
				ve.SetLocation(ev.Place)
			}
			if ev.Remark != "" {
				ve.SetDescription(ev.Remark)
			}
		}
	}

	c.Set("Content-Type", "text/calendar; charset=utf-8")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.ics"`, event, year))
	return c.SendString(cal.Serialize())
}

// StartRefreshAPI enables the periodic status sweep.
func StartRefreshAPI(c *fiber.Ctx) error {
	nowline.Start()
	return c.JSON(fiber.Map{"success": true, "running": nowline.Running()})
}

// StopRefreshAPI disables the periodic status sweep.
func StopRefreshAPI(c *fiber.Ctx) error {
	nowline.Stop()
	return c.JSON(fiber.Map{"success": true, "running": nowline.Running()})
}

type intervalRequest struct {
	Seconds int `json:"seconds"`
}

// SetRefreshIntervalAPI changes how often the sweep fires. A running
// sweep picks the new cadence up on its next restart.
func SetRefreshIntervalAPI(c *fiber.Ctx) error {
	req := new(intervalRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if err := nowline.SetInterval(time.Duration(req.Seconds) * time.Second); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "L'intervalle doit être strictement positif.",
		})
	}
	return c.JSON(fiber.Map{"success": true, "interval_seconds": req.Seconds})
}
