package timetable

import (
	"database/sql"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/framboises/cockpit/app/config"
	"github.com/framboises/cockpit/app/database"
	"github.com/framboises/cockpit/app/models"
	"github.com/framboises/cockpit/app/services"
)

// GetTimetableAPI returns the full per-date event map for a scope.
func GetTimetableAPI(c *fiber.Ctx) error {
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
		log.Printf("Error fetching timetable %s/%s: %v", event, year, err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch timetable",
		})
	}
	if len(byDate) == 0 {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Aucune donnée trouvée pour cet événement et cette année.",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    byDate,
	})
}

// GetCategoriesAPI returns the distinct categories used in a scope.
func GetCategoriesAPI(c *fiber.Ctx) error {
	event := c.Query("event")
	year := c.Query("year")
	db := config.GetDB()
	categories, err := database.GetTimetableCategories(db, event, year)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch categories",
		})
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"categories": categories,
	})
}

// GetParametrageAPI serves the stored parametrage document verbatim, or
// an empty object when the scope has none.
func GetParametrageAPI(c *fiber.Ctx) error {
	event := c.Query("event")
	year := c.Query("year")
	db := config.GetDB()
	raw, err := database.GetParametrage(db, event, year)
	if err != nil {
		log.Printf("Error fetching parametrage %s/%s: %v", event, year, err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch parametrage",
		})
	}
	if raw == nil {
		return c.JSON(fiber.Map{})
	}
	c.Set("Content-Type", "application/json")
	return c.Send(raw)
}

// AddEventAPI creates one timetable event and returns it with its
// assigned id.
func AddEventAPI(c *fiber.Ctx) error {
	ev := new(models.TimetableEvent)
	if err := c.BodyParser(ev); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if ev.Event == "" || ev.Year == "" || ev.Date == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "event, year and date are required",
		})
	}
	if ev.Type == "" {
		ev.Type = "Timetable"
	}
	if ev.Origin == "" {
		ev.Origin = "manual"
	}

	db := config.GetDB()
	if err := database.AddTimetableEvent(db, ev); err != nil {
		log.Printf("Error adding timetable event: %v", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to add event",
		})
	}

	kickSweep(ev.Event, ev.Year)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Événement ajouté avec succès",
		"event":   ev,
	})
}

type scopedRequest struct {
	Event string `json:"event"`
	Year  string `json:"year"`
	Date  string `json:"date"`
	ID    string `json:"_id"`
}

// valid reports whether the request fully identifies a record; an event
// without an id cannot be mutated.
func (r scopedRequest) valid() bool {
	return r.Event != "" && r.Year != "" && r.Date != "" && r.ID != ""
}

type updateRequest struct {
	scopedRequest
	models.TimetableEventPatch
}

// UpdateEventAPI applies a partial update; null or absent fields never
// overwrite stored values.
func UpdateEventAPI(c *fiber.Ctx) error {
	req := new(updateRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if !req.valid() {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "event, year, date and _id are required",
		})
	}

	db := config.GetDB()
	err := database.UpdateTimetableEvent(db, req.Event, req.Year, req.Date, req.ID, req.TimetableEventPatch)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Event not found",
		})
	}
	if err != nil {
		log.Printf("Error updating timetable event %s: %v", req.ID, err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to update event",
		})
	}

	kickSweep(req.Event, req.Year)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Event updated successfully",
	})
}

// DeleteEventAPI removes one event from its scope.
func DeleteEventAPI(c *fiber.Ctx) error {
	req := new(scopedRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if !req.valid() {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "event, year, date and _id are required",
		})
	}

	db := config.GetDB()
	err := database.DeleteTimetableEvent(db, req.Event, req.Year, req.Date, req.ID)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Event not found",
		})
	}
	if err != nil {
		log.Printf("Error deleting timetable event %s: %v", req.ID, err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to delete event",
		})
	}

	kickSweep(req.Event, req.Year)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Event deleted successfully",
	})
}

// DuplicateEventAPI copies one event under a fresh id.
func DuplicateEventAPI(c *fiber.Ctx) error {
	req := new(scopedRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if !req.valid() {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "event, year, date and _id are required",
		})
	}

	db := config.GetDB()
	dup, err := database.DuplicateTimetableEvent(db, req.Event, req.Year, req.Date, req.ID)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Event not found",
		})
	}
	if err != nil {
		log.Printf("Error duplicating timetable event %s: %v", req.ID, err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to duplicate event",
		})
	}

	kickSweep(req.Event, req.Year)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Event duplicated successfully",
		"event":   dup,
	})
}

type parametrageRequest struct {
	Event string          `json:"event"`
	Year  string          `json:"year"`
	Data  json.RawMessage `json:"data"`
}

// SetParametrageAPI stores the scope's parametrage document verbatim,
// then re-derives the access-control vignettes from it.
func SetParametrageAPI(c *fiber.Ctx) error {
	req := new(parametrageRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if req.Event == "" || req.Year == "" || len(req.Data) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "event, year and data are required",
		})
	}

	db := config.GetDB()
	if err := database.SetParametrage(db, req.Event, req.Year, req.Data); err != nil {
		log.Printf("Error storing parametrage %s/%s: %v", req.Event, req.Year, err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to store parametrage",
		})
	}

	written, err := services.SyncParametrage(db, req.Event, req.Year)
	if err != nil {
		log.Printf("Error deriving vignettes %s/%s: %v", req.Event, req.Year, err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Parametrage stored but vignette derivation failed",
		})
	}

	kickSweep(req.Event, req.Year)
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Paramétrage enregistré avec succès",
		"vignettes": written,
	})
}

// SetPreparationReadyAPI marks an event's base status ready.
func SetPreparationReadyAPI(c *fiber.Ctx) error {
	return setPreparation(c, "true")
}

// SetPreparationProgressAPI marks an event's base status in progress.
func SetPreparationProgressAPI(c *fiber.Ctx) error {
	return setPreparation(c, "progress")
}

type preparationRequest struct {
	ID    string `json:"id"`
	Event string `json:"event"`
	Year  string `json:"year"`
	Date  string `json:"date"`
}

func setPreparation(c *fiber.Ctx, value string) error {
	req := new(preparationRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if req.ID == "" || req.Event == "" || req.Year == "" || req.Date == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "id, event, year and date are required",
		})
	}

	db := config.GetDB()
	err := database.SetPreparation(db, req.Event, req.Year, req.Date, req.ID, value)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Event not found",
		})
	}
	if err != nil {
		log.Printf("Error setting preparation on %s: %v", req.ID, err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to set preparation status",
		})
	}

	kickSweep(req.Event, req.Year)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Preparation status updated",
	})
}
