package todosets

import (
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/framboises/cockpit/app/config"
	"github.com/framboises/cockpit/app/database"
	"github.com/framboises/cockpit/app/models"
)

func SetupTodoSetRoutes(app *fiber.App) {
	api := app.Group("/api/todo-sets")
	api.Get("/", ListTodoSetsAPI)
	api.Get("/:id", GetTodoSetAPI)
	api.Post("/", CreateTodoSetAPI)
	api.Put("/:id", UpdateTodoSetAPI)
	api.Delete("/:id", DeleteTodoSetAPI)
	api.Post("/bulk-delete", BulkDeleteTodoSetsAPI)
}

// ListTodoSetsAPI returns every reusable checklist template.
func ListTodoSetsAPI(c *fiber.Ctx) error {
	sets, err := database.GetTodoSets(config.GetDB())
	if err != nil {
		log.Printf("Error fetching todo sets: %v", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch todo sets",
		})
	}
	if sets == nil {
		sets = []models.TodoSet{}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    sets,
	})
}

func GetTodoSetAPI(c *fiber.Ctx) error {
	set, err := database.GetTodoSet(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "Liste de tâches introuvable.",
			})
		}
		log.Printf("Error fetching todo set %s: %v", c.Params("id"), err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch todo set",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    set,
	})
}

// CreateTodoSetAPI stores a new checklist template. Type is the label the
// timetable editor offers when attaching a checklist to an event.
func CreateTodoSetAPI(c *fiber.Ctx) error {
	set := new(models.TodoSet)
	if err := c.BodyParser(set); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if set.Type == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Le champ 'type' est requis.",
		})
	}
	if err := database.CreateTodoSet(config.GetDB(), set); err != nil {
		log.Printf("Error creating todo set: %v", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to create todo set",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Liste de tâches créée avec succès",
		"data":    set,
	})
}

func UpdateTodoSetAPI(c *fiber.Ctx) error {
	set := new(models.TodoSet)
	if err := c.BodyParser(set); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	set.ID = c.Params("id")
	if err := database.UpdateTodoSet(config.GetDB(), set); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "Liste de tâches introuvable.",
			})
		}
		log.Printf("Error updating todo set %s: %v", set.ID, err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to update todo set",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Liste de tâches mise à jour avec succès",
		"data":    set,
	})
}

func DeleteTodoSetAPI(c *fiber.Ctx) error {
	if err := database.DeleteTodoSet(config.GetDB(), c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "Liste de tâches introuvable.",
			})
		}
		log.Printf("Error deleting todo set %s: %v", c.Params("id"), err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to delete todo set",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Liste de tâches supprimée avec succès",
	})
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkDeleteTodoSetsAPI removes several templates in one call and reports
// how many actually existed.
func BulkDeleteTodoSetsAPI(c *fiber.Ctx) error {
	req := new(bulkDeleteRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if len(req.IDs) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Le champ 'ids' est requis.",
		})
	}
	deleted, err := database.DeleteTodoSets(config.GetDB(), req.IDs)
	if err != nil {
		log.Printf("Error bulk-deleting todo sets: %v", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to delete todo sets",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"deleted": deleted,
	})
}
