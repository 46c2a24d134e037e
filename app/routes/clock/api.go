package clock

import (
	"github.com/gofiber/fiber/v2"
)

// GetClockAPI reports the current mode, instant, speed and playback
// state.
func GetClockAPI(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"clock":   simClock.State(),
	})
}

// UseRealAPI switches the service back to wall-clock time.
func UseRealAPI(c *fiber.Ctx) error {
	simClock.UseReal()
	return c.JSON(fiber.Map{
		"success": true,
		"clock":   simClock.State(),
	})
}

type simRequest struct {
	Datetime string `json:"datetime"`
}

// SetSimAPI pins the clock at a simulated instant. The payload carries a
// "YYYY-MM-DD HH:MM" local datetime.
func SetSimAPI(c *fiber.Ctx) error {
	req := new(simRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if err := simClock.SetSim(req.Datetime); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"clock":   simClock.State(),
	})
}

type speedRequest struct {
	Speed float64 `json:"speed"`
}

// SetSpeedAPI changes the playback rate, in simulated minutes per real
// second.
func SetSpeedAPI(c *fiber.Ctx) error {
	req := new(speedRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if err := simClock.SetSpeed(req.Speed); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"clock":   simClock.State(),
	})
}

// PlayAPI starts continuous simulated playback.
func PlayAPI(c *fiber.Ctx) error {
	simClock.Play()
	return c.JSON(fiber.Map{
		"success": true,
		"clock":   simClock.State(),
	})
}

// PauseAPI halts playback at the current simulated instant.
func PauseAPI(c *fiber.Ctx) error {
	simClock.Pause()
	return c.JSON(fiber.Map{
		"success": true,
		"clock":   simClock.State(),
	})
}

type stepRequest struct {
	Minutes float64 `json:"minutes"`
}

// StepAPI advances the simulated instant by a number of minutes.
// Negative values step backwards.
func StepAPI(c *fiber.Ctx) error {
	req := new(stepRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	simClock.Step(req.Minutes)
	return c.JSON(fiber.Map{
		"success": true,
		"clock":   simClock.State(),
	})
}
