package utils

import "github.com/gofiber/fiber/v2"

// SendOK sends a `{"status":"ok"}` response, merged with any extra fields.
func SendOK(c *fiber.Ctx, extra fiber.Map) error {
	payload := fiber.Map{"status": "ok"}
	for key, value := range extra {
		payload[key] = value
	}

	return c.Status(fiber.StatusOK).JSON(payload)
}

// SendError sends an `{"error":"<message>"}` response with the given status
// code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}
