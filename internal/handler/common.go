package handler

import (
	"errors"
	"log"

	"go-stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helpers to read the tenant scope set by the auth middleware
func getTenantID(c *fiber.Ctx) string {
	if tenantID, ok := c.Locals("tenant_id").(string); ok {
		return tenantID
	}
	return ""
}

func getUserName(c *fiber.Ctx) string {
	if userName, ok := c.Locals("user_name").(string); ok {
		return userName
	}
	return "Unknown"
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// respondError maps the service error taxonomy to HTTP statuses. Unknown
// errors are logged server-side and never leak details to the caller.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInsufficientStock):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.Status(503).JSON(fiber.Map{"error": "Temporary store conflict, please retry"})
	default:
		log.Printf("unexpected error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
