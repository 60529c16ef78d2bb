package handler

import (
	"strconv"

	"go-stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetSummary returns today's headline numbers
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.service.GetSummary(getTenantID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard summary"})
	}
	return c.JSON(summary)
}

// GetTrends returns per-day traded value for charts
// Query params: range (7d or 30d, default 7d)
func (h *DashboardHandler) GetTrends(c *fiber.Ctx) error {
	days := 7
	if c.Query("range", "7d") == "30d" {
		days = 30
	}

	trends, err := h.service.GetTrends(getTenantID(c), days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch trends"})
	}
	return c.JSON(fiber.Map{"period": days, "data": trends})
}

func (h *DashboardHandler) GetTopProducts(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "5"))
	if err != nil || limit <= 0 {
		limit = 5
	}

	products, err := h.service.GetTopProducts(getTenantID(c), limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch top products"})
	}
	return c.JSON(products)
}

func (h *DashboardHandler) GetRecentTransactions(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	transactions, err := h.service.GetRecentTransactions(getTenantID(c), limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch recent transactions"})
	}
	return c.JSON(transactions)
}
