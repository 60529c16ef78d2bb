package handler

import (
	"strings"

	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CategoryHandler talks to the repository directly; categories carry no
// business rules beyond per-tenant name uniqueness.
type CategoryHandler struct {
	repo repository.CategoryRepository
}

func NewCategoryHandler(repo repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.repo.FindAll(getTenantID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch categories"})
	}
	return c.JSON(categories)
}

func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Category name is required"})
	}

	tenantID := getTenantID(c)
	if existing, _ := h.repo.FindByName(tenantID, name); existing != nil && existing.ID != uuid.Nil {
		return c.Status(400).JSON(fiber.Map{"error": "Category already exists"})
	}

	category := model.Category{TenantID: tenantID, Name: name}
	if err := h.repo.Create(&category); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create category"})
	}

	return c.Status(201).JSON(category)
}

func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Category name is required"})
	}

	deleted, err := h.repo.DeleteByName(getTenantID(c), name)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete category"})
	}
	if deleted == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "Category not found"})
	}

	return c.JSON(fiber.Map{"message": "Category deleted"})
}
