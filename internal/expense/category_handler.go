package expense

import (
	"strings"

	"trip-planner-backend/internal/activity"
	"trip-planner-backend/internal/database"
	"trip-planner-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CategoryResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"nome"`
	Icon     string `json:"icone"`
	Color    string `json:"cor"`
	IsSystem bool   `json:"is_system"`
}

type CreateCategoryRequest struct {
	Name  string `json:"nome"`
	Icon  string `json:"icone"`
	Color string `json:"cor"`
}

func toCategoryResponse(c models.ExpenseCategory) CategoryResponse {
	return CategoryResponse{
		ID:       c.ID,
		Name:     c.Name,
		Icon:     c.Icon,
		Color:    c.Color,
		IsSystem: c.IsSystem,
	}
}

// GET /api/expenses/categories
// Categorias do sistema primeiro, depois as demais em ordem alfabética.
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cats []models.ExpenseCategory
		if err := database.DB.Order("is_system desc, name asc").Find(&cats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar categorias")
		}

		res := make([]CategoryResponse, 0, len(cats))
		for _, cat := range cats {
			res = append(res, toCategoryResponse(cat))
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// POST /api/expenses/categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}

		var count int64
		database.DB.Model(&models.ExpenseCategory{}).Where("name = ?", body.Name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Categoria já existe")
		}

		cat := models.ExpenseCategory{
			Name:     body.Name,
			Icon:     body.Icon,
			Color:    body.Color,
			IsSystem: false,
		}
		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao criar categoria")
		}

		activity.Record(nil, "categoria", cat.ID, models.ActivityActionCreate, "Categoria criada: "+cat.Name)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": toCategoryResponse(cat)})
	}
}

// DELETE /api/expenses/categories/:id
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.ExpenseCategory
		if err := database.DB.First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Categoria não encontrada")
		}

		if cat.IsSystem {
			return fiber.NewError(fiber.StatusForbidden, "Não é possível deletar categorias do sistema")
		}

		var inUse int64
		database.DB.Model(&models.Expense{}).Where("category_id = ?", cat.ID).Count(&inUse)
		if inUse == 0 {
			var est int64
			database.DB.Model(&models.ExpenseEstimate{}).Where("category_id = ?", cat.ID).Count(&est)
			inUse = est
		}
		if inUse > 0 {
			return fiber.NewError(fiber.StatusConflict, "Categoria em uso por despesas ou estimativas")
		}

		if err := database.DB.Delete(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao deletar categoria")
		}

		activity.Record(nil, "categoria", cat.ID, models.ActivityActionDelete, "Categoria removida: "+cat.Name)
		return c.JSON(fiber.Map{"success": true, "message": "Categoria deletada"})
	}
}
