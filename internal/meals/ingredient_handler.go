package meals

import (
	"sort"

	"trip-planner-backend/internal/database"
	"trip-planner-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MealIngredientResponse struct {
	ID                uint    `json:"id"`
	MealID            uint    `json:"meal_id"`
	IngredientID      uint    `json:"ingredient_id"`
	QuantityNeeded    float64 `json:"quantidade_necessaria"`
	IngredientName    string  `json:"ingredient_nome"`
	Category          string  `json:"categoria"`
	TotalQuantity     float64 `json:"quantidade_total"`
	Unit              string  `json:"unidade"`
	Purchased         bool    `json:"comprado"`
	ResponsibleID     *uint   `json:"responsavel_id"`
	ResponsibleName   *string `json:"responsavel_nome"`
	ResponsibleAvatar *string `json:"responsavel_avatar"`
}

type IngredientMealResponse struct {
	ID             uint    `json:"id"`
	MealID         uint    `json:"meal_id"`
	IngredientID   uint    `json:"ingredient_id"`
	QuantityNeeded float64 `json:"quantidade_necessaria"`
	Date           string  `json:"data"`
	Type           string  `json:"tipo_refeicao"`
	MealName       string  `json:"nome_refeicao"`
}

type AddIngredientRequest struct {
	MealID         uint    `json:"meal_id"`
	IngredientID   uint    `json:"ingredient_id"`
	QuantityNeeded float64 `json:"quantidade_necessaria"`
}

type RemoveIngredientRequest struct {
	MealID       uint `json:"meal_id"`
	IngredientID uint `json:"ingredient_id"`
}

// POST /api/meal-ingredients
// Vínculo já existente tem a quantidade sobrescrita, não duplicada.
func AddIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AddIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.MealID == 0 || body.IngredientID == 0 || body.QuantityNeeded <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "meal_id, ingredient_id e quantidade_necessaria são obrigatórios")
		}

		var meal models.Meal
		if err := database.DB.First(&meal, "id = ?", body.MealID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Refeição não encontrada")
		}
		var item models.MarketItem
		if err := database.DB.First(&item, "id = ?", body.IngredientID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item do mercado não encontrado")
		}

		var link models.MealIngredient
		err := database.DB.
			Where("meal_id = ? AND ingredient_id = ?", body.MealID, body.IngredientID).
			First(&link).Error
		if err == nil {
			link.QuantityNeeded = body.QuantityNeeded
			if err := database.DB.Save(&link).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Erro ao adicionar ingrediente")
			}
		} else {
			link = models.MealIngredient{
				MealID:         body.MealID,
				IngredientID:   body.IngredientID,
				QuantityNeeded: body.QuantityNeeded,
			}
			if err := database.DB.Create(&link).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Erro ao adicionar ingrediente")
			}
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": fiber.Map{
			"id":                    link.ID,
			"meal_id":               link.MealID,
			"ingredient_id":         link.IngredientID,
			"quantidade_necessaria": link.QuantityNeeded,
		}})
	}
}

// DELETE /api/meal-ingredients
func RemoveIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RemoveIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.MealID == 0 || body.IngredientID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "meal_id e ingredient_id são obrigatórios")
		}

		result := database.DB.
			Where("meal_id = ? AND ingredient_id = ?", body.MealID, body.IngredientID).
			Delete(&models.MealIngredient{})
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao remover ingrediente")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Vínculo não encontrado")
		}

		return c.JSON(fiber.Map{"success": true, "message": "Ingrediente removido da refeição"})
	}
}

// GET /api/meal-ingredients/meal/:mealId
func ListMealIngredientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var links []models.MealIngredient
		err := database.DB.
			Preload("Ingredient.Responsible").
			Where("meal_id = ?", c.Params("mealId")).
			Find(&links).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar ingredientes")
		}

		res := make([]MealIngredientResponse, 0, len(links))
		for _, l := range links {
			r := MealIngredientResponse{
				ID:             l.ID,
				MealID:         l.MealID,
				IngredientID:   l.IngredientID,
				QuantityNeeded: l.QuantityNeeded,
				IngredientName: l.Ingredient.Name,
				Category:       l.Ingredient.Category,
				TotalQuantity:  l.Ingredient.Quantity,
				Unit:           l.Ingredient.Unit,
				Purchased:      l.Ingredient.Purchased,
				ResponsibleID:  l.Ingredient.ResponsibleID,
			}
			if l.Ingredient.Responsible != nil {
				name, avatar := l.Ingredient.Responsible.Name, l.Ingredient.Responsible.AvatarURL
				r.ResponsibleName, r.ResponsibleAvatar = &name, &avatar
			}
			res = append(res, r)
		}
		sort.Slice(res, func(i, j int) bool {
			if res[i].Category != res[j].Category {
				return res[i].Category < res[j].Category
			}
			return res[i].IngredientName < res[j].IngredientName
		})

		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// GET /api/meal-ingredients/ingredient/:ingredientId
func ListIngredientMealsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var links []models.MealIngredient
		err := database.DB.
			Preload("Meal").
			Where("ingredient_id = ?", c.Params("ingredientId")).
			Find(&links).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar refeições")
		}

		res := make([]IngredientMealResponse, 0, len(links))
		for _, l := range links {
			res = append(res, IngredientMealResponse{
				ID:             l.ID,
				MealID:         l.MealID,
				IngredientID:   l.IngredientID,
				QuantityNeeded: l.QuantityNeeded,
				Date:           l.Meal.Date.Format("2006-01-02"),
				Type:           string(l.Meal.Type),
				MealName:       l.Meal.Name,
			})
		}
		sort.Slice(res, func(i, j int) bool {
			if res[i].Date != res[j].Date {
				return res[i].Date < res[j].Date
			}
			return mealTypeOrder[models.MealType(res[i].Type)] < mealTypeOrder[models.MealType(res[j].Type)]
		})

		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}
