package drinks

import (
	"strings"

	"trip-planner-backend/internal/activity"
	"trip-planner-backend/internal/database"
	"trip-planner-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DrinkResponse struct {
	ID       uint   `json:"id"`
	Category string `json:"categoria"`
	Name     string `json:"nome_bebida"`
	Votes    int64  `json:"votos"`
}

type CreateDrinkRequest struct {
	Category string `json:"categoria"`
	Name     string `json:"nome_bebida"`
	Votes    int64  `json:"votos"`
}

type VoteRequest struct {
	DrinkID uint `json:"drink_id"`
}

func toDrinkResponse(d models.Drink) DrinkResponse {
	return DrinkResponse{ID: d.ID, Category: string(d.Category), Name: d.Name, Votes: d.Votes}
}

func validDrinkCategory(cat string) bool {
	dc := models.DrinkCategory(cat)
	return dc == models.DrinkAlcoholic || dc == models.DrinkNonAlcoholic
}

// GET /api/drinks
func ListDrinksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ds []models.Drink
		if err := database.DB.Order("category asc, votes desc").Find(&ds).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar bebidas")
		}

		res := make([]DrinkResponse, 0, len(ds))
		for _, d := range ds {
			res = append(res, toDrinkResponse(d))
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// GET /api/drinks/category/:category
func ListDrinksByCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cat := c.Params("category")
		if !validDrinkCategory(cat) {
			return fiber.NewError(fiber.StatusBadRequest, "Categoria inválida. Use: alc ou non-alc")
		}

		var ds []models.Drink
		err := database.DB.Where("category = ?", cat).Order("votes desc").Find(&ds).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar bebidas")
		}

		res := make([]DrinkResponse, 0, len(ds))
		for _, d := range ds {
			res = append(res, toDrinkResponse(d))
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// POST /api/drinks
func CreateDrinkHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDrinkRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Category == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Categoria e nome da bebida são obrigatórios")
		}
		if !validDrinkCategory(body.Category) {
			return fiber.NewError(fiber.StatusBadRequest, "Categoria inválida. Use: alc ou non-alc")
		}
		if body.Votes < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "votos não pode ser negativo")
		}

		var count int64
		database.DB.Model(&models.Drink{}).
			Where("category = ? AND name = ?", body.Category, body.Name).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Esta bebida já existe nesta categoria")
		}

		d := models.Drink{
			Category: models.DrinkCategory(body.Category),
			Name:     body.Name,
			Votes:    body.Votes,
		}
		if err := database.DB.Create(&d).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao criar bebida")
		}

		activity.Record(nil, "bebida", d.ID, models.ActivityActionCreate, "Bebida sugerida: "+d.Name)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": toDrinkResponse(d)})
	}
}

// POST /api/drinks/vote
// Incremento atômico no banco; votos concorrentes nunca se perdem.
func VoteDrinkHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body VoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.DrinkID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "drink_id é obrigatório")
		}

		result := database.DB.Model(&models.Drink{}).
			Where("id = ?", body.DrinkID).
			Update("votes", gorm.Expr("votes + 1"))
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao votar em bebida")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Bebida não encontrada")
		}

		var d models.Drink
		database.DB.First(&d, body.DrinkID)
		return c.JSON(fiber.Map{"success": true, "message": "Voto computado com sucesso", "data": toDrinkResponse(d)})
	}
}
