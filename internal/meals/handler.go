package meals

import (
	"time"

	"trip-planner-backend/internal/activity"
	"trip-planner-backend/internal/database"
	"trip-planner-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Ordenação fixa do dia: café, almoço, jantar.
var mealTypeOrder = map[models.MealType]int{
	models.MealBreakfast: 1,
	models.MealLunch:     2,
	models.MealDinner:    3,
}

type MealResponse struct {
	ID                uint    `json:"id"`
	Date              string  `json:"data"`
	Type              string  `json:"tipo_refeicao"`
	Name              string  `json:"nome_refeicao"`
	Ingredients       string  `json:"ingredientes"`
	CookID            *uint   `json:"cook_id"`
	CookName          *string `json:"cook_nome"`
	CookAvatar        *string `json:"cook_avatar"`
	Dishwasher1ID     *uint   `json:"dishwasher1_id"`
	Dishwasher1Name   *string `json:"dishwasher1_nome"`
	Dishwasher1Avatar *string `json:"dishwasher1_avatar"`
	Dishwasher2ID     *uint   `json:"dishwasher2_id"`
	Dishwasher2Name   *string `json:"dishwasher2_nome"`
	Dishwasher2Avatar *string `json:"dishwasher2_avatar"`
}

type CreateMealRequest struct {
	Date          string  `json:"data"`
	Type          string  `json:"tipo_refeicao"`
	Name          string  `json:"nome_refeicao"`
	Ingredients   string  `json:"ingredientes"`
	CookID        *uint   `json:"cook_id"`
	Dishwasher1ID *uint   `json:"dishwasher1_id"`
	Dishwasher2ID *uint   `json:"dishwasher2_id"`
}

type ClaimRoleRequest struct {
	MealID uint   `json:"meal_id"`
	Role   string `json:"role"`
	UserID uint   `json:"user_id"`
}

func userRef(u *models.User) (*string, *string) {
	if u == nil {
		return nil, nil
	}
	name, avatar := u.Name, u.AvatarURL
	return &name, &avatar
}

func toMealResponse(m models.Meal) MealResponse {
	res := MealResponse{
		ID:            m.ID,
		Date:          m.Date.Format("2006-01-02"),
		Type:          string(m.Type),
		Name:          m.Name,
		Ingredients:   m.Ingredients,
		CookID:        m.CookID,
		Dishwasher1ID: m.Dishwasher1ID,
		Dishwasher2ID: m.Dishwasher2ID,
	}
	res.CookName, res.CookAvatar = userRef(m.Cook)
	res.Dishwasher1Name, res.Dishwasher1Avatar = userRef(m.Dishwasher1)
	res.Dishwasher2Name, res.Dishwasher2Avatar = userRef(m.Dishwasher2)
	return res
}

func validMealType(t string) bool {
	_, ok := mealTypeOrder[models.MealType(t)]
	return ok
}

// GET /api/meals
func ListMealsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ms []models.Meal
		err := database.DB.
			Preload("Cook").
			Preload("Dishwasher1").
			Preload("Dishwasher2").
			Order("date asc").
			Find(&ms).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar refeições")
		}

		// Desempata dentro do dia pela ordem café/almoço/jantar.
		for i := 1; i < len(ms); i++ {
			for j := i; j > 0 && ms[j-1].Date.Equal(ms[j].Date) &&
				mealTypeOrder[ms[j-1].Type] > mealTypeOrder[ms[j].Type]; j-- {
				ms[j-1], ms[j] = ms[j], ms[j-1]
			}
		}

		res := make([]MealResponse, 0, len(ms))
		for _, m := range ms {
			res = append(res, toMealResponse(m))
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// GET /api/meals/:id
func GetMealHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var m models.Meal
		err := database.DB.
			Preload("Cook").
			Preload("Dishwasher1").
			Preload("Dishwasher2").
			First(&m, "id = ?", c.Params("id")).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Refeição não encontrada")
		}
		return c.JSON(fiber.Map{"success": true, "data": toMealResponse(m)})
	}
}

// POST /api/meals
func CreateMealHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMealRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Date == "" || body.Type == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Data e tipo de refeição são obrigatórios")
		}
		if !validMealType(body.Type) {
			return fiber.NewError(fiber.StatusBadRequest, "Tipo de refeição inválido. Use: cafe, almoco ou jantar")
		}

		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data inválida, use AAAA-MM-DD")
		}

		var count int64
		database.DB.Model(&models.Meal{}).
			Where("date = ? AND type = ?", date, body.Type).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Já existe uma refeição deste tipo nesta data")
		}

		m := models.Meal{
			Date:          date,
			Type:          models.MealType(body.Type),
			Name:          body.Name,
			Ingredients:   body.Ingredients,
			CookID:        body.CookID,
			Dishwasher1ID: body.Dishwasher1ID,
			Dishwasher2ID: body.Dishwasher2ID,
		}
		if err := database.DB.Create(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao criar refeição")
		}

		activity.Record(m.CookID, "refeicao", m.ID, models.ActivityActionCreate, "Refeição criada: "+body.Date+" "+body.Type)

		database.DB.Preload("Cook").Preload("Dishwasher1").Preload("Dishwasher2").First(&m, m.ID)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": toMealResponse(m)})
	}
}

// PATCH /api/meals/claim-role
// A vaga é disputável: o UPDATE só preenche se ainda estiver vazia, então
// o segundo interessado recebe 409 mesmo sob concorrência.
func ClaimRoleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ClaimRoleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.MealID == 0 || body.Role == "" || body.UserID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "meal_id, role e user_id são obrigatórios")
		}

		role := models.MealRole(body.Role)
		if role != models.RoleCook && role != models.RoleDishwasher1 && role != models.RoleDishwasher2 {
			return fiber.NewError(fiber.StatusBadRequest, "Role inválido. Use: cook, dishwasher1 ou dishwasher2")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", body.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
		}

		var m models.Meal
		if err := database.DB.First(&m, "id = ?", body.MealID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Refeição não encontrada")
		}

		column := string(role) + "_id"
		result := database.DB.Model(&models.Meal{}).
			Where("id = ? AND "+column+" IS NULL", body.MealID).
			Update(column, body.UserID)
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao preencher vaga")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "Esta vaga já está preenchida")
		}

		activity.Record(&body.UserID, "refeicao", m.ID, models.ActivityActionClaim, user.Name+" assumiu a vaga de "+body.Role)

		database.DB.Preload("Cook").Preload("Dishwasher1").Preload("Dishwasher2").First(&m, m.ID)
		return c.JSON(fiber.Map{"success": true, "message": "Vaga preenchida com sucesso", "data": toMealResponse(m)})
	}
}
