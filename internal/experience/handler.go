package experience

import (
	"strings"

	"trip-planner-backend/internal/activity"
	"trip-planner-backend/internal/database"
	"trip-planner-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ExperienceResponse struct {
	ID           uint    `json:"id"`
	Type         string  `json:"tipo"`
	Content      string  `json:"conteudo"`
	AuthorID     *uint   `json:"autor_id"`
	AuthorName   *string `json:"autor_nome"`
	AuthorAvatar *string `json:"autor_avatar"`
	Votes        int64   `json:"votos"`
	CreatedAt    string  `json:"created_at"`
}

type CreateExperienceRequest struct {
	Type     string `json:"tipo"`
	Content  string `json:"conteudo"`
	AuthorID *uint  `json:"autor_id"`
}

type VoteRequest struct {
	ExperienceID uint `json:"experience_id"`
}

func toExperienceResponse(e models.Experience) ExperienceResponse {
	res := ExperienceResponse{
		ID:        e.ID,
		Type:      string(e.Type),
		Content:   e.Content,
		AuthorID:  e.AuthorID,
		Votes:     e.Votes,
		CreatedAt: e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if e.Author != nil {
		name, avatar := e.Author.Name, e.Author.AvatarURL
		res.AuthorName, res.AuthorAvatar = &name, &avatar
	}
	return res
}

func validType(t string) bool {
	et := models.ExperienceType(t)
	return et == models.ExperienceQuote || et == models.ExperiencePartyTheme
}

// GET /api/experience
func ListExperiencesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var es []models.Experience
		err := database.DB.Preload("Author").Order("votes desc, created_at desc").Find(&es).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar experiências")
		}

		res := make([]ExperienceResponse, 0, len(es))
		for _, e := range es {
			res = append(res, toExperienceResponse(e))
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// GET /api/experience/type/:type
func ListExperiencesByTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t := c.Params("type")
		if !validType(t) {
			return fiber.NewError(fiber.StatusBadRequest, "Tipo inválido. Use: frase ou tema_festa")
		}

		var es []models.Experience
		err := database.DB.
			Preload("Author").
			Where("type = ?", t).
			Order("votes desc, created_at desc").
			Find(&es).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar experiências")
		}

		res := make([]ExperienceResponse, 0, len(es))
		for _, e := range es {
			res = append(res, toExperienceResponse(e))
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// POST /api/experience
func CreateExperienceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExperienceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Content = strings.TrimSpace(body.Content)
		if body.Type == "" || body.Content == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Tipo e conteúdo são obrigatórios")
		}
		if !validType(body.Type) {
			return fiber.NewError(fiber.StatusBadRequest, "Tipo inválido. Use: frase ou tema_festa")
		}

		e := models.Experience{
			Type:     models.ExperienceType(body.Type),
			Content:  body.Content,
			AuthorID: body.AuthorID,
		}
		if err := database.DB.Create(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao criar experiência")
		}

		activity.Record(body.AuthorID, "experiencia", e.ID, models.ActivityActionCreate, "Experiência sugerida")

		database.DB.Preload("Author").First(&e, e.ID)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": toExperienceResponse(e)})
	}
}

// POST /api/experience/vote
func VoteExperienceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body VoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.ExperienceID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "experience_id é obrigatório")
		}

		result := database.DB.Model(&models.Experience{}).
			Where("id = ?", body.ExperienceID).
			Update("votes", gorm.Expr("votes + 1"))
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao votar em experiência")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Experiência não encontrada")
		}

		var e models.Experience
		database.DB.Preload("Author").First(&e, body.ExperienceID)
		return c.JSON(fiber.Map{"success": true, "message": "Voto computado com sucesso", "data": toExperienceResponse(e)})
	}
}
