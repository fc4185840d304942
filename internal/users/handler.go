package users

import (
	"strings"

	"trip-planner-backend/internal/database"
	"trip-planner-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UserResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"nome"`
	AvatarURL  string `json:"avatar_url"`
	FunnyTitle string `json:"titulo_engracado"`
	CreatedAt  string `json:"created_at"`
}

type CreateUserRequest struct {
	Name       string `json:"nome"`
	AvatarURL  string `json:"avatar_url"`
	FunnyTitle string `json:"titulo_engracado"`
}

type UpdateUserRequest struct {
	Name       *string `json:"nome"`
	AvatarURL  *string `json:"avatar_url"`
	FunnyTitle *string `json:"titulo_engracado"`
}

func toResponse(u models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		AvatarURL:  u.AvatarURL,
		FunnyTitle: u.FunnyTitle,
		CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/users
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var us []models.User
		if err := database.DB.Order("name asc").Find(&us).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar usuários")
		}

		res := make([]UserResponse, 0, len(us))
		for _, u := range us {
			res = append(res, toResponse(u))
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// GET /api/users/:id
func GetUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var u models.User
		if err := database.DB.First(&u, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
		}
		return c.JSON(fiber.Map{"success": true, "data": toResponse(u)})
	}
}

// POST /api/users
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}

		u := models.User{
			Name:       body.Name,
			AvatarURL:  body.AvatarURL,
			FunnyTitle: body.FunnyTitle,
		}
		if err := database.DB.Create(&u).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao criar usuário")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": toResponse(u)})
	}
}

// PATCH /api/users/:id
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var u models.User
		if err := database.DB.First(&u, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome não pode ser vazio")
			}
			u.Name = name
		}
		if body.AvatarURL != nil {
			u.AvatarURL = *body.AvatarURL
		}
		if body.FunnyTitle != nil {
			u.FunnyTitle = *body.FunnyTitle
		}

		if err := database.DB.Save(&u).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar usuário")
		}
		return c.JSON(fiber.Map{"success": true, "data": toResponse(u)})
	}
}
