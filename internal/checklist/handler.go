package checklist

import (
	"strings"

	"trip-planner-backend/internal/activity"
	"trip-planner-backend/internal/database"
	"trip-planner-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ItemResponse struct {
	ID          uint    `json:"id"`
	Category    string  `json:"categoria"`
	Description string  `json:"descricao"`
	OwnerID     *uint   `json:"owner_id"`
	OwnerName   *string `json:"owner_nome"`
	OwnerAvatar *string `json:"owner_avatar"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"created_at"`
}

type CreateItemRequest struct {
	Category    string `json:"categoria"`
	Description string `json:"descricao"`
	OwnerID     *uint  `json:"owner_id"`
}

type UpdateItemRequest struct {
	Description *string `json:"descricao"`
	Completed   *bool   `json:"completed"`
	OwnerID     *uint   `json:"owner_id"`
}

type ClaimItemRequest struct {
	UserID uint `json:"user_id"`
}

func toItemResponse(it models.ChecklistItem) ItemResponse {
	res := ItemResponse{
		ID:          it.ID,
		Category:    string(it.Category),
		Description: it.Description,
		OwnerID:     it.OwnerID,
		Completed:   it.Completed,
		CreatedAt:   it.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if it.Owner != nil {
		name, avatar := it.Owner.Name, it.Owner.AvatarURL
		res.OwnerName, res.OwnerAvatar = &name, &avatar
	}
	return res
}

func validCategory(cat string) bool {
	switch models.ChecklistCategory(cat) {
	case models.ChecklistCategoryItem, models.ChecklistCategoryTask, models.ChecklistCategoryReminder:
		return true
	}
	return false
}

// GET /api/checklist
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.ChecklistItem
		err := database.DB.
			Preload("Owner").
			Order("completed asc, category asc, created_at asc").
			Find(&items).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar checklist")
		}

		res := make([]ItemResponse, 0, len(items))
		for _, it := range items {
			res = append(res, toItemResponse(it))
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// GET /api/checklist/category/:category
func ListItemsByCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cat := c.Params("category")
		if !validCategory(cat) {
			return fiber.NewError(fiber.StatusBadRequest, "Categoria inválida. Use: item, tarefa ou nao_esqueca")
		}

		var items []models.ChecklistItem
		err := database.DB.
			Preload("Owner").
			Where("category = ?", cat).
			Order("completed asc, created_at asc").
			Find(&items).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar checklist")
		}

		res := make([]ItemResponse, 0, len(items))
		for _, it := range items {
			res = append(res, toItemResponse(it))
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// POST /api/checklist
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Description = strings.TrimSpace(body.Description)
		if body.Category == "" || body.Description == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Categoria e descrição são obrigatórios")
		}
		if !validCategory(body.Category) {
			return fiber.NewError(fiber.StatusBadRequest, "Categoria inválida. Use: item, tarefa ou nao_esqueca")
		}

		it := models.ChecklistItem{
			Category:    models.ChecklistCategory(body.Category),
			Description: body.Description,
			OwnerID:     body.OwnerID,
		}
		if err := database.DB.Create(&it).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao criar item da checklist")
		}

		activity.Record(body.OwnerID, "checklist", it.ID, models.ActivityActionCreate, "Item da checklist criado: "+it.Description)

		database.DB.Preload("Owner").First(&it, it.ID)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": toItemResponse(it)})
	}
}

// PATCH /api/checklist/:id
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var it models.ChecklistItem
		if err := database.DB.First(&it, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Description != nil {
			desc := strings.TrimSpace(*body.Description)
			if desc == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Descrição não pode ser vazia")
			}
			it.Description = desc
		}
		if body.Completed != nil {
			it.Completed = *body.Completed
		}
		if body.OwnerID != nil {
			it.OwnerID = body.OwnerID
		}

		if err := database.DB.Save(&it).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar item")
		}

		database.DB.Preload("Owner").First(&it, it.ID)
		return c.JSON(fiber.Map{"success": true, "data": toItemResponse(it)})
	}
}

// PATCH /api/checklist/:id/claim
// Mesmo esquema das vagas de refeição: o UPDATE só atribui se o item
// ainda estiver sem responsável; o segundo a chegar recebe 409.
func ClaimItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ClaimItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.UserID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "user_id é obrigatório")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", body.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
		}

		var it models.ChecklistItem
		if err := database.DB.First(&it, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		result := database.DB.Model(&models.ChecklistItem{}).
			Where("id = ? AND owner_id IS NULL", it.ID).
			Update("owner_id", body.UserID)
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao reivindicar item")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "Este item já tem um responsável")
		}

		activity.Record(&body.UserID, "checklist", it.ID, models.ActivityActionClaim, user.Name+" assumiu: "+it.Description)

		database.DB.Preload("Owner").First(&it, it.ID)
		return c.JSON(fiber.Map{"success": true, "message": "Item reivindicado com sucesso", "data": toItemResponse(it)})
	}
}

// DELETE /api/checklist/:id
func DeleteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var it models.ChecklistItem
		if err := database.DB.First(&it, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		if err := database.DB.Delete(&it).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao deletar item")
		}

		activity.Record(nil, "checklist", it.ID, models.ActivityActionDelete, "Item da checklist removido: "+it.Description)
		return c.JSON(fiber.Map{"success": true, "message": "Item deletado com sucesso", "data": toItemResponse(it)})
	}
}
