package market

import (
	"strings"

	"trip-planner-backend/internal/activity"
	"trip-planner-backend/internal/database"
	"trip-planner-backend/internal/models"
	"trip-planner-backend/internal/settle"

	"github.com/gofiber/fiber/v2"
)

type ItemResponse struct {
	ID                uint    `json:"id"`
	Name              string  `json:"nome"`
	Category          string  `json:"categoria"`
	Quantity          float64 `json:"quantidade"`
	Unit              string  `json:"unidade"`
	CostPerPortion    float64 `json:"valor_por_porcao"`
	PortionSize       string  `json:"tamanho_porcao"`
	ResponsibleID     *uint   `json:"responsavel_id"`
	ResponsibleName   *string `json:"responsavel_nome"`
	ResponsibleAvatar *string `json:"responsavel_avatar"`
	AddedByID         *uint   `json:"adicionado_por_id"`
	AddedByName       *string `json:"adicionado_por_nome"`
	AddedByAvatar     *string `json:"adicionado_por_avatar"`
	Notes             string  `json:"observacoes"`
	Purchased         bool    `json:"comprado"`
}

type CreateItemRequest struct {
	Name           string  `json:"nome_item"`
	Category       string  `json:"categoria"`
	Quantity       float64 `json:"quantidade"`
	Unit           string  `json:"unidade_medida"`
	CostPerPortion float64 `json:"valor_por_porcao"`
	PortionSize    string  `json:"tamanho_porcao"`
	ResponsibleID  *uint   `json:"responsavel_id"`
	AddedByID      *uint   `json:"adicionado_por_id"`
	Notes          string  `json:"observacoes"`
}

type UpdateItemRequest struct {
	Name           *string  `json:"nome"`
	Category       *string  `json:"categoria"`
	Quantity       *float64 `json:"quantidade"`
	Unit           *string  `json:"unidade"`
	CostPerPortion *float64 `json:"valor_por_porcao"`
	PortionSize    *string  `json:"tamanho_porcao"`
	ResponsibleID  *uint    `json:"responsavel_id"`
	Notes          *string  `json:"observacoes"`
	Purchased      *bool    `json:"comprado"`
}

func toItemResponse(it models.MarketItem) ItemResponse {
	res := ItemResponse{
		ID:             it.ID,
		Name:           it.Name,
		Category:       it.Category,
		Quantity:       it.Quantity,
		Unit:           it.Unit,
		CostPerPortion: settle.ToAmount(it.CostPerPortionCents),
		PortionSize:    it.PortionSize,
		ResponsibleID:  it.ResponsibleID,
		AddedByID:      it.AddedByID,
		Notes:          it.Notes,
		Purchased:      it.Purchased,
	}
	if it.Responsible != nil {
		name, avatar := it.Responsible.Name, it.Responsible.AvatarURL
		res.ResponsibleName, res.ResponsibleAvatar = &name, &avatar
	}
	if it.AddedBy != nil {
		name, avatar := it.AddedBy.Name, it.AddedBy.AvatarURL
		res.AddedByName, res.AddedByAvatar = &name, &avatar
	}
	return res
}

// GET /api/market-items
// Pendentes antes dos comprados dentro de cada categoria.
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.MarketItem
		err := database.DB.
			Preload("Responsible").
			Preload("AddedBy").
			Order("category asc, purchased asc, name asc").
			Find(&items).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar itens do mercado")
		}

		res := make([]ItemResponse, 0, len(items))
		for _, it := range items {
			res = append(res, toItemResponse(it))
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// GET /api/market-items/:id
func GetItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var it models.MarketItem
		err := database.DB.
			Preload("Responsible").
			Preload("AddedBy").
			First(&it, "id = ?", c.Params("id")).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}
		return c.JSON(fiber.Map{"success": true, "data": toItemResponse(it)})
	}
}

// POST /api/market-items
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "nome_item é obrigatório")
		}

		it := models.MarketItem{
			Name:                body.Name,
			Category:            body.Category,
			Quantity:            body.Quantity,
			Unit:                body.Unit,
			CostPerPortionCents: settle.FromAmount(body.CostPerPortion),
			PortionSize:         body.PortionSize,
			ResponsibleID:       body.ResponsibleID,
			AddedByID:           body.AddedByID,
			Notes:               body.Notes,
		}
		if err := database.DB.Create(&it).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao criar item")
		}

		activity.Record(body.AddedByID, "mercado", it.ID, models.ActivityActionCreate, "Item adicionado ao mercado: "+it.Name)

		database.DB.Preload("Responsible").Preload("AddedBy").First(&it, it.ID)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": toItemResponse(it)})
	}
}

// PUT or PATCH /api/market-items/:id
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var it models.MarketItem
		if err := database.DB.First(&it, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome não pode ser vazio")
			}
			it.Name = name
		}
		if body.Category != nil {
			it.Category = *body.Category
		}
		if body.Quantity != nil {
			it.Quantity = *body.Quantity
		}
		if body.Unit != nil {
			it.Unit = *body.Unit
		}
		if body.CostPerPortion != nil {
			it.CostPerPortionCents = settle.FromAmount(*body.CostPerPortion)
		}
		if body.PortionSize != nil {
			it.PortionSize = *body.PortionSize
		}
		if body.ResponsibleID != nil {
			it.ResponsibleID = body.ResponsibleID
		}
		if body.Notes != nil {
			it.Notes = *body.Notes
		}
		if body.Purchased != nil {
			it.Purchased = *body.Purchased
		}

		if err := database.DB.Save(&it).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar item")
		}

		activity.Record(nil, "mercado", it.ID, models.ActivityActionUpdate, "Item do mercado atualizado: "+it.Name)

		database.DB.Preload("Responsible").Preload("AddedBy").First(&it, it.ID)
		return c.JSON(fiber.Map{"success": true, "data": toItemResponse(it)})
	}
}

// PATCH /api/market-items/:id/toggle
func TogglePurchasedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var it models.MarketItem
		if err := database.DB.First(&it, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		it.Purchased = !it.Purchased
		if err := database.DB.Save(&it).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar status do item")
		}

		database.DB.Preload("Responsible").Preload("AddedBy").First(&it, it.ID)
		return c.JSON(fiber.Map{"success": true, "data": toItemResponse(it)})
	}
}

// DELETE /api/market-items/:id
func DeleteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var it models.MarketItem
		if err := database.DB.First(&it, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao iniciar transação")
		}

		// Remove também os vínculos com refeições.
		if err := tx.Where("ingredient_id = ?", it.ID).Delete(&models.MealIngredient{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao remover item")
		}
		if err := tx.Delete(&it).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao remover item")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao remover item")
		}

		activity.Record(nil, "mercado", it.ID, models.ActivityActionDelete, "Item removido do mercado: "+it.Name)
		return c.JSON(fiber.Map{"success": true, "message": "Item removido com sucesso"})
	}
}
