package expense

import (
	"strings"

	"trip-planner-backend/internal/activity"
	"trip-planner-backend/internal/database"
	"trip-planner-backend/internal/models"
	"trip-planner-backend/internal/settle"

	"github.com/gofiber/fiber/v2"
)

type EstimateParticipantResponse struct {
	ID         uint   `json:"id"`
	UserID     uint   `json:"user_id"`
	UserName   string `json:"user_nome"`
	UserAvatar string `json:"user_avatar"`
}

type EstimateResponse struct {
	ID            uint                          `json:"id"`
	CategoryID    uint                          `json:"category_id"`
	CategoryName  string                        `json:"categoria_nome"`
	CategoryIcon  string                        `json:"categoria_icone"`
	CategoryColor string                        `json:"categoria_cor"`
	Description   string                        `json:"descricao"`
	Amount        float64                       `json:"valor_estimado"`
	CreatedByID   *uint                         `json:"criado_por_id"`
	CreatedByName string                        `json:"criado_por_nome"`
	CreatedAt     string                        `json:"created_at"`
	Participants  []EstimateParticipantResponse `json:"participantes"`
}

type CreateEstimateRequest struct {
	CategoryID   uint    `json:"category_id"`
	Description  string  `json:"descricao"`
	Amount       float64 `json:"valor_estimado"`
	CreatedByID  *uint   `json:"criado_por_id"`
	Participants []uint  `json:"participantes"`
}

type UpdateEstimateRequest struct {
	Description  *string  `json:"descricao"`
	Amount       *float64 `json:"valor_estimado"`
	Participants *[]uint  `json:"participantes"`
}

func toEstimateResponse(e models.ExpenseEstimate) EstimateResponse {
	res := EstimateResponse{
		ID:           e.ID,
		CategoryID:   e.CategoryID,
		Description:  e.Description,
		Amount:       settle.ToAmount(e.AmountCents),
		CreatedByID:  e.CreatedByID,
		CreatedAt:    e.CreatedAt.Format("2006-01-02 15:04:05"),
		Participants: make([]EstimateParticipantResponse, 0, len(e.Participants)),
	}
	if e.Category.ID != 0 {
		res.CategoryName = e.Category.Name
		res.CategoryIcon = e.Category.Icon
		res.CategoryColor = e.Category.Color
	}
	if e.CreatedBy != nil {
		res.CreatedByName = e.CreatedBy.Name
	}
	for _, p := range e.Participants {
		pr := EstimateParticipantResponse{ID: p.ID, UserID: p.UserID}
		if p.User.ID != 0 {
			pr.UserName = p.User.Name
			pr.UserAvatar = p.User.AvatarURL
		}
		res.Participants = append(res.Participants, pr)
	}
	return res
}

// Remove IDs repetidos preservando a primeira ocorrência.
func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// GET /api/expenses/estimates
func ListEstimatesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ests []models.ExpenseEstimate
		err := database.DB.
			Preload("Category").
			Preload("CreatedBy").
			Preload("Participants.User").
			Order("created_at desc").
			Find(&ests).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar estimativas")
		}

		res := make([]EstimateResponse, 0, len(ests))
		for _, e := range ests {
			res = append(res, toEstimateResponse(e))
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// POST /api/expenses/estimates
func CreateEstimateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEstimateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Description = strings.TrimSpace(body.Description)
		if body.CategoryID == 0 || body.Description == "" || body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "category_id, descricao e valor_estimado são obrigatórios")
		}

		var cat models.ExpenseCategory
		if err := database.DB.First(&cat, "id = ?", body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Categoria não encontrada")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao iniciar transação")
		}

		est := models.ExpenseEstimate{
			CategoryID:  body.CategoryID,
			Description: body.Description,
			AmountCents: settle.FromAmount(body.Amount),
			CreatedByID: body.CreatedByID,
		}
		if err := tx.Create(&est).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao criar estimativa")
		}

		for _, userID := range dedupeIDs(body.Participants) {
			link := models.EstimateParticipant{EstimateID: est.ID, UserID: userID}
			if err := tx.Create(&link).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Erro ao vincular participantes")
			}
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao salvar estimativa")
		}

		activity.Record(body.CreatedByID, "estimativa", est.ID, models.ActivityActionCreate, "Estimativa criada: "+est.Description)

		database.DB.Preload("Category").Preload("CreatedBy").Preload("Participants.User").First(&est, est.ID)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": toEstimateResponse(est)})
	}
}

// PATCH /api/expenses/estimates/:id
func UpdateEstimateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var est models.ExpenseEstimate
		if err := database.DB.First(&est, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Estimativa não encontrada")
		}

		var body UpdateEstimateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Description != nil {
			desc := strings.TrimSpace(*body.Description)
			if desc == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Descrição não pode ser vazia")
			}
			est.Description = desc
		}
		if body.Amount != nil {
			if *body.Amount <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Valor estimado deve ser positivo")
			}
			est.AmountCents = settle.FromAmount(*body.Amount)
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao iniciar transação")
		}

		if err := tx.Save(&est).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar estimativa")
		}

		// Lista presente no corpo substitui os vínculos por completo.
		if body.Participants != nil {
			if err := tx.Where("estimate_id = ?", est.ID).Delete(&models.EstimateParticipant{}).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar participantes")
			}
			for _, userID := range dedupeIDs(*body.Participants) {
				link := models.EstimateParticipant{EstimateID: est.ID, UserID: userID}
				if err := tx.Create(&link).Error; err != nil {
					tx.Rollback()
					return fiber.NewError(fiber.StatusInternalServerError, "Erro ao vincular participantes")
				}
			}
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao salvar estimativa")
		}

		activity.Record(nil, "estimativa", est.ID, models.ActivityActionUpdate, "Estimativa atualizada: "+est.Description)
		return c.JSON(fiber.Map{"success": true, "message": "Estimativa atualizada"})
	}
}

// DELETE /api/expenses/estimates/:id
// Os vínculos de participantes caem junto via cascata.
func DeleteEstimateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var est models.ExpenseEstimate
		if err := database.DB.First(&est, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Estimativa não encontrada")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao iniciar transação")
		}

		if err := tx.Where("estimate_id = ?", est.ID).Delete(&models.EstimateParticipant{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao deletar estimativa")
		}
		// Despesas já lançadas perdem só o vínculo, nunca são apagadas.
		if err := tx.Model(&models.Expense{}).Where("estimate_id = ?", est.ID).Update("estimate_id", nil).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao deletar estimativa")
		}
		if err := tx.Delete(&est).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao deletar estimativa")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao deletar estimativa")
		}

		activity.Record(nil, "estimativa", est.ID, models.ActivityActionDelete, "Estimativa removida: "+est.Description)
		return c.JSON(fiber.Map{"success": true, "message": "Estimativa deletada"})
	}
}
