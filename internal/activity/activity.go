package activity

import (
	"log/slog"

	"trip-planner-backend/internal/database"
	"trip-planner-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Record grava uma entrada no feed de atividades. Falha de gravação não
// derruba a operação principal: só é logada.
func Record(userID *uint, entityType string, entityID uint, action models.ActivityAction, description string) {
	userName := ""
	if userID != nil {
		var user models.User
		if err := database.DB.First(&user, "id = ?", *userID).Error; err == nil {
			userName = user.Name
		}
	}

	log := models.ActivityLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: description,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		slog.Warn("Não foi possível registrar atividade", "entity", entityType, "error", err)
	}
}

type ActivityResponse struct {
	ID          uint   `json:"id"`
	UserID      *uint  `json:"user_id"`
	UserName    string `json:"user_nome"`
	EntityType  string `json:"entity_type"`
	EntityID    uint   `json:"entity_id"`
	Action      string `json:"action"`
	Description string `json:"descricao"`
	CreatedAt   string `json:"created_at"`
}

// GET /api/activity?limit=50
func ListActivityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		if limit < 1 || limit > 200 {
			limit = 50
		}

		var logs []models.ActivityLog
		if err := database.DB.Order("created_at desc, id desc").Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar atividades")
		}

		res := make([]ActivityResponse, 0, len(logs))
		for _, l := range logs {
			res = append(res, ActivityResponse{
				ID:          l.ID,
				UserID:      l.UserID,
				UserName:    l.UserName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      string(l.Action),
				Description: l.Description,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}
