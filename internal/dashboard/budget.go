// Package dashboard agrega números prontos para a tela inicial:
// orçamento por categoria (estimado x realizado) e totais gerais.
package dashboard

import (
	"sort"

	"trip-planner-backend/internal/database"
	"trip-planner-backend/internal/models"
	"trip-planner-backend/internal/settle"

	"github.com/gofiber/fiber/v2"
)

type CategoryBudget struct {
	CategoryID    uint    `json:"category_id"`
	CategoryName  string  `json:"categoria_nome"`
	CategoryIcon  string  `json:"categoria_icone"`
	CategoryColor string  `json:"categoria_cor"`
	Estimated     float64 `json:"valor_estimado"`
	Actual        float64 `json:"valor_realizado"`
	Difference    float64 `json:"diferenca"`
}

type BudgetSummary struct {
	Categories      []CategoryBudget `json:"categorias"`
	TotalEstimated  float64          `json:"total_estimado"`
	TotalActual     float64          `json:"total_realizado"`
	TotalDifference float64          `json:"diferenca_total"`
}

// GET /api/dashboard/budget
// Diferença positiva significa folga; negativa, estouro da estimativa.
func BudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cats []models.ExpenseCategory
		if err := database.DB.Find(&cats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao montar orçamento")
		}

		type sums struct{ estimated, actual int64 }
		byCategory := make(map[uint]*sums, len(cats))
		for _, cat := range cats {
			byCategory[cat.ID] = &sums{}
		}

		var ests []models.ExpenseEstimate
		if err := database.DB.Find(&ests).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao montar orçamento")
		}
		for _, e := range ests {
			if s, ok := byCategory[e.CategoryID]; ok {
				s.estimated += e.AmountCents
			}
		}

		var exps []models.Expense
		if err := database.DB.Find(&exps).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao montar orçamento")
		}
		for _, e := range exps {
			if s, ok := byCategory[e.CategoryID]; ok {
				s.actual += e.AmountCents
			}
		}

		summary := BudgetSummary{Categories: make([]CategoryBudget, 0, len(cats))}
		var totalEstimated, totalActual int64
		for _, cat := range cats {
			s := byCategory[cat.ID]
			if s.estimated == 0 && s.actual == 0 {
				continue
			}
			totalEstimated += s.estimated
			totalActual += s.actual
			summary.Categories = append(summary.Categories, CategoryBudget{
				CategoryID:    cat.ID,
				CategoryName:  cat.Name,
				CategoryIcon:  cat.Icon,
				CategoryColor: cat.Color,
				Estimated:     settle.ToAmount(s.estimated),
				Actual:        settle.ToAmount(s.actual),
				Difference:    settle.ToAmount(s.estimated - s.actual),
			})
		}
		sort.Slice(summary.Categories, func(i, j int) bool {
			return summary.Categories[i].CategoryName < summary.Categories[j].CategoryName
		})

		summary.TotalEstimated = settle.ToAmount(totalEstimated)
		summary.TotalActual = settle.ToAmount(totalActual)
		summary.TotalDifference = settle.ToAmount(totalEstimated - totalActual)

		return c.JSON(fiber.Map{"success": true, "data": summary})
	}
}
