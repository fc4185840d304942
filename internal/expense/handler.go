package expense

import (
	"errors"
	"sort"
	"strings"
	"time"

	"trip-planner-backend/internal/activity"
	"trip-planner-backend/internal/database"
	"trip-planner-backend/internal/models"
	"trip-planner-backend/internal/settle"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ExpenseParticipantResponse struct {
	ID               uint     `json:"id"`
	UserID           uint     `json:"user_id"`
	UserName         string   `json:"user_nome"`
	UserAvatar       string   `json:"user_avatar"`
	ShareAmount      *float64 `json:"valor_individual"`
	PaymentConfirmed bool     `json:"pagamento_confirmado"`
	PaymentDate      *string  `json:"data_pagamento"`
}

type ExpenseResponse struct {
	ID            uint                         `json:"id"`
	EstimateID    *uint                        `json:"estimate_id"`
	CategoryID    uint                         `json:"category_id"`
	CategoryName  string                       `json:"categoria_nome"`
	CategoryIcon  string                       `json:"categoria_icone"`
	CategoryColor string                       `json:"categoria_cor"`
	Description   string                       `json:"descricao"`
	TotalAmount   float64                      `json:"valor_total"`
	PayerID       uint                         `json:"pagador_id"`
	PayerName     string                       `json:"pagador_nome"`
	PayerAvatar   string                       `json:"pagador_avatar"`
	IncurredAt    string                       `json:"data_despesa"`
	Participants  []ExpenseParticipantResponse `json:"participantes"`
}

type CreateExpenseParticipant struct {
	UserID      uint     `json:"user_id"`
	ShareAmount *float64 `json:"valor_individual"`
}

type CreateExpenseRequest struct {
	CategoryID   uint                       `json:"category_id"`
	EstimateID   *uint                      `json:"estimate_id"`
	Description  string                     `json:"descricao"`
	TotalAmount  float64                    `json:"valor_total"`
	PayerID      uint                       `json:"pagador_id"`
	Participants []CreateExpenseParticipant `json:"participantes"`
}

type ConfirmPaymentRequest struct {
	ExpenseID uint `json:"expense_id"`
	UserID    uint `json:"user_id"`
}

type DebtResponse struct {
	DebtorID     uint    `json:"devedor_id"`
	DebtorName   string  `json:"devedor_nome"`
	CreditorID   uint    `json:"credor_id"`
	CreditorName string  `json:"credor_nome"`
	Amount       float64 `json:"valor"`
}

func toExpenseResponse(e models.Expense) ExpenseResponse {
	res := ExpenseResponse{
		ID:           e.ID,
		EstimateID:   e.EstimateID,
		CategoryID:   e.CategoryID,
		Description:  e.Description,
		TotalAmount:  settle.ToAmount(e.AmountCents),
		PayerID:      e.PayerID,
		IncurredAt:   e.IncurredAt.Format("2006-01-02 15:04:05"),
		Participants: make([]ExpenseParticipantResponse, 0, len(e.Participants)),
	}
	if e.Category.ID != 0 {
		res.CategoryName = e.Category.Name
		res.CategoryIcon = e.Category.Icon
		res.CategoryColor = e.Category.Color
	}
	if e.Payer.ID != 0 {
		res.PayerName = e.Payer.Name
		res.PayerAvatar = e.Payer.AvatarURL
	}

	shares := computedShares(e)
	for _, p := range e.Participants {
		pr := ExpenseParticipantResponse{
			ID:               p.ID,
			UserID:           p.UserID,
			PaymentConfirmed: p.PaymentConfirmed,
		}
		if p.User.ID != 0 {
			pr.UserName = p.User.Name
			pr.UserAvatar = p.User.AvatarURL
		}
		if cents, ok := shares[p.UserID]; ok {
			v := settle.ToAmount(cents)
			pr.ShareAmount = &v
		}
		if p.ConfirmedAt != nil {
			d := p.ConfirmedAt.Format("2006-01-02 15:04:05")
			pr.PaymentDate = &d
		}
		res.Participants = append(res.Participants, pr)
	}
	return res
}

// computedShares resolve o valor de cada participante: os fixos valem o
// que foi gravado e o restante divide a sobra em partes iguais.
func computedShares(e models.Expense) map[uint]int64 {
	ps := make([]settle.Participant, 0, len(e.Participants))
	for _, p := range e.Participants {
		ps = append(ps, settle.Participant{UserID: p.UserID, FixedCents: p.ShareCents})
	}
	shares, err := settle.Shares(e.AmountCents, ps)
	if err != nil {
		// Dados antigos inconsistentes: devolve só as cotas fixas.
		shares = make(map[uint]int64, len(e.Participants))
		for _, p := range e.Participants {
			if p.ShareCents != nil {
				shares[p.UserID] = *p.ShareCents
			}
		}
	}
	return shares
}

// GET /api/expenses/expenses
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var exps []models.Expense
		err := database.DB.
			Preload("Category").
			Preload("Payer").
			Preload("Participants.User").
			Order("incurred_at desc").
			Find(&exps).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar despesas")
		}

		res := make([]ExpenseResponse, 0, len(exps))
		for _, e := range exps {
			res = append(res, toExpenseResponse(e))
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// POST /api/expenses/expenses
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Description = strings.TrimSpace(body.Description)
		if body.CategoryID == 0 || body.Description == "" || body.TotalAmount <= 0 || body.PayerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "category_id, descricao, valor_total e pagador_id são obrigatórios")
		}

		var cat models.ExpenseCategory
		if err := database.DB.First(&cat, "id = ?", body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Categoria não encontrada")
		}
		var payer models.User
		if err := database.DB.First(&payer, "id = ?", body.PayerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pagador não encontrado")
		}

		totalCents := settle.FromAmount(body.TotalAmount)

		// Valida as cotas fixas antes de gravar qualquer coisa.
		seen := make(map[uint]struct{}, len(body.Participants))
		parts := make([]models.ExpenseParticipant, 0, len(body.Participants))
		var fixedSum int64
		for _, p := range body.Participants {
			if _, ok := seen[p.UserID]; ok {
				continue
			}
			seen[p.UserID] = struct{}{}

			link := models.ExpenseParticipant{UserID: p.UserID}
			if p.ShareAmount != nil {
				cents := settle.FromAmount(*p.ShareAmount)
				if cents < 0 {
					return fiber.NewError(fiber.StatusBadRequest, "valor_individual não pode ser negativo")
				}
				fixedSum += cents
				link.ShareCents = &cents
			}
			parts = append(parts, link)
		}
		if fixedSum > totalCents {
			return fiber.NewError(fiber.StatusBadRequest, "Soma dos valores individuais excede o valor total")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao iniciar transação")
		}

		estimateID := body.EstimateID
		if estimateID != nil {
			var est models.ExpenseEstimate
			if err := tx.First(&est, "id = ?", *estimateID).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusNotFound, "Estimativa não encontrada")
			}
		} else {
			// Sem vínculo explícito, adota a estimativa mais recente da categoria.
			var est models.ExpenseEstimate
			err := tx.Where("category_id = ?", body.CategoryID).Order("created_at desc").First(&est).Error
			if err == nil {
				estimateID = &est.ID
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Erro ao criar despesa")
			}
		}

		exp := models.Expense{
			EstimateID:  estimateID,
			CategoryID:  body.CategoryID,
			Description: body.Description,
			AmountCents: totalCents,
			PayerID:     body.PayerID,
			IncurredAt:  time.Now(),
		}
		if err := tx.Create(&exp).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao criar despesa")
		}

		for i := range parts {
			parts[i].ExpenseID = exp.ID
			if err := tx.Create(&parts[i]).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Erro ao vincular participantes")
			}
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao salvar despesa")
		}

		activity.Record(&body.PayerID, "despesa", exp.ID, models.ActivityActionCreate, "Despesa criada: "+exp.Description)

		database.DB.Preload("Category").Preload("Payer").Preload("Participants.User").First(&exp, exp.ID)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": toExpenseResponse(exp)})
	}
}

// PATCH /api/expenses/confirm-payment
// Repetir a confirmação não altera a data já registrada.
func ConfirmPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ConfirmPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.ExpenseID == 0 || body.UserID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "expense_id e user_id são obrigatórios")
		}

		var part models.ExpenseParticipant
		err := database.DB.
			Where("expense_id = ? AND user_id = ?", body.ExpenseID, body.UserID).
			First(&part).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Participante não encontrado nesta despesa")
		}

		if !part.PaymentConfirmed {
			now := time.Now()
			part.PaymentConfirmed = true
			part.ConfirmedAt = &now
			if err := database.DB.Save(&part).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Erro ao confirmar pagamento")
			}
			activity.Record(&body.UserID, "despesa", body.ExpenseID, models.ActivityActionConfirm, "Pagamento confirmado")
		}

		return c.JSON(fiber.Map{"success": true, "message": "Pagamento confirmado"})
	}
}

// GET /api/expenses/debts-summary
// Saldo líquido por par: dívidas em sentidos opostos se anulam e só a
// diferença aparece.
func DebtsSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var exps []models.Expense
		if err := database.DB.Preload("Participants").Find(&exps).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar resumo de dívidas")
		}

		in := make([]settle.Expense, 0, len(exps))
		for _, e := range exps {
			se := settle.Expense{PayerID: e.PayerID, TotalCents: e.AmountCents}
			for _, p := range e.Participants {
				se.Shares = append(se.Shares, settle.Share{
					UserID:     p.UserID,
					FixedCents: p.ShareCents,
					Confirmed:  p.PaymentConfirmed,
				})
			}
			in = append(in, se)
		}

		debts, err := settle.ComputeDebts(in)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao calcular dívidas")
		}

		var us []models.User
		if err := database.DB.Find(&us).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar resumo de dívidas")
		}
		names := make(map[uint]string, len(us))
		for _, u := range us {
			names[u.ID] = u.Name
		}

		res := make([]DebtResponse, 0, len(debts))
		for _, d := range debts {
			res = append(res, DebtResponse{
				DebtorID:     d.DebtorID,
				DebtorName:   names[d.DebtorID],
				CreditorID:   d.CreditorID,
				CreditorName: names[d.CreditorID],
				Amount:       settle.ToAmount(d.Cents),
			})
		}
		sort.Slice(res, func(i, j int) bool {
			if res[i].DebtorName != res[j].DebtorName {
				return res[i].DebtorName < res[j].DebtorName
			}
			return res[i].CreditorName < res[j].CreditorName
		})

		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// DELETE /api/expenses/expenses/:id
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var exp models.Expense
		if err := database.DB.First(&exp, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Despesa não encontrada")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao iniciar transação")
		}

		if err := tx.Where("expense_id = ?", exp.ID).Delete(&models.ExpenseParticipant{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao deletar despesa")
		}
		// Carona que materializou esta despesa perde só o vínculo.
		if err := tx.Model(&models.Ride{}).Where("expense_id = ?", exp.ID).Update("expense_id", nil).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao deletar despesa")
		}
		if err := tx.Delete(&exp).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao deletar despesa")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao deletar despesa")
		}

		activity.Record(nil, "despesa", exp.ID, models.ActivityActionDelete, "Despesa removida: "+exp.Description)
		return c.JSON(fiber.Map{"success": true, "message": "Despesa deletada"})
	}
}
