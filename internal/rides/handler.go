package rides

import (
	"log/slog"
	"strings"
	"time"

	"trip-planner-backend/internal/activity"
	"trip-planner-backend/internal/database"
	"trip-planner-backend/internal/models"
	"trip-planner-backend/internal/settle"

	"github.com/gofiber/fiber/v2"
)

type PassengerResponse struct {
	ID               uint     `json:"id"`
	UserID           uint     `json:"user_id"`
	UserName         string   `json:"user_nome"`
	UserAvatar       string   `json:"user_avatar"`
	Contribution     *float64 `json:"contribuicao"`
	PaymentConfirmed bool     `json:"pagamento_confirmado"`
}

type RideResponse struct {
	ID           uint                `json:"id"`
	Title        string              `json:"titulo"`
	DriverID     uint                `json:"motorista_id"`
	DriverName   string              `json:"motorista_nome"`
	DriverAvatar string              `json:"motorista_avatar"`
	Origin       string              `json:"origem"`
	Destination  string              `json:"destino"`
	TravelDate   *string             `json:"data_viagem"`
	FuelCost     float64             `json:"valor_gasolina"`
	DistanceKM   float64             `json:"distancia_km"`
	ExpenseID    *uint               `json:"expense_id"`
	Passengers   []PassengerResponse `json:"passageiros"`
}

type CreateRidePassenger struct {
	UserID       uint     `json:"user_id"`
	Contribution *float64 `json:"contribuicao"`
}

type CreateRideRequest struct {
	Title       string                `json:"titulo"`
	DriverID    uint                  `json:"motorista_id"`
	Origin      string                `json:"origem"`
	Destination string                `json:"destino"`
	TravelDate  *string               `json:"data_viagem"`
	FuelCost    float64               `json:"valor_gasolina"`
	DistanceKM  float64               `json:"distancia_km"`
	Passengers  []CreateRidePassenger `json:"passageiros"`
}

type UpdateRideRequest struct {
	Title       *string                `json:"titulo"`
	Origin      *string                `json:"origem"`
	Destination *string                `json:"destino"`
	TravelDate  *string                `json:"data_viagem"`
	FuelCost    *float64               `json:"valor_gasolina"`
	DistanceKM  *float64               `json:"distancia_km"`
	Passengers  *[]CreateRidePassenger `json:"passageiros"`
}

type ConfirmRidePaymentRequest struct {
	RideID uint `json:"ride_id"`
	UserID uint `json:"user_id"`
}

func toRideResponse(r models.Ride) RideResponse {
	res := RideResponse{
		ID:          r.ID,
		Title:       r.Title,
		DriverID:    r.DriverID,
		Origin:      r.Origin,
		Destination: r.Destination,
		FuelCost:    settle.ToAmount(r.FuelCostCents),
		DistanceKM:  r.DistanceKM,
		ExpenseID:   r.ExpenseID,
		Passengers:  make([]PassengerResponse, 0, len(r.Passengers)),
	}
	if r.Driver.ID != 0 {
		res.DriverName = r.Driver.Name
		res.DriverAvatar = r.Driver.AvatarURL
	}
	if r.TravelDate != nil {
		d := r.TravelDate.Format("2006-01-02")
		res.TravelDate = &d
	}
	for _, p := range r.Passengers {
		pr := PassengerResponse{
			ID:               p.ID,
			UserID:           p.UserID,
			PaymentConfirmed: p.PaymentConfirmed,
		}
		if p.User.ID != 0 {
			pr.UserName = p.User.Name
			pr.UserAvatar = p.User.AvatarURL
		}
		if p.ContributionCents != nil {
			v := settle.ToAmount(*p.ContributionCents)
			pr.Contribution = &v
		}
		res.Passengers = append(res.Passengers, pr)
	}
	return res
}

func parseTravelDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GET /api/rides
func ListRidesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rs []models.Ride
		err := database.DB.
			Preload("Driver").
			Preload("Passengers.User").
			Order("travel_date desc, created_at desc").
			Find(&rs).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar caronas")
		}

		res := make([]RideResponse, 0, len(rs))
		for _, r := range rs {
			res = append(res, toRideResponse(r))
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// POST /api/rides
// Carona com custo de gasolina materializa uma despesa na categoria
// Gasolina, paga pelo motorista, com os passageiros espelhados como
// participantes. A despesa nasce junto, na mesma transação.
func CreateRideHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRideRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Title = strings.TrimSpace(body.Title)
		if body.Title == "" || body.DriverID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "titulo e motorista_id são obrigatórios")
		}

		var driver models.User
		if err := database.DB.First(&driver, "id = ?", body.DriverID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Motorista não encontrado")
		}

		travelDate, err := parseTravelDate(body.TravelDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "data_viagem inválida, use AAAA-MM-DD")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao iniciar transação")
		}

		var expenseID *uint
		if body.FuelCost > 0 {
			var cat models.ExpenseCategory
			if err := tx.First(&cat, "name = ?", models.FuelCategoryName).Error; err == nil {
				exp := models.Expense{
					CategoryID:  cat.ID,
					Description: models.FuelCategoryName + " - " + body.Title,
					AmountCents: settle.FromAmount(body.FuelCost),
					PayerID:     body.DriverID,
					IncurredAt:  time.Now(),
				}
				if err := tx.Create(&exp).Error; err != nil {
					tx.Rollback()
					return fiber.NewError(fiber.StatusInternalServerError, "Erro ao criar despesa da carona")
				}
				expenseID = &exp.ID
			}
		}

		ride := models.Ride{
			Title:        body.Title,
			DriverID:     body.DriverID,
			Origin:       body.Origin,
			Destination:  body.Destination,
			TravelDate:   travelDate,
			FuelCostCents: settle.FromAmount(body.FuelCost),
			DistanceKM:   body.DistanceKM,
			ExpenseID:    expenseID,
		}
		if err := tx.Create(&ride).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao criar carona")
		}

		seen := make(map[uint]struct{}, len(body.Passengers))
		for _, p := range body.Passengers {
			if _, ok := seen[p.UserID]; ok {
				continue
			}
			seen[p.UserID] = struct{}{}

			var contribution *int64
			if p.Contribution != nil {
				cents := settle.FromAmount(*p.Contribution)
				if cents < 0 {
					tx.Rollback()
					return fiber.NewError(fiber.StatusBadRequest, "contribuicao não pode ser negativa")
				}
				contribution = &cents
			}

			rp := models.RidePassenger{RideID: ride.ID, UserID: p.UserID, ContributionCents: contribution}
			if err := tx.Create(&rp).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Erro ao adicionar passageiros")
			}

			if expenseID != nil {
				ep := models.ExpenseParticipant{ExpenseID: *expenseID, UserID: p.UserID, ShareCents: contribution}
				if err := tx.Create(&ep).Error; err != nil {
					tx.Rollback()
					return fiber.NewError(fiber.StatusInternalServerError, "Erro ao adicionar passageiros")
				}
			}
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao salvar carona")
		}

		activity.Record(&body.DriverID, "carona", ride.ID, models.ActivityActionCreate, "Carona criada: "+ride.Title)

		database.DB.Preload("Driver").Preload("Passengers.User").First(&ride, ride.ID)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": toRideResponse(ride)})
	}
}

// PATCH /api/rides/:id
// A despesa materializada na criação não é recalculada aqui; ajustes de
// valores depois do fato são feitos direto na despesa.
func UpdateRideHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ride models.Ride
		if err := database.DB.First(&ride, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Carona não encontrada")
		}

		var body UpdateRideRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Title != nil {
			title := strings.TrimSpace(*body.Title)
			if title == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Título não pode ser vazio")
			}
			ride.Title = title
		}
		if body.Origin != nil {
			ride.Origin = *body.Origin
		}
		if body.Destination != nil {
			ride.Destination = *body.Destination
		}
		if body.TravelDate != nil {
			travelDate, err := parseTravelDate(body.TravelDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "data_viagem inválida, use AAAA-MM-DD")
			}
			ride.TravelDate = travelDate
		}
		if body.FuelCost != nil {
			ride.FuelCostCents = settle.FromAmount(*body.FuelCost)
		}
		if body.DistanceKM != nil {
			ride.DistanceKM = *body.DistanceKM
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao iniciar transação")
		}

		if err := tx.Save(&ride).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar carona")
		}

		if body.Passengers != nil {
			if err := tx.Where("ride_id = ?", ride.ID).Delete(&models.RidePassenger{}).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar passageiros")
			}
			seen := make(map[uint]struct{})
			for _, p := range *body.Passengers {
				if _, ok := seen[p.UserID]; ok {
					continue
				}
				seen[p.UserID] = struct{}{}

				var contribution *int64
				if p.Contribution != nil {
					cents := settle.FromAmount(*p.Contribution)
					if cents < 0 {
						tx.Rollback()
						return fiber.NewError(fiber.StatusBadRequest, "contribuicao não pode ser negativa")
					}
					contribution = &cents
				}
				rp := models.RidePassenger{RideID: ride.ID, UserID: p.UserID, ContributionCents: contribution}
				if err := tx.Create(&rp).Error; err != nil {
					tx.Rollback()
					return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar passageiros")
				}
			}
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao salvar carona")
		}

		activity.Record(nil, "carona", ride.ID, models.ActivityActionUpdate, "Carona atualizada: "+ride.Title)
		return c.JSON(fiber.Map{"success": true, "message": "Carona atualizada"})
	}
}

// PATCH /api/rides/confirm-payment
func ConfirmRidePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ConfirmRidePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.RideID == 0 || body.UserID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ride_id e user_id são obrigatórios")
		}

		var rp models.RidePassenger
		err := database.DB.Where("ride_id = ? AND user_id = ?", body.RideID, body.UserID).First(&rp).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Passageiro não encontrado nesta carona")
		}

		if !rp.PaymentConfirmed {
			rp.PaymentConfirmed = true
			if err := database.DB.Save(&rp).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Erro ao confirmar pagamento")
			}

			// Mantém a despesa de gasolina em sincronia com a carona.
			var ride models.Ride
			if err := database.DB.First(&ride, "id = ?", body.RideID).Error; err == nil && ride.ExpenseID != nil {
				now := time.Now()
				err := database.DB.Model(&models.ExpenseParticipant{}).
					Where("expense_id = ? AND user_id = ? AND payment_confirmed = ?", *ride.ExpenseID, body.UserID, false).
					Updates(map[string]interface{}{"payment_confirmed": true, "confirmed_at": &now}).Error
				if err != nil {
					slog.Error("Erro ao sincronizar despesa da carona", "error", err, "ride_id", body.RideID, "user_id", body.UserID)
				}
			}

			activity.Record(&body.UserID, "carona", body.RideID, models.ActivityActionConfirm, "Pagamento da carona confirmado")
		}

		return c.JSON(fiber.Map{"success": true, "message": "Pagamento da carona confirmado"})
	}
}

// DELETE /api/rides/:id
// A despesa de gasolina vinculada permanece no livro de despesas.
func DeleteRideHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ride models.Ride
		if err := database.DB.First(&ride, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Carona não encontrada")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao iniciar transação")
		}

		if err := tx.Where("ride_id = ?", ride.ID).Delete(&models.RidePassenger{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao deletar carona")
		}
		if err := tx.Delete(&ride).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao deletar carona")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao deletar carona")
		}

		activity.Record(nil, "carona", ride.ID, models.ActivityActionDelete, "Carona removida: "+ride.Title)
		return c.JSON(fiber.Map{"success": true, "message": "Carona deletada"})
	}
}
