package rides

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"trip-planner-backend/internal/database"
	"trip-planner-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("abrindo sqlite em memória: %v", err)
	}
	if err := database.Setup(db); err != nil {
		t.Fatalf("migrando schema: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"success": false, "error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
		},
	})

	api := app.Group("/api")
	api.Get("/rides", ListRidesHandler())
	api.Post("/rides", CreateRideHandler())
	api.Patch("/rides/confirm-payment", ConfirmRidePaymentHandler())
	api.Patch("/rides/:id", UpdateRideHandler())
	api.Delete("/rides/:id", DeleteRideHandler())
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("serializando corpo: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && err != io.EOF {
		t.Fatalf("decodificando resposta: %v", err)
	}
	return resp.StatusCode, out
}

func seedUser(t *testing.T, name string) models.User {
	t.Helper()
	u := models.User{Name: name}
	if err := database.DB.Create(&u).Error; err != nil {
		t.Fatalf("criando usuário %s: %v", name, err)
	}
	return u
}

func TestCreateRideMaterializesFuelExpense(t *testing.T) {
	app := newTestApp(t)
	driver := seedUser(t, "Ana")
	p1 := seedUser(t, "Bruno")
	p2 := seedUser(t, "Carla")

	status, out := doRequest(t, app, http.MethodPost, "/api/rides", fiber.Map{
		"titulo":         "Ida para o sítio",
		"motorista_id":   driver.ID,
		"origem":         "São Paulo",
		"destino":        "Sítio",
		"data_viagem":    "2026-01-09",
		"valor_gasolina": 120.0,
		"distancia_km":   180.0,
		"passageiros": []fiber.Map{
			{"user_id": p1.ID, "contribuicao": 40.0},
			{"user_id": p2.ID},
		},
	})
	if status != http.StatusCreated {
		t.Fatalf("carona esperava 201, veio %d", status)
	}

	data := out["data"].(map[string]any)
	if data["expense_id"] == nil {
		t.Fatal("carona com gasolina deveria gerar despesa vinculada")
	}
	expID := uint(data["expense_id"].(float64))

	var exp models.Expense
	if err := database.DB.Preload("Category").Preload("Participants").First(&exp, expID).Error; err != nil {
		t.Fatalf("despesa materializada não encontrada: %v", err)
	}
	if exp.Category.Name != models.FuelCategoryName {
		t.Fatalf("categoria esperava Gasolina, veio %s", exp.Category.Name)
	}
	if exp.PayerID != driver.ID {
		t.Fatalf("pagador esperava o motorista %d, veio %d", driver.ID, exp.PayerID)
	}
	if exp.AmountCents != 12000 {
		t.Fatalf("valor esperava 12000 centavos, veio %d", exp.AmountCents)
	}
	if len(exp.Participants) != 2 {
		t.Fatalf("despesa deveria espelhar 2 passageiros, veio %d", len(exp.Participants))
	}
	for _, p := range exp.Participants {
		if p.UserID == p1.ID && (p.ShareCents == nil || *p.ShareCents != 4000) {
			t.Fatalf("contribuição fixa de Bruno deveria virar cota de 4000 centavos: %v", p.ShareCents)
		}
		if p.UserID == p2.ID && p.ShareCents != nil {
			t.Fatalf("Carla deveria ficar com cota flexível, veio %v", *p.ShareCents)
		}
	}
}

func TestCreateRideWithoutFuelSkipsExpense(t *testing.T) {
	app := newTestApp(t)
	driver := seedUser(t, "Ana")

	_, out := doRequest(t, app, http.MethodPost, "/api/rides", fiber.Map{
		"titulo":       "Volta da trilha",
		"motorista_id": driver.ID,
	})
	if out["data"].(map[string]any)["expense_id"] != nil {
		t.Fatal("carona sem gasolina não deveria gerar despesa")
	}

	var count int64
	database.DB.Model(&models.Expense{}).Count(&count)
	if count != 0 {
		t.Fatalf("nenhuma despesa deveria existir, veio %d", count)
	}
}

func TestConfirmRidePaymentSyncsExpense(t *testing.T) {
	app := newTestApp(t)
	driver := seedUser(t, "Ana")
	p1 := seedUser(t, "Bruno")

	_, out := doRequest(t, app, http.MethodPost, "/api/rides", fiber.Map{
		"titulo":         "Mercado",
		"motorista_id":   driver.ID,
		"valor_gasolina": 30.0,
		"passageiros": []fiber.Map{
			{"user_id": p1.ID, "contribuicao": 30.0},
		},
	})
	data := out["data"].(map[string]any)
	rideID := uint(data["id"].(float64))
	expID := uint(data["expense_id"].(float64))

	status, _ := doRequest(t, app, http.MethodPatch, "/api/rides/confirm-payment", fiber.Map{
		"ride_id": rideID,
		"user_id": p1.ID,
	})
	if status != http.StatusOK {
		t.Fatalf("confirmação esperava 200, veio %d", status)
	}

	var rp models.RidePassenger
	database.DB.Where("ride_id = ? AND user_id = ?", rideID, p1.ID).First(&rp)
	if !rp.PaymentConfirmed {
		t.Fatal("passageiro deveria estar confirmado")
	}

	var ep models.ExpenseParticipant
	database.DB.Where("expense_id = ? AND user_id = ?", expID, p1.ID).First(&ep)
	if !ep.PaymentConfirmed || ep.ConfirmedAt == nil {
		t.Fatal("confirmação da carona deveria refletir na despesa de gasolina")
	}

	// Confirmar quem não é passageiro é 404.
	status, _ = doRequest(t, app, http.MethodPatch, "/api/rides/confirm-payment", fiber.Map{
		"ride_id": rideID,
		"user_id": driver.ID,
	})
	if status != http.StatusNotFound {
		t.Fatalf("não-passageiro esperava 404, veio %d", status)
	}
}

func TestDeleteRideKeepsExpense(t *testing.T) {
	app := newTestApp(t)
	driver := seedUser(t, "Ana")

	_, out := doRequest(t, app, http.MethodPost, "/api/rides", fiber.Map{
		"titulo":         "Praia",
		"motorista_id":   driver.ID,
		"valor_gasolina": 50.0,
	})
	data := out["data"].(map[string]any)
	rideID := uint(data["id"].(float64))
	expID := uint(data["expense_id"].(float64))

	status, _ := doRequest(t, app, http.MethodDelete, "/api/rides/"+strconv.FormatUint(uint64(rideID), 10), nil)
	if status != http.StatusOK {
		t.Fatalf("exclusão esperava 200, veio %d", status)
	}

	var exp models.Expense
	if err := database.DB.First(&exp, expID).Error; err != nil {
		t.Fatalf("despesa de gasolina deveria sobreviver à carona: %v", err)
	}
}

func TestCreateRideRejectsNegativeContribution(t *testing.T) {
	app := newTestApp(t)
	driver := seedUser(t, "Ana")
	p1 := seedUser(t, "Bruno")

	status, _ := doRequest(t, app, http.MethodPost, "/api/rides", fiber.Map{
		"titulo":         "Serra",
		"motorista_id":   driver.ID,
		"valor_gasolina": 80.0,
		"passageiros": []fiber.Map{
			{"user_id": p1.ID, "contribuicao": -10.0},
		},
	})
	if status != http.StatusBadRequest {
		t.Fatalf("contribuição negativa esperava 400, veio %d", status)
	}

	// A transação inteira é desfeita: nem carona nem despesa ficam.
	var rideCount, expCount int64
	database.DB.Model(&models.Ride{}).Count(&rideCount)
	database.DB.Model(&models.Expense{}).Count(&expCount)
	if rideCount != 0 || expCount != 0 {
		t.Fatalf("nada deveria persistir, caronas=%d despesas=%d", rideCount, expCount)
	}
}
