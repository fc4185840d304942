package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

	app := fiber.New()
	app.Get("/api/dashboard/budget", BudgetHandler())
	return app
}

func TestBudgetAggregatesByCategory(t *testing.T) {
	app := newTestApp(t)

	u := models.User{Name: "Ana"}
	if err := database.DB.Create(&u).Error; err != nil {
		t.Fatal(err)
	}

	var mercado, gasolina models.ExpenseCategory
	database.DB.First(&mercado, "name = ?", "Mercado")
	database.DB.First(&gasolina, "name = ?", "Gasolina")

	// Mercado: estimados 300,00, gastos 120,00. Gasolina: só gasto, 80,00.
	database.DB.Create(&models.ExpenseEstimate{CategoryID: mercado.ID, Description: "Compra grande", AmountCents: 20000})
	database.DB.Create(&models.ExpenseEstimate{CategoryID: mercado.ID, Description: "Reforço", AmountCents: 10000})
	database.DB.Create(&models.Expense{CategoryID: mercado.ID, Description: "Feira", AmountCents: 12000, PayerID: u.ID, IncurredAt: time.Now()})
	database.DB.Create(&models.Expense{CategoryID: gasolina.ID, Description: "Posto", AmountCents: 8000, PayerID: u.ID, IncurredAt: time.Now()})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/budget", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("orçamento esperava 200, veio %d", resp.StatusCode)
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	data := out["data"].(map[string]any)

	cats := data["categorias"].([]any)
	if len(cats) != 2 {
		t.Fatalf("esperava 2 categorias com movimento, veio %d", len(cats))
	}

	// Ordem alfabética: Gasolina antes de Mercado.
	gas := cats[0].(map[string]any)
	if gas["categoria_nome"] != "Gasolina" || gas["valor_realizado"].(float64) != 80.0 || gas["diferenca"].(float64) != -80.0 {
		t.Fatalf("linha da Gasolina inesperada: %v", gas)
	}
	mer := cats[1].(map[string]any)
	if mer["valor_estimado"].(float64) != 300.0 || mer["valor_realizado"].(float64) != 120.0 || mer["diferenca"].(float64) != 180.0 {
		t.Fatalf("linha do Mercado inesperada: %v", mer)
	}

	if data["total_estimado"].(float64) != 300.0 || data["total_realizado"].(float64) != 200.0 || data["diferenca_total"].(float64) != 100.0 {
		t.Fatalf("totais inesperados: %v", data)
	}
}

func TestBudgetEmptyDatabase(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/budget", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	data := out["data"].(map[string]any)
	if len(data["categorias"].([]any)) != 0 {
		t.Fatalf("sem movimento, lista deveria ser vazia: %v", data["categorias"])
	}
	if data["total_estimado"].(float64) != 0 {
		t.Fatalf("total estimado deveria ser zero: %v", data["total_estimado"])
	}
}
