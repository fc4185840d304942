package meals

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
	api.Get("/meals", ListMealsHandler())
	api.Post("/meals", CreateMealHandler())
	api.Patch("/meals/claim-role", ClaimRoleHandler())
	api.Get("/meals/:id", GetMealHandler())
	api.Post("/meal-ingredients", AddIngredientHandler())
	api.Delete("/meal-ingredients", RemoveIngredientHandler())
	api.Get("/meal-ingredients/meal/:mealId", ListMealIngredientsHandler())
	api.Get("/meal-ingredients/ingredient/:ingredientId", ListIngredientMealsHandler())
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

func TestCreateMealUniquePerDateAndType(t *testing.T) {
	app := newTestApp(t)

	status, _ := doRequest(t, app, http.MethodPost, "/api/meals", fiber.Map{
		"data":          "2026-01-10",
		"tipo_refeicao": "almoco",
		"nome_refeicao": "Macarronada",
	})
	if status != http.StatusCreated {
		t.Fatalf("criação esperava 201, veio %d", status)
	}

	// Mesmo dia, mesmo tipo: conflito.
	status, _ = doRequest(t, app, http.MethodPost, "/api/meals", fiber.Map{
		"data":          "2026-01-10",
		"tipo_refeicao": "almoco",
		"nome_refeicao": "Churrasco",
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicata esperava 409, veio %d", status)
	}

	// Mesmo dia, outro tipo: passa.
	status, _ = doRequest(t, app, http.MethodPost, "/api/meals", fiber.Map{
		"data":          "2026-01-10",
		"tipo_refeicao": "jantar",
	})
	if status != http.StatusCreated {
		t.Fatalf("outro tipo esperava 201, veio %d", status)
	}

	status, _ = doRequest(t, app, http.MethodPost, "/api/meals", fiber.Map{
		"data":          "2026-01-10",
		"tipo_refeicao": "brunch",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("tipo inválido esperava 400, veio %d", status)
	}
}

func TestListMealsOrderedWithinDay(t *testing.T) {
	app := newTestApp(t)
	for _, tipo := range []string{"jantar", "cafe", "almoco"} {
		doRequest(t, app, http.MethodPost, "/api/meals", fiber.Map{
			"data":          "2026-01-12",
			"tipo_refeicao": tipo,
		})
	}

	_, out := doRequest(t, app, http.MethodGet, "/api/meals", nil)
	data := out["data"].([]any)
	if len(data) != 3 {
		t.Fatalf("esperava 3 refeições, veio %d", len(data))
	}
	want := []string{"cafe", "almoco", "jantar"}
	for i, raw := range data {
		if got := raw.(map[string]any)["tipo_refeicao"]; got != want[i] {
			t.Fatalf("posição %d: esperava %s, veio %v", i, want[i], got)
		}
	}
}

func TestClaimRoleConflict(t *testing.T) {
	app := newTestApp(t)
	u1 := seedUser(t, "Ana")
	u2 := seedUser(t, "Bruno")

	_, out := doRequest(t, app, http.MethodPost, "/api/meals", fiber.Map{
		"data":          "2026-01-11",
		"tipo_refeicao": "jantar",
	})
	mealID := uint(out["data"].(map[string]any)["id"].(float64))

	status, out := doRequest(t, app, http.MethodPatch, "/api/meals/claim-role", fiber.Map{
		"meal_id": mealID,
		"role":    "cook",
		"user_id": u1.ID,
	})
	if status != http.StatusOK {
		t.Fatalf("claim esperava 200, veio %d", status)
	}
	if got := out["data"].(map[string]any)["cook_nome"]; got != "Ana" {
		t.Fatalf("cozinheira esperada Ana, veio %v", got)
	}

	// A vaga já foi: segundo interessado leva 409.
	status, _ = doRequest(t, app, http.MethodPatch, "/api/meals/claim-role", fiber.Map{
		"meal_id": mealID,
		"role":    "cook",
		"user_id": u2.ID,
	})
	if status != http.StatusConflict {
		t.Fatalf("vaga ocupada esperava 409, veio %d", status)
	}

	// Outra vaga da mesma refeição segue livre.
	status, _ = doRequest(t, app, http.MethodPatch, "/api/meals/claim-role", fiber.Map{
		"meal_id": mealID,
		"role":    "dishwasher1",
		"user_id": u2.ID,
	})
	if status != http.StatusOK {
		t.Fatalf("vaga livre esperava 200, veio %d", status)
	}

	status, _ = doRequest(t, app, http.MethodPatch, "/api/meals/claim-role", fiber.Map{
		"meal_id": mealID,
		"role":    "faxineiro",
		"user_id": u2.ID,
	})
	if status != http.StatusBadRequest {
		t.Fatalf("role inválido esperava 400, veio %d", status)
	}

	status, _ = doRequest(t, app, http.MethodPatch, "/api/meals/claim-role", fiber.Map{
		"meal_id": 99999,
		"role":    "cook",
		"user_id": u2.ID,
	})
	if status != http.StatusNotFound {
		t.Fatalf("refeição inexistente esperava 404, veio %d", status)
	}
}

func TestMealIngredientUpsertAndRemove(t *testing.T) {
	app := newTestApp(t)

	_, out := doRequest(t, app, http.MethodPost, "/api/meals", fiber.Map{
		"data":          "2026-01-13",
		"tipo_refeicao": "almoco",
	})
	mealID := uint(out["data"].(map[string]any)["id"].(float64))

	item := models.MarketItem{Name: "Arroz", Category: "Grãos", Quantity: 5, Unit: "kg"}
	if err := database.DB.Create(&item).Error; err != nil {
		t.Fatal(err)
	}

	status, _ := doRequest(t, app, http.MethodPost, "/api/meal-ingredients", fiber.Map{
		"meal_id":               mealID,
		"ingredient_id":         item.ID,
		"quantidade_necessaria": 1.0,
	})
	if status != http.StatusCreated {
		t.Fatalf("vínculo esperava 201, veio %d", status)
	}

	// Repetir o vínculo só atualiza a quantidade.
	doRequest(t, app, http.MethodPost, "/api/meal-ingredients", fiber.Map{
		"meal_id":               mealID,
		"ingredient_id":         item.ID,
		"quantidade_necessaria": 2.5,
	})
	var count int64
	database.DB.Model(&models.MealIngredient{}).Where("meal_id = ?", mealID).Count(&count)
	if count != 1 {
		t.Fatalf("esperava 1 vínculo após upsert, veio %d", count)
	}
	var link models.MealIngredient
	database.DB.Where("meal_id = ?", mealID).First(&link)
	if link.QuantityNeeded != 2.5 {
		t.Fatalf("quantidade esperava 2.5, veio %v", link.QuantityNeeded)
	}

	_, out = doRequest(t, app, http.MethodGet, "/api/meal-ingredients/meal/"+itoa(mealID), nil)
	if got := len(out["data"].([]any)); got != 1 {
		t.Fatalf("listagem esperava 1 ingrediente, veio %d", got)
	}

	status, _ = doRequest(t, app, http.MethodDelete, "/api/meal-ingredients", fiber.Map{
		"meal_id":       mealID,
		"ingredient_id": item.ID,
	})
	if status != http.StatusOK {
		t.Fatalf("remoção esperava 200, veio %d", status)
	}
	status, _ = doRequest(t, app, http.MethodDelete, "/api/meal-ingredients", fiber.Map{
		"meal_id":       mealID,
		"ingredient_id": item.ID,
	})
	if status != http.StatusNotFound {
		t.Fatalf("vínculo já removido esperava 404, veio %d", status)
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
