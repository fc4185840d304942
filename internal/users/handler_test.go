package users

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"trip-planner-backend/internal/database"

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
	api.Get("/users", ListUsersHandler())
	api.Get("/users/:id", GetUserHandler())
	api.Post("/users", CreateUserHandler())
	api.Patch("/users/:id", UpdateUserHandler())
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

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func TestCreateUserValidation(t *testing.T) {
	app := newTestApp(t)

	status, _ := doRequest(t, app, http.MethodPost, "/api/users", fiber.Map{"nome": "   "})
	if status != http.StatusBadRequest {
		t.Fatalf("nome vazio esperava 400, veio %d", status)
	}

	status, out := doRequest(t, app, http.MethodPost, "/api/users", fiber.Map{
		"nome":             "  Ana  ",
		"titulo_engracado": "Rainha do churrasco",
	})
	if status != http.StatusCreated {
		t.Fatalf("criação esperava 201, veio %d", status)
	}
	data := out["data"].(map[string]any)
	if data["nome"] != "Ana" {
		t.Fatalf("nome deveria vir sem espaços, veio %q", data["nome"])
	}
	if data["titulo_engracado"] != "Rainha do churrasco" {
		t.Fatalf("titulo_engracado não preservado: %v", data)
	}
}

func TestListUsersAlphabetical(t *testing.T) {
	app := newTestApp(t)

	for _, n := range []string{"Carla", "Ana", "Bruno"} {
		doRequest(t, app, http.MethodPost, "/api/users", fiber.Map{"nome": n})
	}

	_, out := doRequest(t, app, http.MethodGet, "/api/users", nil)
	list := out["data"].([]any)
	if len(list) != 3 {
		t.Fatalf("esperava 3 usuários, veio %d", len(list))
	}
	got := []string{}
	for _, it := range list {
		got = append(got, it.(map[string]any)["nome"].(string))
	}
	want := []string{"Ana", "Bruno", "Carla"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ordem esperada %v, veio %v", want, got)
		}
	}
}

func TestUpdateUserPartial(t *testing.T) {
	app := newTestApp(t)

	_, out := doRequest(t, app, http.MethodPost, "/api/users", fiber.Map{
		"nome":       "Bruno",
		"avatar_url": "https://example.com/b.png",
	})
	id := out["data"].(map[string]any)["id"].(float64)
	path := "/api/users/" + itoa(uint(id))

	status, out := doRequest(t, app, http.MethodPatch, path, fiber.Map{
		"titulo_engracado": "DJ da van",
	})
	if status != http.StatusOK {
		t.Fatalf("atualização esperava 200, veio %d", status)
	}
	data := out["data"].(map[string]any)
	if data["nome"] != "Bruno" || data["avatar_url"] != "https://example.com/b.png" {
		t.Fatalf("campos não enviados deveriam permanecer: %v", data)
	}
	if data["titulo_engracado"] != "DJ da van" {
		t.Fatalf("titulo_engracado esperava DJ da van, veio %v", data["titulo_engracado"])
	}

	status, _ = doRequest(t, app, http.MethodPatch, path, fiber.Map{"nome": " "})
	if status != http.StatusBadRequest {
		t.Fatalf("nome vazio esperava 400, veio %d", status)
	}

	status, _ = doRequest(t, app, http.MethodPatch, "/api/users/99999", fiber.Map{"nome": "X"})
	if status != http.StatusNotFound {
		t.Fatalf("usuário inexistente esperava 404, veio %d", status)
	}
}
