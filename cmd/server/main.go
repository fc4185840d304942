package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"trip-planner-backend/internal/activity"
	"trip-planner-backend/internal/checklist"
	"trip-planner-backend/internal/config"
	"trip-planner-backend/internal/dashboard"
	"trip-planner-backend/internal/database"
	"trip-planner-backend/internal/drinks"
	"trip-planner-backend/internal/expense"
	"trip-planner-backend/internal/experience"
	"trip-planner-backend/internal/logging"
	"trip-planner-backend/internal/market"
	"trip-planner-backend/internal/meals"
	"trip-planner-backend/internal/metrics"
	"trip-planner-backend/internal/rides"
	"trip-planner-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.SlogLevel())
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"success": false,
					"error":   e.Message,
				})
			}
			slog.Error("Erro inesperado", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Erro interno do servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Use(logging.Middleware())
	app.Use(metrics.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success":  false,
				"status":   "unhealthy",
				"database": "disconnected",
			})
		}
		return c.JSON(fiber.Map{"success": true, "status": "ok", "database": "connected"})
	})

	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// Usuários
	api.Get("/users", users.ListUsersHandler())
	api.Get("/users/:id", users.GetUserHandler())
	api.Post("/users", users.CreateUserHandler())
	api.Patch("/users/:id", users.UpdateUserHandler())

	// Categorias de despesa
	api.Get("/expenses/categories", expense.ListCategoriesHandler())
	api.Post("/expenses/categories", expense.CreateCategoryHandler())
	api.Delete("/expenses/categories/:id", expense.DeleteCategoryHandler())

	// Estimativas
	api.Get("/expenses/estimates", expense.ListEstimatesHandler())
	api.Post("/expenses/estimates", expense.CreateEstimateHandler())
	api.Patch("/expenses/estimates/:id", expense.UpdateEstimateHandler())
	api.Delete("/expenses/estimates/:id", expense.DeleteEstimateHandler())

	// Despesas e acerto de contas
	api.Get("/expenses/debts-summary", expense.DebtsSummaryHandler())
	api.Patch("/expenses/confirm-payment", expense.ConfirmPaymentHandler())
	api.Get("/expenses/expenses", expense.ListExpensesHandler())
	api.Post("/expenses/expenses", expense.CreateExpenseHandler())
	api.Delete("/expenses/expenses/:id", expense.DeleteExpenseHandler())

	// Caronas
	api.Get("/rides", rides.ListRidesHandler())
	api.Post("/rides", rides.CreateRideHandler())
	api.Patch("/rides/confirm-payment", rides.ConfirmRidePaymentHandler())
	api.Patch("/rides/:id", rides.UpdateRideHandler())
	api.Delete("/rides/:id", rides.DeleteRideHandler())

	// Refeições
	api.Get("/meals", meals.ListMealsHandler())
	api.Post("/meals", meals.CreateMealHandler())
	api.Patch("/meals/claim-role", meals.ClaimRoleHandler())
	api.Get("/meals/:id", meals.GetMealHandler())

	// Vínculos refeição ↔ mercado
	api.Post("/meal-ingredients", meals.AddIngredientHandler())
	api.Delete("/meal-ingredients", meals.RemoveIngredientHandler())
	api.Get("/meal-ingredients/meal/:mealId", meals.ListMealIngredientsHandler())
	api.Get("/meal-ingredients/ingredient/:ingredientId", meals.ListIngredientMealsHandler())

	// Lista de mercado
	api.Get("/market-items", market.ListItemsHandler())
	api.Post("/market-items", market.CreateItemHandler())
	api.Get("/market-items/:id", market.GetItemHandler())
	api.Put("/market-items/:id", market.UpdateItemHandler())
	api.Patch("/market-items/:id", market.UpdateItemHandler())
	api.Patch("/market-items/:id/toggle", market.TogglePurchasedHandler())
	api.Delete("/market-items/:id", market.DeleteItemHandler())

	// Checklist
	api.Get("/checklist", checklist.ListItemsHandler())
	api.Get("/checklist/category/:category", checklist.ListItemsByCategoryHandler())
	api.Post("/checklist", checklist.CreateItemHandler())
	api.Patch("/checklist/:id", checklist.UpdateItemHandler())
	api.Patch("/checklist/:id/claim", checklist.ClaimItemHandler())
	api.Delete("/checklist/:id", checklist.DeleteItemHandler())

	// Enquete de bebidas
	api.Get("/drinks", drinks.ListDrinksHandler())
	api.Get("/drinks/category/:category", drinks.ListDrinksByCategoryHandler())
	api.Post("/drinks/vote", drinks.VoteDrinkHandler())
	api.Post("/drinks", drinks.CreateDrinkHandler())

	// Frases e temas de festa
	api.Get("/experience", experience.ListExperiencesHandler())
	api.Get("/experience/type/:type", experience.ListExperiencesByTypeHandler())
	api.Post("/experience/vote", experience.VoteExperienceHandler())
	api.Post("/experience", experience.CreateExperienceHandler())

	// Dashboard e feed de atividades
	api.Get("/dashboard/budget", dashboard.BudgetHandler())
	api.Get("/activity", activity.ListActivityHandler())

	// Desligamento limpo em SIGINT/SIGTERM.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("Encerrando servidor")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Error("Erro no desligamento", "error", err)
		}
	}()

	slog.Info("Servidor ouvindo", "port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		slog.Error("Servidor encerrou com erro", "error", err)
		os.Exit(1)
	}
}
