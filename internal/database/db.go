package database

import (
	"log/slog"
	"os"

	"trip-planner-backend/internal/config"
	"trip-planner-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Categorias de sistema semeadas na primeira migração. "Gasolina" é a
// categoria das despesas materializadas por caronas e não pode faltar.
var systemCategories = []models.ExpenseCategory{
	{Name: "Mercado", Icon: "shopping-cart", Color: "#22c55e", IsSystem: true},
	{Name: "Gasolina", Icon: "fuel", Color: "#ef4444", IsSystem: true},
	{Name: "Hospedagem", Icon: "home", Color: "#3b82f6", IsSystem: true},
	{Name: "Bebidas", Icon: "beer", Color: "#f59e0b", IsSystem: true},
	{Name: "Outros", Icon: "package", Color: "#8b5cf6", IsSystem: true},
}

func Init(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		slog.Error("Não foi possível conectar ao banco de dados", "error", err)
		os.Exit(1)
	}

	if err := Setup(db); err != nil {
		slog.Error("Falha na migração do banco de dados", "error", err)
		os.Exit(1)
	}

	slog.Info("Banco de dados conectado e migrado")
}

// Setup migra o schema e semeia as categorias de sistema sobre uma conexão
// já aberta. Os testes chamam direto com um SQLite em memória.
func Setup(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.ExpenseCategory{},
		&models.ExpenseEstimate{},
		&models.EstimateParticipant{},
		&models.Expense{},
		&models.ExpenseParticipant{},
		&models.Ride{},
		&models.RidePassenger{},
		&models.Meal{},
		&models.MarketItem{},
		&models.MealIngredient{},
		&models.ChecklistItem{},
		&models.Drink{},
		&models.Experience{},
		&models.ActivityLog{},
	); err != nil {
		return err
	}

	if err := seedSystemCategories(db); err != nil {
		return err
	}

	DB = db
	return nil
}

// seedSystemCategories é idempotente: insere apenas as categorias de
// sistema que ainda não existem (por nome).
func seedSystemCategories(db *gorm.DB) error {
	for _, cat := range systemCategories {
		var count int64
		if err := db.Model(&models.ExpenseCategory{}).Where("name = ?", cat.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		c := cat
		if err := db.Create(&c).Error; err != nil {
			return err
		}
	}
	return nil
}
