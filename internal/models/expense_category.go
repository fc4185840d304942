package models

import "time"

// Nome da categoria de sistema usada pelas despesas geradas por caronas.
const FuelCategoryName = "Gasolina"

// ExpenseCategory - categoria de despesa. Categorias de sistema são
// semeadas na migração e não podem ser removidas.
type ExpenseCategory struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;uniqueIndex"`
	Icon      string `gorm:"size:50"`
	Color     string `gorm:"size:20"`
	IsSystem  bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
