package models

import "time"

type MealType string

const (
	MealBreakfast MealType = "cafe"
	MealLunch     MealType = "almoco"
	MealDinner    MealType = "jantar"
)

// Papéis reivindicáveis em uma refeição (claim-role).
type MealRole string

const (
	RoleCook        MealRole = "cook"
	RoleDishwasher1 MealRole = "dishwasher1"
	RoleDishwasher2 MealRole = "dishwasher2"
)

// Meal - refeição agendada. Uma refeição por tipo por dia; as vagas de
// cozinheiro e lavadores começam vazias e são preenchidas via claim.
type Meal struct {
	ID            uint      `gorm:"primaryKey"`
	Date          time.Time `gorm:"not null;uniqueIndex:idx_meals_date_type"`
	Type          MealType  `gorm:"size:10;not null;uniqueIndex:idx_meals_date_type"`
	Name          string    `gorm:"size:150"` // nome_refeicao
	Ingredients   string    `gorm:"size:500"` // texto livre, além dos vínculos
	CookID        *uint     `gorm:"column:cook_id;index"`
	Cook          *User     `gorm:"foreignKey:CookID"`
	Dishwasher1ID *uint     `gorm:"column:dishwasher1_id"`
	Dishwasher1   *User     `gorm:"foreignKey:Dishwasher1ID"`
	Dishwasher2ID *uint     `gorm:"column:dishwasher2_id"`
	Dishwasher2   *User     `gorm:"foreignKey:Dishwasher2ID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MealIngredient - vínculo refeição ↔ item do mercado, com a quantidade
// necessária nessa refeição.
type MealIngredient struct {
	ID             uint       `gorm:"primaryKey"`
	MealID         uint       `gorm:"not null;uniqueIndex:idx_meal_ingredient"`
	Meal           Meal       `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE"`
	IngredientID   uint       `gorm:"not null;uniqueIndex:idx_meal_ingredient"`
	Ingredient     MarketItem `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	QuantityNeeded float64    `gorm:"not null"`
	CreatedAt      time.Time
}
