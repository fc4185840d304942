package models

import "time"

type DrinkCategory string

const (
	DrinkAlcoholic    DrinkCategory = "alc"
	DrinkNonAlcoholic DrinkCategory = "non-alc"
)

// Drink - bebida na enquete, única por nome dentro da categoria.
type Drink struct {
	ID        uint          `gorm:"primaryKey"`
	Category  DrinkCategory `gorm:"size:10;not null;uniqueIndex:idx_drinks_cat_name"`
	Name      string        `gorm:"size:150;not null;uniqueIndex:idx_drinks_cat_name"` // nome_bebida
	Votes     int64         `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
