package models

import "time"

// MarketItem - item da lista de mercado coletiva.
type MarketItem struct {
	ID                  uint    `gorm:"primaryKey"`
	Name                string  `gorm:"size:150;not null"`
	Category            string  `gorm:"size:100;index"`
	Quantity            float64 `gorm:"not null;default:0"`
	Unit                string  `gorm:"size:30"` // unidade_medida
	CostPerPortionCents int64   `gorm:"not null;default:0"`
	PortionSize         string  `gorm:"size:50"`
	ResponsibleID       *uint `gorm:"index"`
	Responsible         *User `gorm:"foreignKey:ResponsibleID"`
	AddedByID           *uint
	AddedBy             *User  `gorm:"foreignKey:AddedByID"`
	Notes               string `gorm:"size:500"` // observacoes
	Purchased           bool   `gorm:"not null;default:false"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
