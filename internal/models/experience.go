package models

import "time"

type ExperienceType string

const (
	ExperienceQuote      ExperienceType = "frase"
	ExperiencePartyTheme ExperienceType = "tema_festa"
)

// Experience - conteúdo social da viagem: frases marcantes e temas de
// festa, ambos votáveis.
type Experience struct {
	ID        uint           `gorm:"primaryKey"`
	Type      ExperienceType `gorm:"size:15;not null;index"`
	Content   string         `gorm:"size:500;not null"` // conteudo
	AuthorID  *uint          `gorm:"index"`
	Author    *User          `gorm:"foreignKey:AuthorID"`
	Votes     int64          `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
