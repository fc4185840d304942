package models

import "time"

// User - perfil de participante da viagem. Não guarda credenciais: a
// identidade é selecionada no próprio cliente (grupo fechado de confiança).
type User struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:100;not null"`
	AvatarURL  string `gorm:"size:500"`
	FunnyTitle string `gorm:"size:150"` // "titulo_engracado" no app
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
