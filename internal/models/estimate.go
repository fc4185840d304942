package models

import "time"

// ExpenseEstimate - custo planejado antes de ser incorrido. O conjunto de
// participantes é substituído por inteiro nas atualizações.
type ExpenseEstimate struct {
	ID          uint `gorm:"primaryKey"`
	CategoryID  uint `gorm:"index;not null"`
	Category    ExpenseCategory
	Description string `gorm:"size:255;not null"`
	AmountCents int64  `gorm:"not null"` // valor_estimado em centavos
	CreatedByID *uint  `gorm:"index"`
	CreatedBy   *User  `gorm:"foreignKey:CreatedByID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Participants []EstimateParticipant `gorm:"foreignKey:EstimateID;constraint:OnDelete:CASCADE"`
}

type EstimateParticipant struct {
	ID         uint `gorm:"primaryKey"`
	EstimateID uint `gorm:"index;not null"`
	UserID     uint `gorm:"index;not null"`
	User       User `gorm:"foreignKey:UserID"`
	CreatedAt  time.Time
}
