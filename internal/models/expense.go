package models

import "time"

// Expense - despesa real, paga por um participante e rateada entre os
// participantes vinculados. O pagador não precisa estar entre eles.
type Expense struct {
	ID          uint  `gorm:"primaryKey"`
	EstimateID  *uint `gorm:"index"` // vinculada por heurística ou explicitamente
	CategoryID  uint  `gorm:"index;not null"`
	Category    ExpenseCategory
	Description string `gorm:"size:255;not null"`
	AmountCents int64  `gorm:"not null"` // valor_total em centavos
	PayerID     uint   `gorm:"index;not null"`
	Payer       User   `gorm:"foreignKey:PayerID"`
	IncurredAt  time.Time `gorm:"index;not null"` // data_despesa
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Participants []ExpenseParticipant `gorm:"foreignKey:ExpenseID;constraint:OnDelete:CASCADE"`
}

// ExpenseParticipant - cota de um participante em uma despesa.
// ShareCents nulo significa "dividir igualmente" o restante com os demais
// participantes sem valor fixo. A confirmação de pagamento é irreversível.
type ExpenseParticipant struct {
	ID               uint  `gorm:"primaryKey"`
	ExpenseID        uint  `gorm:"index;not null"`
	UserID           uint  `gorm:"index;not null"`
	User             User  `gorm:"foreignKey:UserID"`
	ShareCents       *int64 // valor_individual em centavos; nulo = cota flexível
	PaymentConfirmed bool   `gorm:"not null;default:false"`
	ConfirmedAt      *time.Time // data_pagamento
	CreatedAt        time.Time
}
