package models

import "time"

type ActivityAction string

const (
	ActivityActionCreate  ActivityAction = "create"
	ActivityActionUpdate  ActivityAction = "update"
	ActivityActionDelete  ActivityAction = "delete"
	ActivityActionClaim   ActivityAction = "claim"
	ActivityActionConfirm ActivityAction = "confirm"
)

// ActivityLog - feed de atividades do grupo ("fulano adicionou uma
// despesa"). Nome do usuário denormalizado para o feed sobreviver a
// mudanças de perfil.
type ActivityLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID   *uint  `gorm:"index"`
	UserName string `gorm:"size:100"`

	// ex.: "expense", "ride", "meal", "checklist"
	EntityType string `gorm:"size:50;index"`
	EntityID   uint   `gorm:"index"`

	Action      ActivityAction `gorm:"size:20"`
	Description string         `gorm:"size:255"`
}
