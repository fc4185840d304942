package models

import "time"

type ChecklistCategory string

const (
	ChecklistCategoryItem     ChecklistCategory = "item"
	ChecklistCategoryTask     ChecklistCategory = "tarefa"
	ChecklistCategoryReminder ChecklistCategory = "nao_esqueca"
)

// ChecklistItem - item do checklist da viagem. OwnerID começa nulo e é
// preenchido via claim com lock de linha (no máximo um responsável).
type ChecklistItem struct {
	ID          uint              `gorm:"primaryKey"`
	Category    ChecklistCategory `gorm:"size:20;not null;index"`
	Description string            `gorm:"size:255;not null"`
	OwnerID     *uint             `gorm:"index"`
	Owner       *User             `gorm:"foreignKey:OwnerID"`
	Completed   bool              `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
