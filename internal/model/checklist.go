package model

import (
	"time"

	"gorm.io/datatypes"
)

// ChecklistCategory — категория чек-листа со списком вещей
type ChecklistCategory struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// ChecklistContent — содержимое чек-листа, хранится как JSON
type ChecklistContent struct {
	Categories []ChecklistCategory `json:"categories"`
}

// TripChecklist — чек-лист сборов, один на поездку, регенерация перезаписывает
type TripChecklist struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TripID      int64          `gorm:"not null;uniqueIndex" json:"trip_id"`
	CreatedByID *int64         `gorm:"index" json:"created_by_id,omitempty"`
	Content     datatypes.JSON `gorm:"type:jsonb;not null" json:"content"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
}

func (TripChecklist) TableName() string {
	return "trip_checklists"
}
