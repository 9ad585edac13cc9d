package models

import (
	"time"
)

// NotepadID is the primary key of the singleton notepad row
const NotepadID uint = 1

// Notepad holds the free-text scratch pad shared across the UI
type Notepad struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Content     string    `gorm:"type:text" json:"content"`
	LastUpdated time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"last_updated"`
}

func (Notepad) TableName() string {
	return "notepad"
}
