package models

import (
	"time"
)

// AppConfigID is the primary key of the singleton configuration row
const AppConfigID uint = 1

// AppConfig is the singleton application configuration record.
// SMTP settings are stored verbatim but not wired to any network I/O.
type AppConfig struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CallQueueDays int `gorm:"not null;default:7" json:"call_queue_days"`

	SMTPServer string `gorm:"size:255" json:"smtp_server"`
	SMTPPort   int    `gorm:"default:587" json:"smtp_port"`
	SMTPUser   string `gorm:"size:255" json:"smtp_user"`
	SMTPPass   string `gorm:"size:255" json:"-"`

	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (AppConfig) TableName() string {
	return "app_config"
}

// DefaultAppConfig returns the seed configuration row
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		ID:            AppConfigID,
		CallQueueDays: 7,
		SMTPPort:      587,
	}
}
