package models

import (
	"time"
)

// CallLog is an append-only record of a completed call. LeadID is a weak
// back-reference: the lead may have been deleted since, and LeadName keeps
// a denormalized snapshot for display.
type CallLog struct {
	ID       string      `gorm:"primaryKey;size:64" json:"id"`
	LeadID   uint        `gorm:"index:idx_call_logs_lead_id" json:"lead_id"`
	LeadName string      `gorm:"size:255" json:"lead_name"`
	Outcome  CallOutcome `gorm:"size:32;not null;index:idx_call_logs_outcome" json:"outcome"`

	Notes        string     `gorm:"type:text" json:"notes"`
	FollowUpDate *time.Time `json:"follow_up_date,omitempty"`
	NextAction   string     `gorm:"size:64" json:"next_action"`

	Timestamp time.Time `gorm:"not null;index:idx_call_logs_timestamp" json:"timestamp"`
	Duration  int       `gorm:"default:0" json:"duration"` // seconds

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (CallLog) TableName() string {
	return "call_logs"
}

// CallLogFilter represents filter criteria for call log queries
type CallLogFilter struct {
	LeadID  *uint
	Outcome *CallOutcome
	Since   *time.Time
	Until   *time.Time
}
