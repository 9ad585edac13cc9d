// Package models contains domain entities and business models for the sales CRM
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CallOutcome represents the result recorded for a logged call
type CallOutcome string

const (
	CallOutcomeMeetingSet       CallOutcome = "meeting_set"
	CallOutcomeReceptionist     CallOutcome = "receptionist"
	CallOutcomeNotInterested    CallOutcome = "not_interested"
	CallOutcomeVoicemail        CallOutcome = "voicemail"
	CallOutcomeSpokeWithContact CallOutcome = "spoke_w_contact"
	CallOutcomeNoAnswer         CallOutcome = "no_answer"
)

// String returns the string representation of the outcome
func (o CallOutcome) String() string {
	return string(o)
}

// Valid checks if the outcome is one of the six recognized values
func (o CallOutcome) Valid() bool {
	switch o {
	case CallOutcomeMeetingSet, CallOutcomeReceptionist, CallOutcomeNotInterested,
		CallOutcomeVoicemail, CallOutcomeSpokeWithContact, CallOutcomeNoAnswer:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CallOutcome
func (o *CallOutcome) Scan(value any) error {
	if value == nil {
		*o = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*o = CallOutcome(v)
	case []byte:
		*o = CallOutcome(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CallOutcome", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CallOutcome
func (o CallOutcome) Value() (driver.Value, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid CallOutcome: %s", o)
	}
	return string(o), nil
}

// MeetingData holds the meeting details captured when a call outcome is meeting_set
type MeetingData struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	Notes        string `json:"notes,omitempty"`
	CalendarLink string `json:"calendar_link,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// Value implements the driver.Valuer interface for MeetingData
func (m MeetingData) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for MeetingData
func (m *MeetingData) Scan(value any) error {
	if value == nil {
		*m = MeetingData{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into MeetingData", value)
	}

	return json.Unmarshal(bytes, m)
}

// Lead represents a contactable company record tracked through the call queue.
// The company index is intentionally non-unique: duplicate company names are
// accepted.
// LastCalled and CallOutcome are only ever written together by call logging.
type Lead struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Company string `gorm:"size:255;not null;index:idx_leads_company" json:"company"`

	Contact  string `gorm:"size:255" json:"contact"`
	Email    string `gorm:"type:text" json:"email"` // one or more, '|'-joined
	Phone    string `gorm:"size:255" json:"phone"`  // free text, multiple formats
	Industry string `gorm:"size:255" json:"industry"`
	State    string `gorm:"size:64" json:"state"`
	Website  string `gorm:"size:512" json:"website"`

	// Notes is an append-only call journal; Comments is free-form
	Notes    string `gorm:"type:text" json:"notes"`
	Comments string `gorm:"type:text" json:"comments"`

	DateAdded   time.Time    `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_leads_date_added" json:"date_added"`
	LastCalled  *time.Time   `gorm:"index:idx_leads_last_called" json:"last_called,omitempty"`
	CallOutcome *CallOutcome `gorm:"size:32" json:"call_outcome,omitempty"`
	Meeting     *MeetingData `gorm:"type:jsonb" json:"meeting,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Lead) TableName() string {
	return "leads"
}

// LeadFilter represents filter criteria for lead queries
type LeadFilter struct {
	ID           *uint
	Company      *string
	State        *string
	Industry     *string
	CallOutcome  *CallOutcome
	NeverCalled  *bool
	CalledBefore *time.Time
	CalledAfter  *time.Time
	AddedAfter   *time.Time
	Search       *string // matches company, contact, or email
}
