package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// ProspectStage represents a prospect's position in the review pipeline
type ProspectStage string

const (
	ProspectStageUnreviewed  ProspectStage = "unreviewed"
	ProspectStageFinalized   ProspectStage = "finalized"
	ProspectStageUnqualified ProspectStage = "unqualified"
)

// String returns the string representation of the stage
func (s ProspectStage) String() string {
	return string(s)
}

// Valid checks if the stage is valid
func (s ProspectStage) Valid() bool {
	switch s {
	case ProspectStageUnreviewed, ProspectStageFinalized, ProspectStageUnqualified:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for ProspectStage
func (s *ProspectStage) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = ProspectStage(v)
	case []byte:
		*s = ProspectStage(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ProspectStage", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for ProspectStage
func (s ProspectStage) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid ProspectStage: %s", s)
	}
	return string(s), nil
}

// ProspectDecision represents the reviewer's verdict on a prospect
type ProspectDecision string

const (
	ProspectDecisionApprove ProspectDecision = "approve"
	ProspectDecisionReject  ProspectDecision = "reject"
)

// String returns the string representation of the decision
func (d ProspectDecision) String() string {
	return string(d)
}

// Valid checks if the decision is valid
func (d ProspectDecision) Valid() bool {
	return d == ProspectDecisionApprove || d == ProspectDecisionReject
}

// Scan implements the sql.Scanner interface for ProspectDecision
func (d *ProspectDecision) Scan(value any) error {
	if value == nil {
		*d = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*d = ProspectDecision(v)
	case []byte:
		*d = ProspectDecision(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ProspectDecision", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for ProspectDecision
func (d ProspectDecision) Value() (driver.Value, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid ProspectDecision: %s", d)
	}
	return string(d), nil
}

// Prospect represents an unqualified candidate company awaiting promotion to Lead.
// On finalize the prospect row is deleted and a Lead is created; no reverse
// link is retained.
type Prospect struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Company string `gorm:"size:255;not null;index:idx_prospects_company" json:"company"`

	Website   string `gorm:"size:512" json:"website"`
	State     string `gorm:"size:64" json:"state"`
	Service   string `gorm:"size:255" json:"service"`
	Industry  string `gorm:"size:255" json:"industry"`
	Revenue   string `gorm:"size:128" json:"revenue"`
	Employees string `gorm:"size:128" json:"employees"`
	Contact   string `gorm:"size:255" json:"contact"`
	Email     string `gorm:"type:text" json:"email"`
	Phone     string `gorm:"size:255" json:"phone"`
	Notes     string `gorm:"type:text" json:"notes"`
	Source    string `gorm:"size:255" json:"source"`
	Reason    string `gorm:"type:text" json:"reason"`

	Decision *ProspectDecision `gorm:"size:16" json:"decision,omitempty"`
	Stage    ProspectStage     `gorm:"size:16;not null;default:'unreviewed';index:idx_prospects_stage" json:"stage"`

	DateAdded time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"date_added"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Prospect) TableName() string {
	return "prospects"
}

// ProspectFilter represents filter criteria for prospect queries
type ProspectFilter struct {
	ID       *uint
	Company  *string
	Stage    *ProspectStage
	Decision *ProspectDecision
	State    *string
	Search   *string // matches company or contact
}
