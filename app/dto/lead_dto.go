// Package dto contains Data Transfer Objects for API request and response structures
package dto

// LeadDTO represents a lead for API responses
type LeadDTO struct {
	ID          uint            `json:"id"`
	Company     string          `json:"company"`
	Contact     string          `json:"contact,omitempty"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Industry    string          `json:"industry,omitempty"`
	State       string          `json:"state,omitempty"`
	Website     string          `json:"website,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Comments    string          `json:"comments,omitempty"`
	DateAdded   string          `json:"date_added"`
	LastCalled  *string         `json:"last_called,omitempty"`
	CallOutcome *string         `json:"call_outcome,omitempty"`
	Meeting     *MeetingDataDTO `json:"meeting,omitempty"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// MeetingDataDTO represents scheduled meeting details attached to a lead
type MeetingDataDTO struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	Notes        string `json:"notes,omitempty"`
	CalendarLink string `json:"calendar_link,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// CreateLeadRequest represents the payload for creating a lead
type CreateLeadRequest struct {
	Company  string `json:"company" validate:"required,max=255"`
	Contact  string `json:"contact,omitempty" validate:"omitempty,max=255"`
	Email    string `json:"email,omitempty" validate:"omitempty,max=512"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=255"`
	Industry string `json:"industry,omitempty" validate:"omitempty,max=255"`
	State    string `json:"state,omitempty" validate:"omitempty,max=64"`
	Website  string `json:"website,omitempty" validate:"omitempty,max=512"`
	Comments string `json:"comments,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// CreateLeadResponse represents the response after creating a lead
type CreateLeadResponse struct {
	Message string  `json:"message"`
	Lead    LeadDTO `json:"lead"`
}

// UpdateLeadRequest represents a partial lead update; nil fields are untouched
type UpdateLeadRequest struct {
	Company  *string `json:"company,omitempty" validate:"omitempty,min=1,max=255"`
	Contact  *string `json:"contact,omitempty" validate:"omitempty,max=255"`
	Email    *string `json:"email,omitempty" validate:"omitempty,max=512"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=255"`
	Industry *string `json:"industry,omitempty" validate:"omitempty,max=255"`
	State    *string `json:"state,omitempty" validate:"omitempty,max=64"`
	Website  *string `json:"website,omitempty" validate:"omitempty,max=512"`
	Comments *string `json:"comments,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// UpdateLeadResponse represents the response after updating a lead
type UpdateLeadResponse struct {
	Message string  `json:"message"`
	Lead    LeadDTO `json:"lead"`
}

// ListLeadsRequest represents optional filters when listing leads
type ListLeadsRequest struct {
	Company     *string `query:"company" validate:"omitempty,max=255"`
	State       *string `query:"state" validate:"omitempty,max=64"`
	Industry    *string `query:"industry" validate:"omitempty,max=255"`
	CallOutcome *string `query:"call_outcome" validate:"omitempty,oneof=meeting_set receptionist not_interested voicemail spoke_w_contact no_answer"`
	NeverCalled *bool   `query:"never_called"`
	Search      *string `query:"search" validate:"omitempty,max=255"`
	Limit       int     `query:"limit" validate:"omitempty,min=0,max=1000"`
	Offset      int     `query:"offset" validate:"omitempty,min=0"`
}

// ListLeadsResponse represents a page of leads
type ListLeadsResponse struct {
	Message string    `json:"message"`
	Total   int64     `json:"total"`
	Leads   []LeadDTO `json:"leads"`
}

// DeleteLeadResponse represents the response after deleting a lead
type DeleteLeadResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

// RecordCallRequest represents the outcome of one finished call
type RecordCallRequest struct {
	Outcome      string  `json:"outcome" validate:"required,oneof=meeting_set receptionist not_interested voicemail spoke_w_contact no_answer"`
	Notes        string  `json:"notes,omitempty"`
	Duration     int     `json:"duration_seconds,omitempty" validate:"omitempty,min=0"`
	FollowUpDate *string `json:"follow_up_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	NextAction   string  `json:"next_action,omitempty" validate:"omitempty,max=255"`

	// Meeting fields, only honored when outcome is meeting_set
	MeetingDate         string `json:"meeting_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MeetingTime         string `json:"meeting_time,omitempty" validate:"omitempty,max=32"`
	MeetingNotes        string `json:"meeting_notes,omitempty"`
	MeetingCalendarLink string `json:"meeting_calendar_link,omitempty" validate:"omitempty,max=1024"`
}

// RecordCallResponse represents the updated lead and journal after a call
type RecordCallResponse struct {
	Message   string  `json:"message"`
	Lead      LeadDTO `json:"lead"`
	CallLogID string  `json:"call_log_id"`
}

// CallLogDTO represents one call history entry
type CallLogDTO struct {
	ID        string `json:"id"`
	LeadID    uint   `json:"lead_id"`
	LeadName  string `json:"lead_name"`
	Outcome   string `json:"outcome"`
	Notes     string `json:"notes,omitempty"`
	Timestamp string `json:"timestamp"`
	Duration  int    `json:"duration_seconds,omitempty"`
}

// ListCallLogsResponse represents a page of call history
type ListCallLogsResponse struct {
	Message string       `json:"message"`
	Total   int64        `json:"total"`
	Calls   []CallLogDTO `json:"calls"`
}
