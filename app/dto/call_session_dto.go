package dto

// StartSessionRequest begins a call session over a queue
type StartSessionRequest struct {
	QueueID string `json:"queue_id" validate:"required,max=64"`
}

// SessionStateDTO represents the cursor state of a live call session
type SessionStateDTO struct {
	SessionID   string   `json:"session_id"`
	QueueID     string   `json:"queue_id"`
	Position    int      `json:"position"`
	Total       int      `json:"total"`
	CurrentLead *LeadDTO `json:"current_lead,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	StartedAt   string   `json:"started_at"`
}

// SessionResponse wraps a session state
type SessionResponse struct {
	Message string          `json:"message"`
	Session SessionStateDTO `json:"session"`
}

// SessionNotesRequest updates the scratch notes for the current call
type SessionNotesRequest struct {
	Notes string `json:"notes"`
}

// CompleteCallRequest finishes the current call in a session. The outcome
// is recorded against the lead and the cursor cycles to the next lead.
type CompleteCallRequest struct {
	RecordCallRequest
}

// CompleteCallResponse returns the updated session after recording a call
type CompleteCallResponse struct {
	Message   string          `json:"message"`
	CallLogID string          `json:"call_log_id"`
	Session   SessionStateDTO `json:"session"`
}
