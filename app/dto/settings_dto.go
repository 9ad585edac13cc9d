package dto

// AppConfigDTO represents application settings for API responses
type AppConfigDTO struct {
	CallQueueDays int    `json:"call_queue_days"`
	SMTPServer    string `json:"smtp_server,omitempty"`
	SMTPPort      int    `json:"smtp_port,omitempty"`
	SMTPUser      string `json:"smtp_user,omitempty"`
}

// UpdateConfigRequest represents a partial settings update; nil fields are untouched
type UpdateConfigRequest struct {
	CallQueueDays *int    `json:"call_queue_days,omitempty" validate:"omitempty,min=1,max=365"`
	SMTPServer    *string `json:"smtp_server,omitempty" validate:"omitempty,max=255"`
	SMTPPort      *int    `json:"smtp_port,omitempty" validate:"omitempty,min=1,max=65535"`
	SMTPUser      *string `json:"smtp_user,omitempty" validate:"omitempty,max=255"`
	SMTPPass      *string `json:"smtp_pass,omitempty" validate:"omitempty,max=255"`
}

// ConfigResponse wraps the application settings
type ConfigResponse struct {
	Message string       `json:"message"`
	Config  AppConfigDTO `json:"config"`
}

// NotepadDTO represents the shared scratch notepad
type NotepadDTO struct {
	Content     string `json:"content"`
	LastUpdated string `json:"last_updated"`
}

// UpdateNotepadRequest replaces the notepad content
type UpdateNotepadRequest struct {
	Content string `json:"content" validate:"max=1000000"`
}

// NotepadResponse wraps the notepad
type NotepadResponse struct {
	Message string     `json:"message"`
	Notepad NotepadDTO `json:"notepad"`
}
