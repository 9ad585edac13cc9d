package dto

// CustomQueueDTO represents a saved custom call queue
type CustomQueueDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	LeadIDs     []uint `json:"lead_ids"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CreateQueueRequest represents the payload for creating a custom queue
type CreateQueueRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1024"`
	LeadIDs     []uint `json:"lead_ids" validate:"omitempty,dive,min=1"`
}

// CreateQueueResponse represents the response after creating a queue
type CreateQueueResponse struct {
	Message string         `json:"message"`
	Queue   CustomQueueDTO `json:"queue"`
}

// UpdateQueueRequest represents a partial queue update; nil fields are untouched
type UpdateQueueRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1024"`
	LeadIDs     *[]uint `json:"lead_ids,omitempty" validate:"omitempty,dive,min=1"`
}

// UpdateQueueResponse represents the response after updating a queue
type UpdateQueueResponse struct {
	Message string         `json:"message"`
	Queue   CustomQueueDTO `json:"queue"`
}

// ListQueuesResponse lists every saved custom queue
type ListQueuesResponse struct {
	Message string           `json:"message"`
	Queues  []CustomQueueDTO `json:"queues"`
}

// DeleteQueueResponse represents the response after deleting a queue
type DeleteQueueResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

// ResolveQueueResponse lists the leads currently due in a queue
type ResolveQueueResponse struct {
	Message string    `json:"message"`
	QueueID string    `json:"queue_id"`
	Leads   []LeadDTO `json:"leads"`
}
