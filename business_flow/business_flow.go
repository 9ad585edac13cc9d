// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToLeadDTO converts a lead model to its API representation
func ToLeadDTO(lead models.Lead) dto.LeadDTO {
	out := dto.LeadDTO{
		ID:        lead.ID,
		Company:   lead.Company,
		Contact:   lead.Contact,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Industry:  lead.Industry,
		State:     lead.State,
		Website:   lead.Website,
		Notes:     lead.Notes,
		Comments:  lead.Comments,
		DateAdded: lead.DateAdded.Format(time.RFC3339),
		CreatedAt: lead.CreatedAt.Format(time.RFC3339),
		UpdatedAt: lead.UpdatedAt.Format(time.RFC3339),
	}
	if lead.LastCalled != nil {
		s := lead.LastCalled.Format(time.RFC3339)
		out.LastCalled = &s
	}
	if lead.CallOutcome != nil {
		s := lead.CallOutcome.String()
		out.CallOutcome = &s
	}
	if lead.Meeting != nil {
		out.Meeting = &dto.MeetingDataDTO{
			Date:         lead.Meeting.Date,
			Time:         lead.Meeting.Time,
			Notes:        lead.Meeting.Notes,
			CalendarLink: lead.Meeting.CalendarLink,
			Status:       lead.Meeting.Status,
			CreatedAt:    lead.Meeting.CreatedAt,
		}
	}
	return out
}

// ToLeadDTOs converts a slice of lead models
func ToLeadDTOs(leads []*models.Lead) []dto.LeadDTO {
	out := make([]dto.LeadDTO, 0, len(leads))
	for _, lead := range leads {
		out = append(out, ToLeadDTO(*lead))
	}
	return out
}

// ToProspectDTO converts a prospect model to its API representation
func ToProspectDTO(prospect models.Prospect) dto.ProspectDTO {
	out := dto.ProspectDTO{
		ID:        prospect.ID,
		Company:   prospect.Company,
		Website:   prospect.Website,
		State:     prospect.State,
		Service:   prospect.Service,
		Industry:  prospect.Industry,
		Revenue:   prospect.Revenue,
		Employees: prospect.Employees,
		Contact:   prospect.Contact,
		Email:     prospect.Email,
		Phone:     prospect.Phone,
		Notes:     prospect.Notes,
		Source:    prospect.Source,
		Reason:    prospect.Reason,
		Stage:     prospect.Stage.String(),
		DateAdded: prospect.DateAdded.Format(time.RFC3339),
	}
	if prospect.Decision != nil {
		s := prospect.Decision.String()
		out.Decision = &s
	}
	return out
}

// ToCustomQueueDTO converts a custom queue model to its API representation
func ToCustomQueueDTO(queue models.CustomQueue) dto.CustomQueueDTO {
	leadIDs := make([]uint, 0, len(queue.LeadIDs))
	for _, id := range queue.LeadIDs {
		leadIDs = append(leadIDs, uint(id))
	}
	return dto.CustomQueueDTO{
		ID:          queue.ID,
		Name:        queue.Name,
		Description: queue.Description,
		LeadIDs:     leadIDs,
		CreatedAt:   queue.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   queue.UpdatedAt.Format(time.RFC3339),
	}
}

// ToCallLogDTO converts a call log model to its API representation
func ToCallLogDTO(log models.CallLog) dto.CallLogDTO {
	return dto.CallLogDTO{
		ID:        log.ID,
		LeadID:    log.LeadID,
		LeadName:  log.LeadName,
		Outcome:   log.Outcome.String(),
		Notes:     log.Notes,
		Timestamp: log.Timestamp.Format(time.RFC3339),
		Duration:  log.Duration,
	}
}

// ToAppConfigDTO converts application settings to its API representation.
// The SMTP password never leaves the server.
func ToAppConfigDTO(cfg models.AppConfig) dto.AppConfigDTO {
	return dto.AppConfigDTO{
		CallQueueDays: cfg.CallQueueDays,
		SMTPServer:    cfg.SMTPServer,
		SMTPPort:      cfg.SMTPPort,
		SMTPUser:      cfg.SMTPUser,
	}
}

// ToNotepadDTO converts the notepad model to its API representation
func ToNotepadDTO(pad models.Notepad) dto.NotepadDTO {
	return dto.NotepadDTO{
		Content:     pad.Content,
		LastUpdated: pad.LastUpdated.Format(time.RFC3339),
	}
}
