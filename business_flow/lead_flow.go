package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/models"
	"github.com/leadline/leadline/repository"
	"github.com/leadline/leadline/utils"
)

// LeadFlow defines operations on the lead book
type LeadFlow interface {
	CreateLead(ctx context.Context, req *dto.CreateLeadRequest, metadata *ClientMetadata) (*dto.CreateLeadResponse, error)
	GetLead(ctx context.Context, id uint) (*dto.LeadDTO, error)
	ListLeads(ctx context.Context, req *dto.ListLeadsRequest) (*dto.ListLeadsResponse, error)
	UpdateLead(ctx context.Context, id uint, req *dto.UpdateLeadRequest, metadata *ClientMetadata) (*dto.UpdateLeadResponse, error)
	DeleteLead(ctx context.Context, id uint, metadata *ClientMetadata) (*dto.DeleteLeadResponse, error)
	RecordCall(ctx context.Context, id uint, req *dto.RecordCallRequest, metadata *ClientMetadata) (*dto.RecordCallResponse, error)
	ListCalls(ctx context.Context, leadID *uint, limit, offset int) (*dto.ListCallLogsResponse, error)
}

// LeadFlowImpl implements LeadFlow
type LeadFlowImpl struct {
	leadRepo    repository.LeadRepository
	callLogRepo repository.CallLogRepository
	db          *gorm.DB
}

// NewLeadFlow creates a new lead flow
func NewLeadFlow(
	leadRepo repository.LeadRepository,
	callLogRepo repository.CallLogRepository,
	db *gorm.DB,
) LeadFlow {
	return &LeadFlowImpl{
		leadRepo:    leadRepo,
		callLogRepo: callLogRepo,
		db:          db,
	}
}

func (f *LeadFlowImpl) CreateLead(ctx context.Context, req *dto.CreateLeadRequest, metadata *ClientMetadata) (*dto.CreateLeadResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	if strings.TrimSpace(req.Company) == "" {
		return nil, NewBusinessError("COMPANY_REQUIRED", "company name is required", ErrCompanyRequired)
	}

	lead := models.Lead{
		Company:   strings.TrimSpace(req.Company),
		Contact:   req.Contact,
		Email:     req.Email,
		Phone:     req.Phone,
		Industry:  req.Industry,
		State:     req.State,
		Website:   req.Website,
		Comments:  req.Comments,
		Notes:     req.Notes,
		DateAdded: utils.UTCNow(),
	}

	if err := f.leadRepo.Save(ctx, &lead); err != nil {
		return nil, NewBusinessError("LEAD_SAVE_FAILED", "Failed to save lead", err)
	}

	return &dto.CreateLeadResponse{
		Message: "Lead created successfully",
		Lead:    ToLeadDTO(lead),
	}, nil
}

func (f *LeadFlowImpl) GetLead(ctx context.Context, id uint) (*dto.LeadDTO, error) {
	lead, err := f.leadRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to look up lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError("LEAD_NOT_FOUND", "Lead not found", ErrLeadNotFound)
	}
	out := ToLeadDTO(*lead)
	return &out, nil
}

func (f *LeadFlowImpl) ListLeads(ctx context.Context, req *dto.ListLeadsRequest) (*dto.ListLeadsResponse, error) {
	filter := models.LeadFilter{}
	if req != nil {
		filter.Company = req.Company
		filter.State = req.State
		filter.Industry = req.Industry
		filter.NeverCalled = req.NeverCalled
		filter.Search = req.Search
		if req.CallOutcome != nil {
			outcome := models.CallOutcome(*req.CallOutcome)
			if !outcome.Valid() {
				return nil, NewBusinessError("INVALID_CALL_OUTCOME", "invalid call outcome filter", ErrInvalidCallOutcome)
			}
			filter.CallOutcome = &outcome
		}
	}

	total, err := f.leadRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LEAD_LIST_FAILED", "Failed to count leads", err)
	}

	limit, offset := 0, 0
	if req != nil {
		limit, offset = req.Limit, req.Offset
	}
	leads, err := f.leadRepo.ByFilter(ctx, filter, "id ASC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("LEAD_LIST_FAILED", "Failed to list leads", err)
	}

	return &dto.ListLeadsResponse{
		Message: "Leads retrieved",
		Total:   total,
		Leads:   ToLeadDTOs(leads),
	}, nil
}

func (f *LeadFlowImpl) UpdateLead(ctx context.Context, id uint, req *dto.UpdateLeadRequest, metadata *ClientMetadata) (*dto.UpdateLeadResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	lead, err := f.leadRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to look up lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError("LEAD_NOT_FOUND", "Lead not found", ErrLeadNotFound)
	}

	changed := false
	if req.Company != nil {
		if strings.TrimSpace(*req.Company) == "" {
			return nil, NewBusinessError("COMPANY_REQUIRED", "company name is required", ErrCompanyRequired)
		}
		lead.Company = strings.TrimSpace(*req.Company)
		changed = true
	}
	if req.Contact != nil {
		lead.Contact = *req.Contact
		changed = true
	}
	if req.Email != nil {
		lead.Email = *req.Email
		changed = true
	}
	if req.Phone != nil {
		lead.Phone = *req.Phone
		changed = true
	}
	if req.Industry != nil {
		lead.Industry = *req.Industry
		changed = true
	}
	if req.State != nil {
		lead.State = *req.State
		changed = true
	}
	if req.Website != nil {
		lead.Website = *req.Website
		changed = true
	}
	if req.Comments != nil {
		lead.Comments = *req.Comments
		changed = true
	}
	if req.Notes != nil {
		lead.Notes = *req.Notes
		changed = true
	}
	if !changed {
		return &dto.UpdateLeadResponse{Message: "Nothing to update", Lead: ToLeadDTO(*lead)}, nil
	}

	if err := f.leadRepo.Update(ctx, lead); err != nil {
		return nil, NewBusinessError("LEAD_UPDATE_FAILED", "Failed to update lead", err)
	}

	return &dto.UpdateLeadResponse{
		Message: "Lead updated successfully",
		Lead:    ToLeadDTO(*lead),
	}, nil
}

func (f *LeadFlowImpl) DeleteLead(ctx context.Context, id uint, metadata *ClientMetadata) (*dto.DeleteLeadResponse, error) {
	lead, err := f.leadRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to look up lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError("LEAD_NOT_FOUND", "Lead not found", ErrLeadNotFound)
	}

	if err := f.leadRepo.Delete(ctx, id); err != nil {
		return nil, NewBusinessError("LEAD_DELETE_FAILED", "Failed to delete lead", err)
	}

	return &dto.DeleteLeadResponse{
		Message: "Lead deleted",
		ID:      id,
	}, nil
}

func (f *LeadFlowImpl) RecordCall(ctx context.Context, id uint, req *dto.RecordCallRequest, metadata *ClientMetadata) (*dto.RecordCallResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	outcome := models.CallOutcome(req.Outcome)
	if !outcome.Valid() {
		return nil, NewBusinessError("INVALID_CALL_OUTCOME", "invalid call outcome", ErrInvalidCallOutcome)
	}

	lead, err := f.leadRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to look up lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError("LEAD_NOT_FOUND", "Lead not found", ErrLeadNotFound)
	}

	now := utils.UTCNow()

	var meeting *models.MeetingData
	if outcome == models.CallOutcomeMeetingSet {
		if req.MeetingDate == "" || req.MeetingTime == "" {
			return nil, NewBusinessError("MEETING_DATETIME_REQUIRED", "meeting date and time are required when a meeting is set", ErrMeetingDateTimeRequired)
		}
		meeting = &models.MeetingData{
			Date:         req.MeetingDate,
			Time:         req.MeetingTime,
			Notes:        req.MeetingNotes,
			CalendarLink: req.MeetingCalendarLink,
			Status:       "scheduled",
			CreatedAt:    now.Format(time.RFC3339),
		}
	}

	entry := formatCallJournalEntry(now, outcome, req.Notes, meeting)
	notes := appendJournal(lead.Notes, entry)

	callLog := &models.CallLog{
		ID:         newCallLogID(now),
		LeadID:     lead.ID,
		LeadName:   lead.Company,
		Outcome:    outcome,
		Notes:      req.Notes,
		NextAction: req.NextAction,
		Timestamp:  now,
		Duration:   req.Duration,
	}
	if req.FollowUpDate != nil {
		if t, parseErr := time.Parse("2006-01-02", *req.FollowUpDate); parseErr == nil {
			callLog.FollowUpDate = &t
		}
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.leadRepo.RecordCall(txCtx, id, now, outcome, notes, meeting); err != nil {
			return err
		}
		return f.callLogRepo.Save(txCtx, callLog)
	})
	if err != nil {
		return nil, NewBusinessError("CALL_RECORD_FAILED", "Failed to record call", err)
	}

	updated, err := f.leadRepo.ByID(ctx, id)
	if err != nil || updated == nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to reload lead", err)
	}

	return &dto.RecordCallResponse{
		Message:   "Call recorded",
		Lead:      ToLeadDTO(*updated),
		CallLogID: callLog.ID,
	}, nil
}

func (f *LeadFlowImpl) ListCalls(ctx context.Context, leadID *uint, limit, offset int) (*dto.ListCallLogsResponse, error) {
	filter := models.CallLogFilter{LeadID: leadID}

	total, err := f.callLogRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CALL_LIST_FAILED", "Failed to count calls", err)
	}

	logs, err := f.callLogRepo.ByFilter(ctx, filter, "timestamp DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("CALL_LIST_FAILED", "Failed to list calls", err)
	}

	calls := make([]dto.CallLogDTO, 0, len(logs))
	for _, log := range logs {
		calls = append(calls, ToCallLogDTO(*log))
	}

	return &dto.ListCallLogsResponse{
		Message: "Calls retrieved",
		Total:   total,
		Calls:   calls,
	}, nil
}

// formatCallJournalEntry renders one journal line for the lead's notes:
//
//	2025-01-02T15:04:05Z [VOICEMAIL]: left message
//
// Meeting outcomes get Meeting/Agenda/Calendar continuation lines.
func formatCallJournalEntry(at time.Time, outcome models.CallOutcome, notes string, meeting *models.MeetingData) string {
	var b strings.Builder
	b.WriteString(at.Format(time.RFC3339))
	b.WriteString(" [")
	b.WriteString(strings.ToUpper(outcome.String()))
	b.WriteString("]: ")
	b.WriteString(notes)

	if meeting != nil {
		b.WriteString("\nMeeting: ")
		b.WriteString(meeting.Date)
		if meeting.Time != "" {
			b.WriteString(" at ")
			b.WriteString(meeting.Time)
		}
		if meeting.Notes != "" {
			b.WriteString("\nAgenda: ")
			b.WriteString(meeting.Notes)
		}
		if meeting.CalendarLink != "" {
			b.WriteString("\nCalendar: ")
			b.WriteString(meeting.CalendarLink)
		}
	}
	return b.String()
}

// appendJournal appends an entry to existing notes, blank-line separated
func appendJournal(existing, entry string) string {
	if strings.TrimSpace(existing) == "" {
		return entry
	}
	return existing + "\n\n" + entry
}

// newCallLogID builds a call log id. The uuid fragment keeps two calls
// recorded in the same millisecond from colliding.
func newCallLogID(at time.Time) string {
	return fmt.Sprintf("call-%d-%s", at.UnixMilli(), uuid.NewString()[:8])
}
