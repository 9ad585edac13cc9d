package businessflow

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/models"
)

func newLeadFlowForTest() (*LeadFlowImpl, *fakeLeadRepo, *fakeCallLogRepo) {
	leadRepo := newFakeLeadRepo()
	callLogRepo := newFakeCallLogRepo()
	flow := &LeadFlowImpl{leadRepo: leadRepo, callLogRepo: callLogRepo}
	return flow, leadRepo, callLogRepo
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestCreateLead(t *testing.T) {
	ctx := context.Background()

	t.Run("creates lead with trimmed company", func(t *testing.T) {
		flow, leadRepo, _ := newLeadFlowForTest()

		resp, err := flow.CreateLead(ctx, &dto.CreateLeadRequest{
			Company: "  Acme Plumbing  ",
			Contact: "Jane Smith",
			Email:   "jane@acme.example",
			State:   "TX",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Acme Plumbing", resp.Lead.Company)
		assert.NotZero(t, resp.Lead.ID)

		stored, err := leadRepo.ByID(ctx, resp.Lead.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "Jane Smith", stored.Contact)
		assert.Nil(t, stored.LastCalled)
		assert.False(t, stored.DateAdded.IsZero())
	})

	t.Run("rejects blank company", func(t *testing.T) {
		flow, _, _ := newLeadFlowForTest()

		_, err := flow.CreateLead(ctx, &dto.CreateLeadRequest{Company: "   "}, nil)
		require.Error(t, err)
		var bizErr *BusinessError
		require.ErrorAs(t, err, &bizErr)
		assert.Equal(t, "COMPANY_REQUIRED", bizErr.Code)
	})

	t.Run("rejects nil request", func(t *testing.T) {
		flow, _, _ := newLeadFlowForTest()

		_, err := flow.CreateLead(ctx, nil, nil)
		require.Error(t, err)
	})
}

func TestGetLead(t *testing.T) {
	ctx := context.Background()
	flow, leadRepo, _ := newLeadFlowForTest()

	lead := &models.Lead{Company: "Summit HVAC", DateAdded: time.Now().UTC()}
	require.NoError(t, leadRepo.Save(ctx, lead))

	t.Run("returns stored lead", func(t *testing.T) {
		got, err := flow.GetLead(ctx, lead.ID)
		require.NoError(t, err)
		assert.Equal(t, "Summit HVAC", got.Company)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := flow.GetLead(ctx, 999)
		require.Error(t, err)
		var bizErr *BusinessError
		require.ErrorAs(t, err, &bizErr)
		assert.Equal(t, "LEAD_NOT_FOUND", bizErr.Code)
	})
}

func TestListLeads(t *testing.T) {
	ctx := context.Background()
	flow, leadRepo, _ := newLeadFlowForTest()

	called := time.Now().UTC().Add(-24 * time.Hour)
	voicemail := models.CallOutcomeVoicemail
	require.NoError(t, leadRepo.Save(ctx, &models.Lead{Company: "Fresh Leads Inc"}))
	require.NoError(t, leadRepo.Save(ctx, &models.Lead{
		Company:     "Called Before LLC",
		LastCalled:  &called,
		CallOutcome: &voicemail,
	}))

	t.Run("no filters returns everything", func(t *testing.T) {
		resp, err := flow.ListLeads(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
		assert.Len(t, resp.Leads, 2)
	})

	t.Run("never called filter", func(t *testing.T) {
		resp, err := flow.ListLeads(ctx, &dto.ListLeadsRequest{NeverCalled: boolPtr(true)})
		require.NoError(t, err)
		require.Len(t, resp.Leads, 1)
		assert.Equal(t, "Fresh Leads Inc", resp.Leads[0].Company)
	})

	t.Run("outcome filter", func(t *testing.T) {
		resp, err := flow.ListLeads(ctx, &dto.ListLeadsRequest{CallOutcome: strPtr("voicemail")})
		require.NoError(t, err)
		require.Len(t, resp.Leads, 1)
		assert.Equal(t, "Called Before LLC", resp.Leads[0].Company)
	})

	t.Run("bogus outcome filter rejected", func(t *testing.T) {
		_, err := flow.ListLeads(ctx, &dto.ListLeadsRequest{CallOutcome: strPtr("hung_up_politely")})
		require.Error(t, err)
		assert.True(t, IsInvalidCallOutcome(err))
	})

	t.Run("pagination", func(t *testing.T) {
		resp, err := flow.ListLeads(ctx, &dto.ListLeadsRequest{Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
		assert.Len(t, resp.Leads, 1)
	})
}

func TestUpdateLead(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		flow, leadRepo, _ := newLeadFlowForTest()
		lead := &models.Lead{Company: "Old Name", Contact: "Pat", Phone: "555-0100"}
		require.NoError(t, leadRepo.Save(ctx, lead))

		resp, err := flow.UpdateLead(ctx, lead.ID, &dto.UpdateLeadRequest{
			Company: strPtr("New Name"),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "New Name", resp.Lead.Company)

		stored, _ := leadRepo.ByID(ctx, lead.ID)
		assert.Equal(t, "Pat", stored.Contact)
		assert.Equal(t, "555-0100", stored.Phone)
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		flow, leadRepo, _ := newLeadFlowForTest()
		lead := &models.Lead{Company: "Steady Co"}
		require.NoError(t, leadRepo.Save(ctx, lead))

		resp, err := flow.UpdateLead(ctx, lead.ID, &dto.UpdateLeadRequest{}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Nothing to update", resp.Message)
	})

	t.Run("blank company rejected", func(t *testing.T) {
		flow, leadRepo, _ := newLeadFlowForTest()
		lead := &models.Lead{Company: "Keep Me"}
		require.NoError(t, leadRepo.Save(ctx, lead))

		_, err := flow.UpdateLead(ctx, lead.ID, &dto.UpdateLeadRequest{Company: strPtr(" ")}, nil)
		require.Error(t, err)

		stored, _ := leadRepo.ByID(ctx, lead.ID)
		assert.Equal(t, "Keep Me", stored.Company)
	})

	t.Run("unknown lead", func(t *testing.T) {
		flow, _, _ := newLeadFlowForTest()
		_, err := flow.UpdateLead(ctx, 42, &dto.UpdateLeadRequest{Company: strPtr("X")}, nil)
		require.Error(t, err)
		assert.True(t, IsLeadNotFound(err))
	})
}

func TestDeleteLead(t *testing.T) {
	ctx := context.Background()
	flow, leadRepo, _ := newLeadFlowForTest()

	lead := &models.Lead{Company: "Doomed Corp"}
	require.NoError(t, leadRepo.Save(ctx, lead))

	resp, err := flow.DeleteLead(ctx, lead.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, resp.ID)

	gone, err := leadRepo.ByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	_, err = flow.DeleteLead(ctx, lead.ID, nil)
	require.Error(t, err)
	assert.True(t, IsLeadNotFound(err))
}

func TestRecordCallValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid outcome", func(t *testing.T) {
		flow, leadRepo, _ := newLeadFlowForTest()
		lead := &models.Lead{Company: "Call Target"}
		require.NoError(t, leadRepo.Save(ctx, lead))

		_, err := flow.RecordCall(ctx, lead.ID, &dto.RecordCallRequest{Outcome: "ghosted"}, nil)
		require.Error(t, err)
		assert.True(t, IsInvalidCallOutcome(err))
	})

	t.Run("unknown lead", func(t *testing.T) {
		flow, _, _ := newLeadFlowForTest()
		_, err := flow.RecordCall(ctx, 7, &dto.RecordCallRequest{Outcome: "voicemail"}, nil)
		require.Error(t, err)
		assert.True(t, IsLeadNotFound(err))
	})

	t.Run("meeting without a date", func(t *testing.T) {
		flow, leadRepo, _ := newLeadFlowForTest()
		lead := &models.Lead{Company: "Meeting Co"}
		require.NoError(t, leadRepo.Save(ctx, lead))

		_, err := flow.RecordCall(ctx, lead.ID, &dto.RecordCallRequest{Outcome: "meeting_set"}, nil)
		require.Error(t, err)
		var bizErr *BusinessError
		require.ErrorAs(t, err, &bizErr)
		assert.Equal(t, "MEETING_DATETIME_REQUIRED", bizErr.Code)
	})

	t.Run("meeting with a date but no time", func(t *testing.T) {
		flow, leadRepo, _ := newLeadFlowForTest()
		lead := &models.Lead{Company: "Meeting Co"}
		require.NoError(t, leadRepo.Save(ctx, lead))

		_, err := flow.RecordCall(ctx, lead.ID, &dto.RecordCallRequest{
			Outcome:     "meeting_set",
			MeetingDate: "2025-09-12",
		}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMeetingDateTimeRequired)
	})
}

func TestNewCallLogID(t *testing.T) {
	at := time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)

	first := newCallLogID(at)
	second := newCallLogID(at)

	prefix := fmt.Sprintf("call-%d-", at.UnixMilli())
	assert.True(t, strings.HasPrefix(first, prefix))
	assert.True(t, strings.HasPrefix(second, prefix))
	assert.NotEqual(t, first, second)
}

func TestListCalls(t *testing.T) {
	ctx := context.Background()
	flow, _, callLogRepo := newLeadFlowForTest()

	now := time.Now().UTC()
	require.NoError(t, callLogRepo.Save(ctx, &models.CallLog{
		ID: "call-1", LeadID: 1, LeadName: "A", Outcome: models.CallOutcomeVoicemail, Timestamp: now,
	}))
	require.NoError(t, callLogRepo.Save(ctx, &models.CallLog{
		ID: "call-2", LeadID: 2, LeadName: "B", Outcome: models.CallOutcomeNoAnswer, Timestamp: now,
	}))

	t.Run("all calls", func(t *testing.T) {
		resp, err := flow.ListCalls(ctx, nil, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
	})

	t.Run("scoped to one lead", func(t *testing.T) {
		leadID := uint(2)
		resp, err := flow.ListCalls(ctx, &leadID, 0, 0)
		require.NoError(t, err)
		require.Len(t, resp.Calls, 1)
		assert.Equal(t, "call-2", resp.Calls[0].ID)
	})
}

func TestFormatCallJournalEntry(t *testing.T) {
	at := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	t.Run("plain outcome", func(t *testing.T) {
		entry := formatCallJournalEntry(at, models.CallOutcomeVoicemail, "left a message", nil)
		assert.Equal(t, "2025-03-10T14:30:00Z [VOICEMAIL]: left a message", entry)
	})

	t.Run("meeting with all details", func(t *testing.T) {
		entry := formatCallJournalEntry(at, models.CallOutcomeMeetingSet, "great call", &models.MeetingData{
			Date:         "2025-03-14",
			Time:         "10:00",
			Notes:        "demo the dashboard",
			CalendarLink: "https://cal.example/abc",
		})
		lines := strings.Split(entry, "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "2025-03-10T14:30:00Z [MEETING_SET]: great call", lines[0])
		assert.Equal(t, "Meeting: 2025-03-14 at 10:00", lines[1])
		assert.Equal(t, "Agenda: demo the dashboard", lines[2])
		assert.Equal(t, "Calendar: https://cal.example/abc", lines[3])
	})

	t.Run("meeting without time or extras", func(t *testing.T) {
		entry := formatCallJournalEntry(at, models.CallOutcomeMeetingSet, "", &models.MeetingData{Date: "2025-03-14"})
		assert.Equal(t, "2025-03-10T14:30:00Z [MEETING_SET]: \nMeeting: 2025-03-14", entry)
	})
}

func TestAppendJournal(t *testing.T) {
	assert.Equal(t, "first entry", appendJournal("", "first entry"))
	assert.Equal(t, "first entry", appendJournal("   ", "first entry"))
	assert.Equal(t, "old\n\nnew", appendJournal("old", "new"))
}
