package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadline/leadline/models"
)

func TestGetDashboard(t *testing.T) {
	ctx := context.Background()

	leadRepo := newFakeLeadRepo()
	callLogRepo := newFakeCallLogRepo()
	prospectRepo := newFakeProspectRepo()
	flow := &DashboardFlowImpl{
		leadRepo:     leadRepo,
		callLogRepo:  callLogRepo,
		prospectRepo: prospectRepo,
		configRepo:   &fakeConfigRepo{},
	}

	now := time.Now().UTC()
	recentCall := now.Add(-time.Hour)
	oldCall := now.AddDate(0, 0, -20)

	require.NoError(t, leadRepo.Save(ctx, &models.Lead{Company: "Uncalled Co"}))
	require.NoError(t, leadRepo.Save(ctx, &models.Lead{Company: "Called Recently", LastCalled: &recentCall}))
	require.NoError(t, leadRepo.Save(ctx, &models.Lead{Company: "Called Long Ago", LastCalled: &oldCall}))

	require.NoError(t, callLogRepo.Save(ctx, &models.CallLog{
		ID: "call-1", LeadID: 2, Outcome: models.CallOutcomeMeetingSet, Timestamp: now,
	}))
	require.NoError(t, callLogRepo.Save(ctx, &models.CallLog{
		ID: "call-2", LeadID: 3, Outcome: models.CallOutcomeVoicemail, Timestamp: now.AddDate(0, 0, -3),
	}))
	require.NoError(t, callLogRepo.Save(ctx, &models.CallLog{
		ID: "call-3", LeadID: 3, Outcome: models.CallOutcomeVoicemail, Timestamp: now.AddDate(0, 0, -20),
	}))

	require.NoError(t, prospectRepo.Save(ctx, &models.Prospect{Company: "P1", Stage: models.ProspectStageUnreviewed}))
	require.NoError(t, prospectRepo.Save(ctx, &models.Prospect{Company: "P2", Stage: models.ProspectStageFinalized}))

	resp, err := flow.GetDashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.TotalLeads)
	assert.Equal(t, int64(1), resp.LeadsNeverCalled)
	assert.Equal(t, int64(2), resp.LeadsDue)
	assert.Equal(t, int64(1), resp.CallsToday)
	assert.Equal(t, int64(2), resp.CallsThisWeek)
	assert.Equal(t, int64(1), resp.MeetingsSet)
	assert.NotEmpty(t, resp.GeneratedAt)

	counts := make(map[string]int64, len(resp.OutcomeCounts))
	for _, oc := range resp.OutcomeCounts {
		counts[oc.Outcome] = oc.Count
	}
	assert.Equal(t, int64(2), counts["voicemail"])
	assert.Equal(t, int64(1), counts["meeting_set"])
	assert.Equal(t, int64(0), counts["no_answer"])

	assert.Equal(t, int64(1), resp.Pipeline.Unreviewed)
	assert.Equal(t, int64(1), resp.Pipeline.Finalized)
	assert.Equal(t, int64(0), resp.Pipeline.Unqualified)
}

func TestGetDashboardEmptyDatabase(t *testing.T) {
	flow := &DashboardFlowImpl{
		leadRepo:     newFakeLeadRepo(),
		callLogRepo:  newFakeCallLogRepo(),
		prospectRepo: newFakeProspectRepo(),
		configRepo:   &fakeConfigRepo{},
	}

	resp, err := flow.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resp.TotalLeads)
	assert.Zero(t, resp.LeadsDue)
	assert.Len(t, resp.OutcomeCounts, 6)
}
