package models

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallOutcomeValid(t *testing.T) {
	valid := []CallOutcome{
		CallOutcomeMeetingSet,
		CallOutcomeReceptionist,
		CallOutcomeNotInterested,
		CallOutcomeVoicemail,
		CallOutcomeSpokeWithContact,
		CallOutcomeNoAnswer,
	}
	for _, outcome := range valid {
		assert.True(t, outcome.Valid(), "expected %q to be valid", outcome)
	}

	assert.False(t, CallOutcome("").Valid())
	assert.False(t, CallOutcome("hung_up").Valid())
	assert.False(t, CallOutcome("MEETING_SET").Valid())
}

func TestCallOutcomeScanValue(t *testing.T) {
	t.Run("scan string and bytes", func(t *testing.T) {
		var outcome CallOutcome
		require.NoError(t, outcome.Scan("voicemail"))
		assert.Equal(t, CallOutcomeVoicemail, outcome)

		require.NoError(t, outcome.Scan([]byte("no_answer")))
		assert.Equal(t, CallOutcomeNoAnswer, outcome)

		require.NoError(t, outcome.Scan(nil))
		assert.Equal(t, CallOutcome(""), outcome)

		require.Error(t, outcome.Scan(42))
	})

	t.Run("value rejects invalid outcomes", func(t *testing.T) {
		v, err := CallOutcomeMeetingSet.Value()
		require.NoError(t, err)
		assert.Equal(t, "meeting_set", v)

		_, err = CallOutcome("bogus").Value()
		require.Error(t, err)
	})
}

func TestProspectStage(t *testing.T) {
	assert.True(t, ProspectStageUnreviewed.Valid())
	assert.True(t, ProspectStageFinalized.Valid())
	assert.True(t, ProspectStageUnqualified.Valid())
	assert.False(t, ProspectStage("reviewed").Valid())

	var stage ProspectStage
	require.NoError(t, stage.Scan("finalized"))
	assert.Equal(t, ProspectStageFinalized, stage)

	_, err := ProspectStage("limbo").Value()
	require.Error(t, err)
}

func TestProspectDecision(t *testing.T) {
	assert.True(t, ProspectDecisionApprove.Valid())
	assert.True(t, ProspectDecisionReject.Valid())
	assert.False(t, ProspectDecision("defer").Valid())

	var decision ProspectDecision
	require.NoError(t, decision.Scan([]byte("approve")))
	assert.Equal(t, ProspectDecisionApprove, decision)
}

func TestMeetingDataRoundTrip(t *testing.T) {
	meeting := MeetingData{
		Date:      "2025-04-01",
		Time:      "14:00",
		Notes:     "bring the deck",
		Status:    "scheduled",
		CreatedAt: "2025-03-20T10:00:00Z",
	}

	v, err := meeting.Value()
	require.NoError(t, err)

	var decoded MeetingData
	require.NoError(t, decoded.Scan(v))
	assert.Equal(t, meeting, decoded)

	var empty MeetingData
	require.NoError(t, empty.Scan(nil))
	assert.Equal(t, MeetingData{}, empty)

	require.Error(t, decoded.Scan(42))
}

func TestCustomQueueContainsLead(t *testing.T) {
	queue := CustomQueue{LeadIDs: pq.Int64Array{5, 9, 5}}

	assert.True(t, queue.ContainsLead(5))
	assert.True(t, queue.ContainsLead(9))
	assert.False(t, queue.ContainsLead(7))

	empty := CustomQueue{}
	assert.False(t, empty.ContainsLead(1))
}

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()

	assert.Equal(t, AppConfigID, cfg.ID)
	assert.Equal(t, 7, cfg.CallQueueDays)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Empty(t, cfg.SMTPServer)
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "leads", Lead{}.TableName())
	assert.Equal(t, "call_logs", CallLog{}.TableName())
	assert.Equal(t, "prospects", Prospect{}.TableName())
	assert.Equal(t, "custom_queues", CustomQueue{}.TableName())
	assert.Equal(t, "app_config", AppConfig{}.TableName())
	assert.Equal(t, "notepad", Notepad{}.TableName())
}
