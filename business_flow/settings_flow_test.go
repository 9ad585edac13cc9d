package businessflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/models"
)

func intPtr(n int) *int { return &n }

func newSettingsFlowForTest() (*SettingsFlowImpl, *fakeConfigRepo, *fakeNotepadRepo) {
	configRepo := &fakeConfigRepo{}
	notepadRepo := &fakeNotepadRepo{}
	flow := &SettingsFlowImpl{configRepo: configRepo, notepadRepo: notepadRepo}
	return flow, configRepo, notepadRepo
}

func TestGetConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to defaults when unseeded", func(t *testing.T) {
		flow, _, _ := newSettingsFlowForTest()

		resp, err := flow.GetConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, 7, resp.Config.CallQueueDays)
	})

	t.Run("returns the stored row", func(t *testing.T) {
		flow, configRepo, _ := newSettingsFlowForTest()
		configRepo.cfg = &models.AppConfig{ID: models.AppConfigID, CallQueueDays: 21, SMTPServer: "mail.example"}

		resp, err := flow.GetConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, 21, resp.Config.CallQueueDays)
		assert.Equal(t, "mail.example", resp.Config.SMTPServer)
	})
}

func TestUpdateConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update preserves untouched fields", func(t *testing.T) {
		flow, configRepo, _ := newSettingsFlowForTest()
		configRepo.cfg = &models.AppConfig{
			ID:            models.AppConfigID,
			CallQueueDays: 30,
			SMTPServer:    "mail.example",
			SMTPPort:      587,
		}

		resp, err := flow.UpdateConfig(ctx, &dto.UpdateConfigRequest{CallQueueDays: intPtr(10)}, nil)
		require.NoError(t, err)
		assert.Equal(t, 10, resp.Config.CallQueueDays)
		assert.Equal(t, "mail.example", resp.Config.SMTPServer)

		assert.Equal(t, 587, configRepo.cfg.SMTPPort)
	})

	t.Run("first update seeds from defaults", func(t *testing.T) {
		flow, configRepo, _ := newSettingsFlowForTest()

		resp, err := flow.UpdateConfig(ctx, &dto.UpdateConfigRequest{SMTPServer: strPtr("smtp.example")}, nil)
		require.NoError(t, err)
		assert.Equal(t, 7, resp.Config.CallQueueDays)
		assert.Equal(t, "smtp.example", resp.Config.SMTPServer)
		require.NotNil(t, configRepo.cfg)
		assert.Equal(t, models.AppConfigID, configRepo.cfg.ID)
	})

	t.Run("nil request rejected", func(t *testing.T) {
		flow, _, _ := newSettingsFlowForTest()
		_, err := flow.UpdateConfig(ctx, nil, nil)
		require.Error(t, err)
	})
}

func TestNotepad(t *testing.T) {
	ctx := context.Background()

	t.Run("empty notepad before first save", func(t *testing.T) {
		flow, _, _ := newSettingsFlowForTest()

		resp, err := flow.GetNotepad(ctx)
		require.NoError(t, err)
		assert.Empty(t, resp.Notepad.Content)
		assert.NotEmpty(t, resp.Notepad.LastUpdated)
	})

	t.Run("save then read back", func(t *testing.T) {
		flow, _, _ := newSettingsFlowForTest()

		saved, err := flow.UpdateNotepad(ctx, &dto.UpdateNotepadRequest{Content: "call Dave after lunch"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "call Dave after lunch", saved.Notepad.Content)

		read, err := flow.GetNotepad(ctx)
		require.NoError(t, err)
		assert.Equal(t, "call Dave after lunch", read.Notepad.Content)
	})
}
