package businessflow

import (
	"context"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/models"
	"github.com/leadline/leadline/repository"
	"github.com/leadline/leadline/utils"
)

// SettingsFlow manages application settings and the shared notepad
type SettingsFlow interface {
	GetConfig(ctx context.Context) (*dto.ConfigResponse, error)
	UpdateConfig(ctx context.Context, req *dto.UpdateConfigRequest, metadata *ClientMetadata) (*dto.ConfigResponse, error)
	GetNotepad(ctx context.Context) (*dto.NotepadResponse, error)
	UpdateNotepad(ctx context.Context, req *dto.UpdateNotepadRequest, metadata *ClientMetadata) (*dto.NotepadResponse, error)
}

// SettingsFlowImpl implements SettingsFlow
type SettingsFlowImpl struct {
	configRepo  repository.AppConfigRepository
	notepadRepo repository.NotepadRepository
}

// NewSettingsFlow creates a new settings flow
func NewSettingsFlow(
	configRepo repository.AppConfigRepository,
	notepadRepo repository.NotepadRepository,
) SettingsFlow {
	return &SettingsFlowImpl{
		configRepo:  configRepo,
		notepadRepo: notepadRepo,
	}
}

func (f *SettingsFlowImpl) GetConfig(ctx context.Context) (*dto.ConfigResponse, error) {
	cfg, err := f.configRepo.Get(ctx)
	if err != nil {
		return nil, NewBusinessError("CONFIG_LOOKUP_FAILED", "Failed to load settings", err)
	}
	if cfg == nil {
		cfg = models.DefaultAppConfig()
	}

	return &dto.ConfigResponse{
		Message: "Settings retrieved",
		Config:  ToAppConfigDTO(*cfg),
	}, nil
}

func (f *SettingsFlowImpl) UpdateConfig(ctx context.Context, req *dto.UpdateConfigRequest, metadata *ClientMetadata) (*dto.ConfigResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	cfg, err := f.configRepo.Get(ctx)
	if err != nil {
		return nil, NewBusinessError("CONFIG_LOOKUP_FAILED", "Failed to load settings", err)
	}
	if cfg == nil {
		cfg = models.DefaultAppConfig()
	}

	if req.CallQueueDays != nil {
		cfg.CallQueueDays = *req.CallQueueDays
	}
	if req.SMTPServer != nil {
		cfg.SMTPServer = *req.SMTPServer
	}
	if req.SMTPPort != nil {
		cfg.SMTPPort = *req.SMTPPort
	}
	if req.SMTPUser != nil {
		cfg.SMTPUser = *req.SMTPUser
	}
	if req.SMTPPass != nil {
		cfg.SMTPPass = *req.SMTPPass
	}

	if err := f.configRepo.Save(ctx, cfg); err != nil {
		return nil, NewBusinessError("CONFIG_SAVE_FAILED", "Failed to save settings", err)
	}

	return &dto.ConfigResponse{
		Message: "Settings saved",
		Config:  ToAppConfigDTO(*cfg),
	}, nil
}

func (f *SettingsFlowImpl) GetNotepad(ctx context.Context) (*dto.NotepadResponse, error) {
	pad, err := f.notepadRepo.Get(ctx)
	if err != nil {
		return nil, NewBusinessError("NOTEPAD_LOOKUP_FAILED", "Failed to load notepad", err)
	}
	if pad == nil {
		pad = &models.Notepad{LastUpdated: utils.UTCNow()}
	}

	return &dto.NotepadResponse{
		Message: "Notepad retrieved",
		Notepad: ToNotepadDTO(*pad),
	}, nil
}

func (f *SettingsFlowImpl) UpdateNotepad(ctx context.Context, req *dto.UpdateNotepadRequest, metadata *ClientMetadata) (*dto.NotepadResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	pad := &models.Notepad{
		Content:     req.Content,
		LastUpdated: utils.UTCNow(),
	}
	if err := f.notepadRepo.Save(ctx, pad); err != nil {
		return nil, NewBusinessError("NOTEPAD_SAVE_FAILED", "Failed to save notepad", err)
	}

	return &dto.NotepadResponse{
		Message: "Notepad saved",
		Notepad: ToNotepadDTO(*pad),
	}, nil
}
