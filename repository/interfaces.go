// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/leadline/leadline/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// LeadRepository defines operations for leads
type LeadRepository interface {
	Repository[models.Lead, models.LeadFilter]
	List(ctx context.Context) ([]*models.Lead, error)
	Update(ctx context.Context, lead *models.Lead) error
	RecordCall(ctx context.Context, leadID uint, calledAt time.Time, outcome models.CallOutcome, notes string, meeting *models.MeetingData) error
	ListUncalledSince(ctx context.Context, threshold time.Time) ([]*models.Lead, error)
}

// ProspectRepository defines operations for prospects
type ProspectRepository interface {
	Repository[models.Prospect, models.ProspectFilter]
	List(ctx context.Context) ([]*models.Prospect, error)
	ListByStage(ctx context.Context, stage models.ProspectStage) ([]*models.Prospect, error)
	Update(ctx context.Context, prospect *models.Prospect) error
	CountByStage(ctx context.Context) (map[models.ProspectStage]int64, error)
}

// CustomQueueRepository defines operations for custom call queues
type CustomQueueRepository interface {
	Repository[models.CustomQueue, models.CustomQueueFilter]
	List(ctx context.Context) ([]*models.CustomQueue, error)
	Update(ctx context.Context, queue *models.CustomQueue) error
}

// CallLogRepository defines operations for call logs. Call logs are
// append-only: there is no update or delete beyond the generic Delete,
// which normal flows never invoke.
type CallLogRepository interface {
	ByID(ctx context.Context, id string) (*models.CallLog, error)
	ByFilter(ctx context.Context, filter models.CallLogFilter, orderBy string, limit, offset int) ([]*models.CallLog, error)
	Save(ctx context.Context, entry *models.CallLog) error
	List(ctx context.Context) ([]*models.CallLog, error)
	ListByLead(ctx context.Context, leadID uint) ([]*models.CallLog, error)
	Count(ctx context.Context, filter models.CallLogFilter) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

// AppConfigRepository defines operations for the singleton config record
type AppConfigRepository interface {
	Get(ctx context.Context) (*models.AppConfig, error)
	Save(ctx context.Context, cfg *models.AppConfig) error
}

// NotepadRepository defines operations for the singleton notepad record
type NotepadRepository interface {
	Get(ctx context.Context) (*models.Notepad, error)
	Save(ctx context.Context, pad *models.Notepad) error
}
