package businessflow

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/models"
	"github.com/leadline/leadline/repository"
	"github.com/leadline/leadline/utils"
)

// QueueFlow defines custom queue management and queue resolution
type QueueFlow interface {
	CreateQueue(ctx context.Context, req *dto.CreateQueueRequest, metadata *ClientMetadata) (*dto.CreateQueueResponse, error)
	ListQueues(ctx context.Context) (*dto.ListQueuesResponse, error)
	UpdateQueue(ctx context.Context, id uint, req *dto.UpdateQueueRequest, metadata *ClientMetadata) (*dto.UpdateQueueResponse, error)
	DeleteQueue(ctx context.Context, id uint, metadata *ClientMetadata) (*dto.DeleteQueueResponse, error)
	ResolveQueue(ctx context.Context, queueID string) (*dto.ResolveQueueResponse, error)
}

// QueueFlowImpl implements QueueFlow
type QueueFlowImpl struct {
	queueRepo  repository.CustomQueueRepository
	leadRepo   repository.LeadRepository
	configRepo repository.AppConfigRepository
}

// NewQueueFlow creates a new queue flow
func NewQueueFlow(
	queueRepo repository.CustomQueueRepository,
	leadRepo repository.LeadRepository,
	configRepo repository.AppConfigRepository,
) QueueFlow {
	return &QueueFlowImpl{
		queueRepo:  queueRepo,
		leadRepo:   leadRepo,
		configRepo: configRepo,
	}
}

func (f *QueueFlowImpl) CreateQueue(ctx context.Context, req *dto.CreateQueueRequest, metadata *ClientMetadata) (*dto.CreateQueueResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, NewBusinessError("QUEUE_NAME_REQUIRED", "queue name is required", ErrQueueNameRequired)
	}

	queue := models.CustomQueue{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		LeadIDs:     toInt64Array(req.LeadIDs),
	}

	if err := f.queueRepo.Save(ctx, &queue); err != nil {
		return nil, NewBusinessError("QUEUE_SAVE_FAILED", "Failed to save queue", err)
	}

	return &dto.CreateQueueResponse{
		Message: "Queue created successfully",
		Queue:   ToCustomQueueDTO(queue),
	}, nil
}

func (f *QueueFlowImpl) ListQueues(ctx context.Context) (*dto.ListQueuesResponse, error) {
	queues, err := f.queueRepo.ByFilter(ctx, models.CustomQueueFilter{}, "id ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("QUEUE_LIST_FAILED", "Failed to list queues", err)
	}

	items := make([]dto.CustomQueueDTO, 0, len(queues))
	for _, queue := range queues {
		items = append(items, ToCustomQueueDTO(*queue))
	}

	return &dto.ListQueuesResponse{
		Message: "Queues retrieved",
		Queues:  items,
	}, nil
}

func (f *QueueFlowImpl) UpdateQueue(ctx context.Context, id uint, req *dto.UpdateQueueRequest, metadata *ClientMetadata) (*dto.UpdateQueueResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	queue, err := f.queueRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("QUEUE_LOOKUP_FAILED", "Failed to look up queue", err)
	}
	if queue == nil {
		return nil, NewBusinessError("QUEUE_NOT_FOUND", "Queue not found", ErrQueueNotFound)
	}

	changed := false
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, NewBusinessError("QUEUE_NAME_REQUIRED", "queue name is required", ErrQueueNameRequired)
		}
		queue.Name = strings.TrimSpace(*req.Name)
		changed = true
	}
	if req.Description != nil {
		queue.Description = *req.Description
		changed = true
	}
	if req.LeadIDs != nil {
		queue.LeadIDs = toInt64Array(*req.LeadIDs)
		changed = true
	}
	if !changed {
		return &dto.UpdateQueueResponse{Message: "Nothing to update", Queue: ToCustomQueueDTO(*queue)}, nil
	}

	if err := f.queueRepo.Update(ctx, queue); err != nil {
		return nil, NewBusinessError("QUEUE_UPDATE_FAILED", "Failed to update queue", err)
	}

	return &dto.UpdateQueueResponse{
		Message: "Queue updated successfully",
		Queue:   ToCustomQueueDTO(*queue),
	}, nil
}

func (f *QueueFlowImpl) DeleteQueue(ctx context.Context, id uint, metadata *ClientMetadata) (*dto.DeleteQueueResponse, error) {
	queue, err := f.queueRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("QUEUE_LOOKUP_FAILED", "Failed to look up queue", err)
	}
	if queue == nil {
		return nil, NewBusinessError("QUEUE_NOT_FOUND", "Queue not found", ErrQueueNotFound)
	}

	if err := f.queueRepo.Delete(ctx, id); err != nil {
		return nil, NewBusinessError("QUEUE_DELETE_FAILED", "Failed to delete queue", err)
	}

	return &dto.DeleteQueueResponse{
		Message: "Queue deleted",
		ID:      id,
	}, nil
}

// ResolveQueue returns the leads currently due for the named queue. The
// reserved id "default" selects every lead never called or last called
// before the configured cooldown window. A numeric id selects a custom
// queue whose leads are returned in stored order; ids pointing at deleted
// leads are silently dropped. A queue that no longer exists resolves to
// an empty list rather than an error.
func (f *QueueFlowImpl) ResolveQueue(ctx context.Context, queueID string) (*dto.ResolveQueueResponse, error) {
	if queueID == "" || queueID == utils.DefaultQueueID {
		return f.resolveDefaultQueue(ctx)
	}

	id, err := strconv.ParseUint(queueID, 10, 64)
	if err != nil {
		log.Printf("queue resolve: unknown queue id %q, returning empty queue", queueID)
		return emptyQueueResponse(queueID), nil
	}
	return f.resolveCustomQueue(ctx, uint(id))
}

func emptyQueueResponse(queueID string) *dto.ResolveQueueResponse {
	return &dto.ResolveQueueResponse{
		Message: "Queue resolved",
		QueueID: queueID,
		Leads:   []dto.LeadDTO{},
	}
}

func (f *QueueFlowImpl) resolveDefaultQueue(ctx context.Context) (*dto.ResolveQueueResponse, error) {
	days := utils.DefaultCallQueueDays
	cfg, err := f.configRepo.Get(ctx)
	if err != nil {
		return nil, NewBusinessError("CONFIG_LOOKUP_FAILED", "Failed to load settings", err)
	}
	if cfg != nil && cfg.CallQueueDays > 0 {
		days = cfg.CallQueueDays
	}

	cutoff := utils.UTCNow().AddDate(0, 0, -days)
	leads, err := f.leadRepo.ListUncalledSince(ctx, cutoff)
	if err != nil {
		return nil, NewBusinessError("QUEUE_RESOLVE_FAILED", "Failed to resolve default queue", err)
	}

	return &dto.ResolveQueueResponse{
		Message: "Queue resolved",
		QueueID: utils.DefaultQueueID,
		Leads:   ToLeadDTOs(leads),
	}, nil
}

func (f *QueueFlowImpl) resolveCustomQueue(ctx context.Context, id uint) (*dto.ResolveQueueResponse, error) {
	queue, err := f.queueRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("QUEUE_LOOKUP_FAILED", "Failed to look up queue", err)
	}
	if queue == nil {
		log.Printf("queue resolve: queue %d not found, returning empty queue", id)
		return emptyQueueResponse(strconv.FormatUint(uint64(id), 10)), nil
	}

	leads := make([]*models.Lead, 0, len(queue.LeadIDs))
	for _, leadID := range queue.LeadIDs {
		lead, err := f.leadRepo.ByID(ctx, uint(leadID))
		if err != nil {
			return nil, NewBusinessError("QUEUE_RESOLVE_FAILED", "Failed to resolve queue", err)
		}
		if lead == nil {
			continue
		}
		leads = append(leads, lead)
	}

	return &dto.ResolveQueueResponse{
		Message: "Queue resolved",
		QueueID: strconv.FormatUint(uint64(id), 10),
		Leads:   ToLeadDTOs(leads),
	}, nil
}

// LeadDue reports whether a lead belongs in the default queue for the
// given cutoff: never called, or last called before the cutoff.
func LeadDue(lead models.Lead, cutoff time.Time) bool {
	return lead.LastCalled == nil || lead.LastCalled.Before(cutoff)
}

func toInt64Array(ids []uint) pq.Int64Array {
	out := make(pq.Int64Array, 0, len(ids))
	for _, id := range ids {
		out = append(out, int64(id))
	}
	return out
}
