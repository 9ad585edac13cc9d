// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/leadline/leadline/models"
	"github.com/leadline/leadline/utils"
	"gorm.io/gorm"
)

// CustomQueueRepositoryImpl implements CustomQueueRepository interface
type CustomQueueRepositoryImpl struct {
	*BaseRepository[models.CustomQueue, models.CustomQueueFilter]
}

// NewCustomQueueRepository creates a new custom queue repository
func NewCustomQueueRepository(db *gorm.DB) CustomQueueRepository {
	return &CustomQueueRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CustomQueue, models.CustomQueueFilter](db),
	}
}

// List returns all custom queues in creation order
func (r *CustomQueueRepositoryImpl) List(ctx context.Context) ([]*models.CustomQueue, error) {
	db := r.getDB(ctx)

	var queues []*models.CustomQueue
	if err := db.Order("id ASC").Find(&queues).Error; err != nil {
		return nil, fmt.Errorf("failed to list custom queues: %w", err)
	}
	return queues, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *CustomQueueRepositoryImpl) applyFilter(query *gorm.DB, filter models.CustomQueueFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	return query
}

// ByFilter retrieves custom queues based on filter criteria
func (r *CustomQueueRepositoryImpl) ByFilter(ctx context.Context, filter models.CustomQueueFilter, orderBy string, limit, offset int) ([]*models.CustomQueue, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.CustomQueue{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var queues []*models.CustomQueue
	if err := query.Find(&queues).Error; err != nil {
		return nil, err
	}
	return queues, nil
}

// Count returns the number of custom queues matching the filter
func (r *CustomQueueRepositoryImpl) Count(ctx context.Context, filter models.CustomQueueFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.CustomQueue{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any custom queue matching the filter exists
func (r *CustomQueueRepositoryImpl) Exists(ctx context.Context, filter models.CustomQueueFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update overwrites a custom queue's name, description, and membership
func (r *CustomQueueRepositoryImpl) Update(ctx context.Context, queue *models.CustomQueue) error {
	if queue == nil {
		return errors.New("queue payload is nil")
	}
	if queue.ID == 0 {
		return errors.New("queue ID is required for update")
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	updates := map[string]any{
		"name":        queue.Name,
		"description": queue.Description,
		"lead_ids":    queue.LeadIDs,
		"updated_at":  utils.UTCNow(),
	}

	result := db.Model(&models.CustomQueue{}).
		Where("id = ?", queue.ID).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("custom queue not found with ID: %d", queue.ID)
	}
	return nil
}
