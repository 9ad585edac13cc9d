// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leadline/leadline/models"
	"gorm.io/gorm"
)

// CallLogRepositoryImpl implements CallLogRepository. Call logs use a
// string primary key, so it does not embed BaseRepository.
type CallLogRepositoryImpl struct {
	DB *gorm.DB
}

// NewCallLogRepository creates a new call log repository
func NewCallLogRepository(db *gorm.DB) CallLogRepository {
	return &CallLogRepositoryImpl{DB: db}
}

func (r *CallLogRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.DB
}

// ByID retrieves a call log entry by its string id
func (r *CallLogRepositoryImpl) ByID(ctx context.Context, id string) (*models.CallLog, error) {
	db := r.getDB(ctx)

	var entry models.CallLog
	err := db.Where("id = ?", id).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find call log %s: %w", id, err)
	}
	return &entry, nil
}

// Save appends a new call log entry
func (r *CallLogRepositoryImpl) Save(ctx context.Context, entry *models.CallLog) error {
	db := r.getDB(ctx)
	if err := db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to save call log: %w", err)
	}
	return nil
}

// List returns all call logs, most recent first
func (r *CallLogRepositoryImpl) List(ctx context.Context) ([]*models.CallLog, error) {
	db := r.getDB(ctx)

	var entries []*models.CallLog
	if err := db.Order("timestamp DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list call logs: %w", err)
	}
	return entries, nil
}

// ListByLead returns all call logs recorded against a lead, most recent first
func (r *CallLogRepositoryImpl) ListByLead(ctx context.Context, leadID uint) ([]*models.CallLog, error) {
	filter := models.CallLogFilter{LeadID: &leadID}
	return r.ByFilter(ctx, filter, "timestamp DESC", 0, 0)
}

// applyFilter applies filter criteria to a GORM query
func (r *CallLogRepositoryImpl) applyFilter(query *gorm.DB, filter models.CallLogFilter) *gorm.DB {
	if filter.LeadID != nil {
		query = query.Where("lead_id = ?", *filter.LeadID)
	}
	if filter.Outcome != nil {
		query = query.Where("outcome = ?", *filter.Outcome)
	}
	if filter.Since != nil {
		query = query.Where("timestamp >= ?", *filter.Since)
	}
	if filter.Until != nil {
		query = query.Where("timestamp < ?", *filter.Until)
	}
	return query
}

// ByFilter retrieves call logs based on filter criteria
func (r *CallLogRepositoryImpl) ByFilter(ctx context.Context, filter models.CallLogFilter, orderBy string, limit, offset int) ([]*models.CallLog, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.CallLog{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "timestamp DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var entries []*models.CallLog
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of call logs matching the filter
func (r *CallLogRepositoryImpl) Count(ctx context.Context, filter models.CallLogFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.CallLog{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountSince returns the number of calls logged at or after the given instant
func (r *CallLogRepositoryImpl) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return r.Count(ctx, models.CallLogFilter{Since: &since})
}
