// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leadline/leadline/models"
	"github.com/leadline/leadline/utils"
	"gorm.io/gorm"
)

// LeadRepositoryImpl implements LeadRepository interface
type LeadRepositoryImpl struct {
	*BaseRepository[models.Lead, models.LeadFilter]
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &LeadRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Lead, models.LeadFilter](db),
	}
}

// List returns all leads in insertion order
func (r *LeadRepositoryImpl) List(ctx context.Context) ([]*models.Lead, error) {
	db := r.getDB(ctx)

	var leads []*models.Lead
	if err := db.Order("id ASC").Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *LeadRepositoryImpl) applyFilter(query *gorm.DB, filter models.LeadFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Company != nil {
		query = query.Where("company = ?", *filter.Company)
	}
	if filter.State != nil {
		query = query.Where("state = ?", *filter.State)
	}
	if filter.Industry != nil {
		query = query.Where("industry = ?", *filter.Industry)
	}
	if filter.CallOutcome != nil {
		query = query.Where("call_outcome = ?", *filter.CallOutcome)
	}
	if filter.NeverCalled != nil {
		if *filter.NeverCalled {
			query = query.Where("last_called IS NULL")
		} else {
			query = query.Where("last_called IS NOT NULL")
		}
	}
	if filter.CalledBefore != nil {
		query = query.Where("last_called < ?", *filter.CalledBefore)
	}
	if filter.CalledAfter != nil {
		query = query.Where("last_called > ?", *filter.CalledAfter)
	}
	if filter.AddedAfter != nil {
		query = query.Where("date_added > ?", *filter.AddedAfter)
	}
	if filter.Search != nil {
		pattern := "%" + *filter.Search + "%"
		query = query.Where("company ILIKE ? OR contact ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}
	return query
}

// ByFilter retrieves leads based on filter criteria
func (r *LeadRepositoryImpl) ByFilter(ctx context.Context, filter models.LeadFilter, orderBy string, limit, offset int) ([]*models.Lead, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Lead{})

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

	var leads []*models.Lead
	if err := query.Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// Count returns the number of leads matching the filter
func (r *LeadRepositoryImpl) Count(ctx context.Context, filter models.LeadFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Lead{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any lead matching the filter exists
func (r *LeadRepositoryImpl) Exists(ctx context.Context, filter models.LeadFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update overwrites the mutable fields of a lead by ID
func (r *LeadRepositoryImpl) Update(ctx context.Context, lead *models.Lead) error {
	if lead == nil {
		return errors.New("lead payload is nil")
	}
	if lead.ID == 0 {
		return errors.New("lead ID is required for update")
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
		"company":    lead.Company,
		"contact":    lead.Contact,
		"email":      lead.Email,
		"phone":      lead.Phone,
		"industry":   lead.Industry,
		"state":      lead.State,
		"website":    lead.Website,
		"notes":      lead.Notes,
		"comments":   lead.Comments,
		"updated_at": utils.UTCNow(),
	}

	result := db.Model(&models.Lead{}).
		Where("id = ?", lead.ID).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("lead not found with ID: %d", lead.ID)
	}
	return nil
}

// RecordCall stamps the outcome of a completed call onto a lead.
// last_called and call_outcome are always written together here and
// nowhere else.
func (r *LeadRepositoryImpl) RecordCall(ctx context.Context, leadID uint, calledAt time.Time, outcome models.CallOutcome, notes string, meeting *models.MeetingData) error {
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
		"last_called":  calledAt,
		"call_outcome": outcome,
		"notes":        notes,
		"updated_at":   utils.UTCNow(),
	}
	if meeting != nil {
		updates["meeting"] = meeting
	}

	result := db.Model(&models.Lead{}).
		Where("id = ?", leadID).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("lead not found with ID: %d", leadID)
	}
	return nil
}

// ListUncalledSince returns leads never called or last called before the threshold
func (r *LeadRepositoryImpl) ListUncalledSince(ctx context.Context, threshold time.Time) ([]*models.Lead, error) {
	db := r.getDB(ctx)

	var leads []*models.Lead
	err := db.Where("last_called IS NULL OR last_called < ?", threshold).
		Order("id ASC").
		Find(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list uncalled leads: %w", err)
	}
	return leads, nil
}
