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

// ProspectRepositoryImpl implements ProspectRepository interface
type ProspectRepositoryImpl struct {
	*BaseRepository[models.Prospect, models.ProspectFilter]
}

// NewProspectRepository creates a new prospect repository
func NewProspectRepository(db *gorm.DB) ProspectRepository {
	return &ProspectRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Prospect, models.ProspectFilter](db),
	}
}

// List returns all prospects in insertion order
func (r *ProspectRepositoryImpl) List(ctx context.Context) ([]*models.Prospect, error) {
	db := r.getDB(ctx)

	var prospects []*models.Prospect
	if err := db.Order("id ASC").Find(&prospects).Error; err != nil {
		return nil, fmt.Errorf("failed to list prospects: %w", err)
	}
	return prospects, nil
}

// ListByStage returns prospects in the given pipeline stage
func (r *ProspectRepositoryImpl) ListByStage(ctx context.Context, stage models.ProspectStage) ([]*models.Prospect, error) {
	filter := models.ProspectFilter{Stage: &stage}
	return r.ByFilter(ctx, filter, "id ASC", 0, 0)
}

// applyFilter applies filter criteria to a GORM query
func (r *ProspectRepositoryImpl) applyFilter(query *gorm.DB, filter models.ProspectFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Company != nil {
		query = query.Where("company = ?", *filter.Company)
	}
	if filter.Stage != nil {
		query = query.Where("stage = ?", *filter.Stage)
	}
	if filter.Decision != nil {
		query = query.Where("decision = ?", *filter.Decision)
	}
	if filter.State != nil {
		query = query.Where("state = ?", *filter.State)
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		query = query.Where("company ILIKE ? OR contact ILIKE ?", pattern, pattern)
	}
	return query
}

// ByFilter retrieves prospects based on filter criteria
func (r *ProspectRepositoryImpl) ByFilter(ctx context.Context, filter models.ProspectFilter, orderBy string, limit, offset int) ([]*models.Prospect, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Prospect{})

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

	var prospects []*models.Prospect
	if err := query.Find(&prospects).Error; err != nil {
		return nil, err
	}
	return prospects, nil
}

// Count returns the number of prospects matching the filter
func (r *ProspectRepositoryImpl) Count(ctx context.Context, filter models.ProspectFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Prospect{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any prospect matching the filter exists
func (r *ProspectRepositoryImpl) Exists(ctx context.Context, filter models.ProspectFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByStage returns prospect totals per pipeline stage
func (r *ProspectRepositoryImpl) CountByStage(ctx context.Context) (map[models.ProspectStage]int64, error) {
	db := r.getDB(ctx)

	type stageCount struct {
		Stage models.ProspectStage
		Total int64
	}

	var rows []stageCount
	err := db.Model(&models.Prospect{}).
		Select("stage, COUNT(*) AS total").
		Group("stage").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count prospects by stage: %w", err)
	}

	counts := map[models.ProspectStage]int64{
		models.ProspectStageUnreviewed:  0,
		models.ProspectStageFinalized:   0,
		models.ProspectStageUnqualified: 0,
	}
	for _, row := range rows {
		counts[row.Stage] = row.Total
	}
	return counts, nil
}

// Update overwrites the mutable fields of a prospect by ID
func (r *ProspectRepositoryImpl) Update(ctx context.Context, prospect *models.Prospect) error {
	if prospect == nil {
		return errors.New("prospect payload is nil")
	}
	if prospect.ID == 0 {
		return errors.New("prospect ID is required for update")
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
		"company":    prospect.Company,
		"website":    prospect.Website,
		"state":      prospect.State,
		"service":    prospect.Service,
		"industry":   prospect.Industry,
		"revenue":    prospect.Revenue,
		"employees":  prospect.Employees,
		"contact":    prospect.Contact,
		"email":      prospect.Email,
		"phone":      prospect.Phone,
		"notes":      prospect.Notes,
		"reason":     prospect.Reason,
		"stage":      prospect.Stage,
		"updated_at": utils.UTCNow(),
	}
	if prospect.Decision != nil {
		updates["decision"] = *prospect.Decision
	}

	result := db.Model(&models.Prospect{}).
		Where("id = ?", prospect.ID).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("prospect not found with ID: %d", prospect.ID)
	}
	return nil
}
