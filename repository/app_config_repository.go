// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/leadline/leadline/models"
	"github.com/leadline/leadline/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppConfigRepositoryImpl implements AppConfigRepository
type AppConfigRepositoryImpl struct {
	DB *gorm.DB
}

// NewAppConfigRepository creates a new app config repository
func NewAppConfigRepository(db *gorm.DB) AppConfigRepository {
	return &AppConfigRepositoryImpl{DB: db}
}

func (r *AppConfigRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.DB
}

// Get returns the singleton config row, or (nil, nil) when not yet seeded
func (r *AppConfigRepositoryImpl) Get(ctx context.Context) (*models.AppConfig, error) {
	db := r.getDB(ctx)

	var cfg models.AppConfig
	err := db.Where("id = ?", models.AppConfigID).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}
	return &cfg, nil
}

// Save upserts the singleton config row
func (r *AppConfigRepositoryImpl) Save(ctx context.Context, cfg *models.AppConfig) error {
	if cfg == nil {
		return errors.New("config payload is nil")
	}

	db := r.getDB(ctx)
	cfg.ID = models.AppConfigID
	cfg.UpdatedAt = utils.UTCNow()

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(cfg).Error
	if err != nil {
		return fmt.Errorf("failed to save app config: %w", err)
	}
	return nil
}
