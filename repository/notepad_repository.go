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

// NotepadRepositoryImpl implements NotepadRepository
type NotepadRepositoryImpl struct {
	DB *gorm.DB
}

// NewNotepadRepository creates a new notepad repository
func NewNotepadRepository(db *gorm.DB) NotepadRepository {
	return &NotepadRepositoryImpl{DB: db}
}

func (r *NotepadRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.DB
}

// Get returns the singleton notepad row, or (nil, nil) when empty
func (r *NotepadRepositoryImpl) Get(ctx context.Context) (*models.Notepad, error) {
	db := r.getDB(ctx)

	var pad models.Notepad
	err := db.Where("id = ?", models.NotepadID).First(&pad).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load notepad: %w", err)
	}
	return &pad, nil
}

// Save upserts the singleton notepad row
func (r *NotepadRepositoryImpl) Save(ctx context.Context, pad *models.Notepad) error {
	if pad == nil {
		return errors.New("notepad payload is nil")
	}

	db := r.getDB(ctx)
	pad.ID = models.NotepadID
	pad.LastUpdated = utils.UTCNow()

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(pad).Error
	if err != nil {
		return fmt.Errorf("failed to save notepad: %w", err)
	}
	return nil
}
