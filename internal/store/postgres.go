package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/models"
)

// PostgresStore keeps application records in Postgres through GORM.
// Identifiers are UUIDs assigned on insert.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, app *models.Application) (string, error) {
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		return "", fmt.Errorf("inserting application: %w", err)
	}
	return app.ID, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	err := s.db.WithContext(ctx).First(&app, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading application: %w", err)
	}
	return &app, nil
}

// Update applies the merge inside a transaction: read the current row,
// append logs, overwrite the supplied scalar fields, write back.
func (s *PostgresStore) Update(ctx context.Context, id string, update RecordUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app models.Application
		err := tx.First(&app, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("loading application for update: %w", err)
		}

		mergeInto(&app, update)

		if err := tx.Save(&app).Error; err != nil {
			return fmt.Errorf("saving application: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) RecordSubmission(ctx context.Context, rec *models.SubmissionRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("inserting submission record: %w", err)
	}
	return nil
}
