package repository

import (
	"context"
	"time"

	"cinematch-backend/internal/database"
	"cinematch-backend/internal/models"
)

type SuggestionLogRepository interface {
	Create(ctx context.Context, log *models.SuggestionLog) error
	FindRecent(ctx context.Context, limit int) ([]models.SuggestionLog, error)
}

type suggestionLogRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewSuggestionLogRepository(db *database.Database) SuggestionLogRepository {
	return &suggestionLogRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *suggestionLogRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *suggestionLogRepository) Create(ctx context.Context, log *models.SuggestionLog) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Create(log).Error
}

func (r *suggestionLogRepository) FindRecent(ctx context.Context, limit int) ([]models.SuggestionLog, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var logs []models.SuggestionLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// NopSuggestionLogRepository is used when no database is configured.
type NopSuggestionLogRepository struct{}

func (NopSuggestionLogRepository) Create(context.Context, *models.SuggestionLog) error {
	return nil
}

func (NopSuggestionLogRepository) FindRecent(context.Context, int) ([]models.SuggestionLog, error) {
	return []models.SuggestionLog{}, nil
}
