package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/agenda/internal/models"
)

// EventRepository reads event rows; the auth flow never writes them.
type EventRepository interface {
	FindActiveByPassword(ctx context.Context, password string) (*models.Event, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository constructs a gorm-backed EventRepository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// FindActiveByPassword matches a professional password among active events.
// Soft-deleted rows are excluded by gorm's DeletedAt handling.
func (r *eventRepository) FindActiveByPassword(ctx context.Context, password string) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Where("professional_password = ? AND is_active = ?", password, true).
		First(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}
