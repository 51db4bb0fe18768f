package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/model"
)

type EventRepository interface {
	// Добавить событие аудита.
	Append(ctx context.Context, event *model.Event) error
	// События записи на приём в хронологическом порядке.
	ListByAppointment(ctx context.Context, appointmentID string) ([]model.Event, error)
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Append(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *GormEventRepository) ListByAppointment(ctx context.Context, appointmentID string) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
