package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/model"
)

type StatusLogRepository interface {
	// Добавить строку журнала. Журнал неизменяем: только вставка.
	Append(ctx context.Context, entry *model.StatusLog) error
	// Журнал работы в хронологическом порядке.
	ListByService(ctx context.Context, serviceID string) ([]model.StatusLog, error)
	// Удалить журнал работы (только каскад при удалении работы).
	DeleteByService(ctx context.Context, serviceID string) error
}

type GormStatusLogRepository struct {
	db *gorm.DB
}

func NewGormStatusLogRepository(db *gorm.DB) *GormStatusLogRepository {
	return &GormStatusLogRepository{db: db}
}

func (r *GormStatusLogRepository) Append(ctx context.Context, entry *model.StatusLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *GormStatusLogRepository) ListByService(ctx context.Context, serviceID string) ([]model.StatusLog, error) {
	var logs []model.StatusLog
	if err := r.db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *GormStatusLogRepository) DeleteByService(ctx context.Context, serviceID string) error {
	return r.db.WithContext(ctx).Delete(&model.StatusLog{}, "service_id = ?", serviceID).Error
}
