package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/model"
)

type OpportunityRepository interface {
	// Создать возможность.
	Create(ctx context.Context, opp *model.Opportunity) error
	// Найти возможность по ID.
	GetByID(ctx context.Context, id string) (*model.Opportunity, error)
	// Обновить поля возможности.
	Updates(ctx context.Context, id string, fields map[string]any) error
	// Обновить статус возможности.
	UpdateStatus(ctx context.Context, id string, status model.OpportunityStatus) error
	// Удалить возможность.
	Delete(ctx context.Context, id string) error
	// Удалить возможности, ссылающиеся на работу (каскад при удалении работы).
	DeleteByService(ctx context.Context, serviceID string) error
	// Список по статусу и сроку контакта с пагинацией.
	List(ctx context.Context, status model.OpportunityStatus, dueBefore *time.Time, limit, offset int) ([]model.Opportunity, int64, error)
}

type GormOpportunityRepository struct {
	db *gorm.DB
}

func NewGormOpportunityRepository(db *gorm.DB) *GormOpportunityRepository {
	return &GormOpportunityRepository{db: db}
}

func (r *GormOpportunityRepository) Create(ctx context.Context, opp *model.Opportunity) error {
	return r.db.WithContext(ctx).Create(opp).Error
}

func (r *GormOpportunityRepository) GetByID(ctx context.Context, id string) (*model.Opportunity, error) {
	var o model.Opportunity
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormOpportunityRepository) Updates(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&model.Opportunity{}).
		Where("id = ?", id).
		Updates(fields).
		Error
}

func (r *GormOpportunityRepository) UpdateStatus(ctx context.Context, id string, status model.OpportunityStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Opportunity{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *GormOpportunityRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Opportunity{}, "id = ?", id).Error
}

func (r *GormOpportunityRepository) DeleteByService(ctx context.Context, serviceID string) error {
	return r.db.WithContext(ctx).Delete(&model.Opportunity{}, "service_id = ?", serviceID).Error
}

func (r *GormOpportunityRepository) List(
	ctx context.Context,
	status model.OpportunityStatus,
	dueBefore *time.Time,
	limit, offset int,
) ([]model.Opportunity, int64, error) {
	var (
		opps  []model.Opportunity
		total int64
	)

	q := r.db.WithContext(ctx).Model(&model.Opportunity{})

	if status != "" {
		q = q.Where("status = ?", status)
	}
	if dueBefore != nil {
		q = q.Where("follow_up_date <= ?", *dueBefore)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Order("follow_up_date ASC").Find(&opps).Error; err != nil {
		return nil, 0, err
	}

	return opps, total, nil
}
