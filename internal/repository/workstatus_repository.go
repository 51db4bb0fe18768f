package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/model"
)

type WorkStatusRepository interface {
	// Найти статус по ID.
	GetByID(ctx context.Context, id string) (*model.WorkStatus, error)
	// Найти статус по сконфигурированному имени.
	GetByName(ctx context.Context, name string) (*model.WorkStatus, error)
	// Начальный статус — минимальный OrderIndex.
	GetInitial(ctx context.Context) (*model.WorkStatus, error)
	// Весь словарь в порядке отображения.
	List(ctx context.Context) ([]model.WorkStatus, error)
}

type GormWorkStatusRepository struct {
	db *gorm.DB
}

func NewGormWorkStatusRepository(db *gorm.DB) *GormWorkStatusRepository {
	return &GormWorkStatusRepository{db: db}
}

func (r *GormWorkStatusRepository) GetByID(ctx context.Context, id string) (*model.WorkStatus, error) {
	var ws model.WorkStatus
	if err := r.db.WithContext(ctx).First(&ws, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *GormWorkStatusRepository) GetByName(ctx context.Context, name string) (*model.WorkStatus, error) {
	var ws model.WorkStatus
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&ws).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *GormWorkStatusRepository) GetInitial(ctx context.Context) (*model.WorkStatus, error) {
	var ws model.WorkStatus
	if err := r.db.WithContext(ctx).Order("order_index ASC").First(&ws).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *GormWorkStatusRepository) List(ctx context.Context) ([]model.WorkStatus, error) {
	var statuses []model.WorkStatus
	if err := r.db.WithContext(ctx).Order("order_index ASC").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}
