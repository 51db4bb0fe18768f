package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/model"
)

type MechanicRepository interface {
	// Найти механика по ID.
	GetByID(ctx context.Context, id string) (*model.Mechanic, error)
	// Активные механики.
	ListActive(ctx context.Context) ([]model.Mechanic, error)
	// Создать механика.
	Create(ctx context.Context, mech *model.Mechanic) error
}

type GormMechanicRepository struct {
	db *gorm.DB
}

func NewGormMechanicRepository(db *gorm.DB) *GormMechanicRepository {
	return &GormMechanicRepository{db: db}
}

func (r *GormMechanicRepository) GetByID(ctx context.Context, id string) (*model.Mechanic, error) {
	var m model.Mechanic
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormMechanicRepository) ListActive(ctx context.Context) ([]model.Mechanic, error) {
	var mechanics []model.Mechanic
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&mechanics).Error; err != nil {
		return nil, err
	}
	return mechanics, nil
}

func (r *GormMechanicRepository) Create(ctx context.Context, mech *model.Mechanic) error {
	return r.db.WithContext(ctx).Create(mech).Error
}
