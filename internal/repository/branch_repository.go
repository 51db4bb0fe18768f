package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/model"
)

type BranchRepository interface {
	// Найти филиал по ID.
	GetByID(ctx context.Context, id string) (*model.Branch, error)
	// Создать филиал.
	Create(ctx context.Context, branch *model.Branch) error
}

type GormBranchRepository struct {
	db *gorm.DB
}

func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

func (r *GormBranchRepository) GetByID(ctx context.Context, id string) (*model.Branch, error) {
	var b model.Branch
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBranchRepository) Create(ctx context.Context, branch *model.Branch) error {
	return r.db.WithContext(ctx).Create(branch).Error
}
