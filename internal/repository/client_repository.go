package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/model"
)

type ClientRepository interface {
	// Создать клиента.
	Create(ctx context.Context, client *model.Client) error
	// Найти клиента по ID.
	GetByID(ctx context.Context, id string) (*model.Client, error)
	// Найти клиента по нормализованному телефону.
	FindByPhone(ctx context.Context, phone string) (*model.Client, error)
	// Обновить поля клиента.
	Updates(ctx context.Context, id string, fields map[string]any) error
	// Список активных клиентов с пагинацией.
	List(ctx context.Context, limit, offset int) ([]model.Client, int64, error)
}

// Реализация на GORM.
type GormClientRepository struct {
	db *gorm.DB
}

func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) Create(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *GormClientRepository) GetByID(ctx context.Context, id string) (*model.Client, error) {
	var c model.Client
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormClientRepository) FindByPhone(ctx context.Context, phone string) (*model.Client, error) {
	var c model.Client
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormClientRepository) Updates(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&model.Client{}).
		Where("id = ?", id).
		Updates(fields).
		Error
}

func (r *GormClientRepository) List(ctx context.Context, limit, offset int) ([]model.Client, int64, error) {
	var (
		clients []model.Client
		total   int64
	)

	q := r.db.WithContext(ctx).
		Model(&model.Client{}).
		Where("is_active = ?", true)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Order("name ASC").Find(&clients).Error; err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}
