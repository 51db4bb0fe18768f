package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/model"
)

type VehicleRepository interface {
	// Создать автомобиль.
	Create(ctx context.Context, vehicle *model.Vehicle) error
	// Найти автомобиль по ID.
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	// Найти автомобиль по номерному знаку.
	FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error)
	// Все автомобили клиента.
	ListByClient(ctx context.Context, clientID string) ([]model.Vehicle, error)
	// Обновить поля автомобиля.
	Updates(ctx context.Context, id string, fields map[string]any) error
}

type GormVehicleRepository struct {
	db *gorm.DB
}

func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

func (r *GormVehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *GormVehicleRepository) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	var v model.Vehicle
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *GormVehicleRepository) FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	var v model.Vehicle
	if err := r.db.WithContext(ctx).Where("plate = ?", plate).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *GormVehicleRepository) ListByClient(ctx context.Context, clientID string) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at ASC").
		Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *GormVehicleRepository) Updates(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&model.Vehicle{}).
		Where("id = ?", id).
		Updates(fields).
		Error
}
