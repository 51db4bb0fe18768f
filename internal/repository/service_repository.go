package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/model"
)

// Фильтры списка работ; пустые значения игнорируются.
type ServiceFilter struct {
	ClientID  string
	VehicleID string
	BranchID  string
	StatusID  string
}

type ServiceRepository interface {
	// Создать работу.
	Create(ctx context.Context, svc *model.Service) error
	// Найти работу по ID.
	GetByID(ctx context.Context, id string) (*model.Service, error)
	// Найти работу по ID с подгруженным статусом.
	GetByIDWithStatus(ctx context.Context, id string) (*model.Service, error)
	// Обновить поля работы.
	Updates(ctx context.Context, id string, fields map[string]any) error
	// Удалить работу (только каскадом из менеджера, внутри транзакции).
	Delete(ctx context.Context, id string) error
	// Все работы записи на приём.
	ListByAppointment(ctx context.Context, appointmentID string) ([]model.Service, error)
	// Список работ по фильтрам с пагинацией.
	List(ctx context.Context, filter ServiceFilter, limit, offset int) ([]model.Service, int64, error)
}

type GormServiceRepository struct {
	db *gorm.DB
}

func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

func (r *GormServiceRepository) Create(ctx context.Context, svc *model.Service) error {
	return r.db.WithContext(ctx).Create(svc).Error
}

func (r *GormServiceRepository) GetByID(ctx context.Context, id string) (*model.Service, error) {
	var s model.Service
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormServiceRepository) GetByIDWithStatus(ctx context.Context, id string) (*model.Service, error) {
	var s model.Service
	if err := r.db.WithContext(ctx).Preload("Status").First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormServiceRepository) Updates(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&model.Service{}).
		Where("id = ?", id).
		Updates(fields).
		Error
}

func (r *GormServiceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Service{}, "id = ?", id).Error
}

func (r *GormServiceRepository) ListByAppointment(ctx context.Context, appointmentID string) ([]model.Service, error) {
	var services []model.Service
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *GormServiceRepository) List(
	ctx context.Context,
	filter ServiceFilter,
	limit, offset int,
) ([]model.Service, int64, error) {
	var (
		services []model.Service
		total    int64
	)

	q := r.db.WithContext(ctx).Model(&model.Service{})

	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.VehicleID != "" {
		q = q.Where("vehicle_id = ?", filter.VehicleID)
	}
	if filter.BranchID != "" {
		q = q.Where("branch_id = ?", filter.BranchID)
	}
	if filter.StatusID != "" {
		q = q.Where("status_id = ?", filter.StatusID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Order("created_at DESC").Find(&services).Error; err != nil {
		return nil, 0, err
	}

	return services, total, nil
}
