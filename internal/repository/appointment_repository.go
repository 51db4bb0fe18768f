package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/model"
)

type AppointmentRepository interface {
	// Создать запись на приём.
	Create(ctx context.Context, appt *model.Appointment) error
	// Найти запись по ID.
	GetByID(ctx context.Context, id string) (*model.Appointment, error)
	// Обновить статус записи.
	UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error
	// Обновить поля записи.
	Updates(ctx context.Context, id string, fields map[string]any) error
	// Количество неотменённых записей автомобиля в окне дня,
	// исключая excludeID (при переносе — сама запись).
	CountDayConflicts(ctx context.Context, vehicleID string, from, to time.Time, excludeID string) (int64, error)
	// Записи в окне дня с пагинацией.
	ListByRange(ctx context.Context, from, to time.Time, status model.AppointmentStatus, limit, offset int) ([]model.Appointment, int64, error)
}

type GormAppointmentRepository struct {
	db *gorm.DB
}

func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *GormAppointmentRepository) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	var a model.Appointment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormAppointmentRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *GormAppointmentRepository) Updates(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ?", id).
		Updates(fields).
		Error
}

func (r *GormAppointmentRepository) CountDayConflicts(
	ctx context.Context,
	vehicleID string,
	from, to time.Time,
	excludeID string,
) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("vehicle_id = ?", vehicleID).
		Where("scheduled_date >= ? AND scheduled_date <= ?", from, to).
		Where("status <> ?", model.AppointmentStatusCancelled)

	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormAppointmentRepository) ListByRange(
	ctx context.Context,
	from, to time.Time,
	status model.AppointmentStatus,
	limit, offset int,
) ([]model.Appointment, int64, error) {
	var (
		appts []model.Appointment
		total int64
	)

	q := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("scheduled_date >= ? AND scheduled_date <= ?", from, to)

	if status != "" {
		q = q.Where("status = ?", status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Order("scheduled_date ASC").Find(&appts).Error; err != nil {
		return nil, 0, err
	}

	return appts, total, nil
}
