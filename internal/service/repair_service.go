package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/apperr"
	"github.com/Leganyst/workshop-platform/internal/model"
	"github.com/Leganyst/workshop-platform/internal/repository"
)

// RepairService владеет жизненным циклом ремонтной работы. Статус —
// внешний ключ в конфигурируемый словарь WorkStatus; легальность
// переходов проверяет менеджер, а не порядок словаря.
type RepairService struct {
	db           *gorm.DB
	appointments *AppointmentService
	log          *logrus.Logger
}

func NewRepairService(db *gorm.DB, appointments *AppointmentService, log *logrus.Logger) *RepairService {
	return &RepairService{db: db, appointments: appointments, log: log}
}

// Параметры создания работы.
type CreateServiceInput struct {
	ClientID      uuid.UUID
	VehicleID     uuid.UUID
	MechanicID    *uuid.UUID
	AppointmentID *uuid.UUID
	BranchID      *uuid.UUID
	// Пустой — работа создаётся в начальном статусе словаря.
	StatusID *uuid.UUID

	Problem   string
	Diagnosis string

	LaborPrice         decimal.Decimal
	PartsPrice         decimal.Decimal
	PartsCost          decimal.Decimal
	MechanicCommission decimal.Decimal
}

// Частичное обновление работы; nil-поля не трогаются. Любая запись,
// затрагивающая цены, пересчитывает TotalAmount и Truput из полного
// актуального набора трёх значений.
type UpdateServiceInput struct {
	MechanicID *uuid.UUID
	Problem    *string
	Diagnosis  *string

	LaborPrice         *decimal.Decimal
	PartsPrice         *decimal.Decimal
	PartsCost          *decimal.Decimal
	MechanicCommission *decimal.Decimal
}

// Create валидирует согласованность клиент/автомобиль/механик/запись и
// целевой статус, выводит суммы из цен и сохраняет работу.
func (s *RepairService) Create(ctx context.Context, in CreateServiceInput) (*model.Service, error) {
	clientRepo := repository.NewGormClientRepository(s.db)
	vehicleRepo := repository.NewGormVehicleRepository(s.db)
	statusRepo := repository.NewGormWorkStatusRepository(s.db)

	if _, err := clientRepo.GetByID(ctx, in.ClientID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("client %s not found", in.ClientID)
		}
		return nil, err
	}

	vehicle, err := vehicleRepo.GetByID(ctx, in.VehicleID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("vehicle %s not found", in.VehicleID)
		}
		return nil, err
	}
	if vehicle.ClientID != in.ClientID {
		return nil, apperr.NotFound("vehicle %s does not belong to client %s", in.VehicleID, in.ClientID)
	}

	if in.MechanicID != nil {
		if err := s.validateMechanic(ctx, *in.MechanicID); err != nil {
			return nil, err
		}
	}

	if in.AppointmentID != nil {
		appt, err := repository.NewGormAppointmentRepository(s.db).GetByID(ctx, in.AppointmentID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("appointment %s not found", *in.AppointmentID)
			}
			return nil, err
		}
		if appt.ClientID != in.ClientID || appt.VehicleID != in.VehicleID {
			return nil, apperr.NotFound("appointment %s does not match client/vehicle", *in.AppointmentID)
		}
	}

	if in.BranchID != nil {
		if _, err := repository.NewGormBranchRepository(s.db).GetByID(ctx, in.BranchID.String()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("branch %s not found", *in.BranchID)
			}
			return nil, err
		}
	}

	var status *model.WorkStatus
	if in.StatusID != nil {
		status, err = statusRepo.GetByID(ctx, in.StatusID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("work status %s not found", *in.StatusID)
			}
			return nil, err
		}
	} else {
		status, err = statusRepo.GetInitial(ctx)
		if err != nil {
			return nil, err
		}
	}

	svc := &model.Service{
		ClientID:           in.ClientID,
		VehicleID:          in.VehicleID,
		MechanicID:         in.MechanicID,
		AppointmentID:      in.AppointmentID,
		BranchID:           in.BranchID,
		StatusID:           status.ID,
		Problem:            in.Problem,
		Diagnosis:          in.Diagnosis,
		LaborPrice:         in.LaborPrice,
		PartsPrice:         in.PartsPrice,
		PartsCost:          in.PartsCost,
		MechanicCommission: in.MechanicCommission,
	}
	svc.RecomputeTotals()

	if err := repository.NewGormServiceRepository(s.db).Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// Update применяет частичное обновление. Для цен недостающие поля
// берутся из сохранённых значений, производные суммы пересчитываются.
func (s *RepairService) Update(ctx context.Context, id string, in UpdateServiceInput) (*model.Service, error) {
	svc, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}

	if in.MechanicID != nil {
		if err := s.validateMechanic(ctx, *in.MechanicID); err != nil {
			return nil, err
		}
		fields["mechanic_id"] = *in.MechanicID
		svc.MechanicID = in.MechanicID
	}
	if in.Problem != nil {
		fields["problem"] = *in.Problem
		svc.Problem = *in.Problem
	}
	if in.Diagnosis != nil {
		fields["diagnosis"] = *in.Diagnosis
		svc.Diagnosis = *in.Diagnosis
	}
	if in.MechanicCommission != nil {
		fields["mechanic_commission"] = *in.MechanicCommission
		svc.MechanicCommission = *in.MechanicCommission
	}

	if in.LaborPrice != nil || in.PartsPrice != nil || in.PartsCost != nil {
		if in.LaborPrice != nil {
			svc.LaborPrice = *in.LaborPrice
		}
		if in.PartsPrice != nil {
			svc.PartsPrice = *in.PartsPrice
		}
		if in.PartsCost != nil {
			svc.PartsCost = *in.PartsCost
		}
		svc.RecomputeTotals()

		fields["labor_price"] = svc.LaborPrice
		fields["parts_price"] = svc.PartsPrice
		fields["parts_cost"] = svc.PartsCost
		fields["total_amount"] = svc.TotalAmount
		fields["truput"] = svc.Truput
	}

	if len(fields) == 0 {
		return svc, nil
	}

	if err := repository.NewGormServiceRepository(s.db).Updates(ctx, id, fields); err != nil {
		return nil, err
	}
	return svc, nil
}

// ChangeStatus выполняет переход статуса в одной транзакции: обновление
// работы с отметками startedAt/completedAt, ровно одна строка журнала и,
// при переходе в "Terminado", триггер автозавершения записи на приём.
func (s *RepairService) ChangeStatus(
	ctx context.Context,
	id string,
	newStatusID string,
	notes string,
	actingUser *uuid.UUID,
) (*model.Service, error) {
	svc, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus, err := repository.NewGormWorkStatusRepository(s.db).GetByID(ctx, newStatusID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("work status %s not found", newStatusID)
		}
		return nil, err
	}

	if svc.StatusID == newStatus.ID {
		return nil, apperr.InvalidState("service is already in status %q", newStatus.Name)
	}

	oldStatusID := svc.StatusID
	now := time.Now().UTC()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		fields := map[string]any{"status_id": newStatus.ID}

		if newStatus.IsInProgress() && svc.StartedAt == nil {
			fields["started_at"] = now
			svc.StartedAt = &now
		}
		if newStatus.IsTerminal() && svc.CompletedAt == nil {
			fields["completed_at"] = now
			svc.CompletedAt = &now
		}

		if err := repository.NewGormServiceRepository(tx).Updates(ctx, id, fields); err != nil {
			return err
		}

		if err := repository.NewGormStatusLogRepository(tx).Append(ctx, &model.StatusLog{
			ServiceID:   svc.ID,
			OldStatusID: oldStatusID,
			NewStatusID: newStatus.ID,
			ChangedBy:   actingUser,
			Notes:       notes,
		}); err != nil {
			return err
		}

		if newStatus.IsFinished() && svc.AppointmentID != nil {
			return s.appointments.AutoComplete(ctx, tx, svc.AppointmentID.String(), actingUser)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"service_id": svc.ID,
		"old_status": oldStatusID,
		"new_status": newStatus.ID,
	}).Info("service status changed")

	svc.StatusID = newStatus.ID
	return svc, nil
}

// Delete удаляет работу, пока она не начата и находится в начальном
// статусе словаря. Каскад на журнал и ссылающиеся возможности —
// явный, в той же транзакции.
func (s *RepairService) Delete(ctx context.Context, id string) error {
	svc, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if svc.StartedAt != nil {
		return apperr.InvalidState("cannot delete a started service")
	}

	statusRepo := repository.NewGormWorkStatusRepository(s.db)
	current, err := statusRepo.GetByID(ctx, svc.StatusID.String())
	if err != nil {
		return err
	}
	initial, err := statusRepo.GetInitial(ctx)
	if err != nil {
		return err
	}
	if current.OrderIndex != initial.OrderIndex {
		return apperr.InvalidState("cannot delete service in status %q", current.Name)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewGormStatusLogRepository(tx).DeleteByService(ctx, id); err != nil {
			return err
		}
		if err := repository.NewGormOpportunityRepository(tx).DeleteByService(ctx, id); err != nil {
			return err
		}
		return repository.NewGormServiceRepository(tx).Delete(ctx, id)
	})
}

// Get возвращает работу по ID.
func (s *RepairService) Get(ctx context.Context, id string) (*model.Service, error) {
	return s.get(ctx, id)
}

// List — работы по фильтрам с пагинацией.
func (s *RepairService) List(ctx context.Context, filter repository.ServiceFilter, limit, offset int) ([]model.Service, int64, error) {
	return repository.NewGormServiceRepository(s.db).List(ctx, filter, limit, offset)
}

// ListStatusLog — журнал переходов работы.
func (s *RepairService) ListStatusLog(ctx context.Context, serviceID string) ([]model.StatusLog, error) {
	if _, err := s.get(ctx, serviceID); err != nil {
		return nil, err
	}
	return repository.NewGormStatusLogRepository(s.db).ListByService(ctx, serviceID)
}

func (s *RepairService) get(ctx context.Context, id string) (*model.Service, error) {
	svc, err := repository.NewGormServiceRepository(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("service %s not found", id)
		}
		return nil, err
	}
	return svc, nil
}

func (s *RepairService) validateMechanic(ctx context.Context, id uuid.UUID) error {
	mech, err := repository.NewGormMechanicRepository(s.db).GetByID(ctx, id.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("mechanic %s not found", id)
		}
		return err
	}
	if !mech.IsActive {
		return apperr.Validation("mechanic %s is not active", id)
	}
	return nil
}
