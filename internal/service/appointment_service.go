package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/apperr"
	"github.com/Leganyst/workshop-platform/internal/model"
	"github.com/Leganyst/workshop-platform/internal/repository"
	"github.com/Leganyst/workshop-platform/internal/schedule"
)

// AppointmentService владеет машиной состояний записи на приём:
// scheduled -> confirmed -> completed, cancelled из scheduled/confirmed,
// received — боковой статус физического приёма.
type AppointmentService struct {
	db     *gorm.DB
	intake *IntakeService
	log    *logrus.Logger

	// Часовой пояс презентации: окна конфликтов считаются по его
	// календарным дням.
	loc *time.Location
}

func NewAppointmentService(db *gorm.DB, intake *IntakeService, log *logrus.Logger, loc *time.Location) *AppointmentService {
	if loc == nil {
		loc = time.Local
	}
	return &AppointmentService{db: db, intake: intake, log: log, loc: loc}
}

// Параметры создания записи.
type CreateAppointmentInput struct {
	ClientID      uuid.UUID
	VehicleID     uuid.UUID
	ScheduledDate time.Time
	OpportunityID *uuid.UUID
	Notes         string
	CreatedBy     *uuid.UUID
}

// HasConflict — есть ли у автомобиля неотменённая запись в календарный
// день candidateDate. Чистое чтение, побочных эффектов нет.
func (s *AppointmentService) HasConflict(
	ctx context.Context,
	vehicleID string,
	candidateDate time.Time,
	excludeAppointmentID string,
) (bool, error) {
	window, err := schedule.DayBounds(candidateDate, s.loc)
	if err != nil {
		return false, apperr.Validation("scheduled date is required")
	}

	repo := repository.NewGormAppointmentRepository(s.db)
	total, err := repo.CountDayConflicts(ctx, vehicleID, window.Start, window.End, excludeAppointmentID)
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

// Create проверяет существование клиента, принадлежность автомобиля и
// отсутствие конфликта по дню, затем создаёт запись со статусом scheduled.
func (s *AppointmentService) Create(ctx context.Context, in CreateAppointmentInput) (*model.Appointment, error) {
	if in.ScheduledDate.IsZero() {
		return nil, apperr.Validation("scheduled date is required")
	}

	clientRepo := repository.NewGormClientRepository(s.db)
	vehicleRepo := repository.NewGormVehicleRepository(s.db)

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

	conflict, err := s.HasConflict(ctx, in.VehicleID.String(), in.ScheduledDate, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperr.Conflict("vehicle already has an appointment on %s", in.ScheduledDate.In(s.loc).Format("2006-01-02"))
	}

	appt := &model.Appointment{
		ClientID:          in.ClientID,
		VehicleID:         in.VehicleID,
		OpportunityID:     in.OpportunityID,
		ScheduledDate:     in.ScheduledDate,
		Status:            model.AppointmentStatusScheduled,
		Notes:             in.Notes,
		IsFromOpportunity: in.OpportunityID != nil,
		CreatedBy:         in.CreatedBy,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewGormAppointmentRepository(tx).Create(ctx, appt); err != nil {
			return err
		}
		return repository.NewGormEventRepository(tx).Append(ctx, &model.Event{
			EventType:     model.EventTypeAppointmentCreated,
			UserID:        in.CreatedBy,
			AppointmentID: &appt.ID,
			Details:       fmt.Sprintf("scheduled for %s", appt.ScheduledDate.In(s.loc).Format("2006-01-02 15:04")),
		})
	})
	if err != nil {
		return nil, err
	}

	return appt, nil
}

// CreateFromPhone — телефонная запись с минимальными данными: резолвер
// клиента/автомобиля плюс обычное создание.
func (s *AppointmentService) CreateFromPhone(
	ctx context.Context,
	name, phone, vehicleDescription string,
	scheduledDate time.Time,
	notes string,
	createdBy *uuid.UUID,
) (*model.Appointment, error) {
	client, vehicle, err := s.intake.ResolveForPhoneIntake(ctx, name, phone, vehicleDescription)
	if err != nil {
		return nil, err
	}

	return s.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ScheduledDate: scheduledDate,
		Notes:         notes,
		CreatedBy:     createdBy,
	})
}

// Reschedule переносит незакрытую запись на другую дату. Проверка
// конфликта исключает саму запись, чтобы перенос внутри того же дня
// не конфликтовал сам с собой.
func (s *AppointmentService) Reschedule(ctx context.Context, id string, newDate time.Time, actingUser *uuid.UUID) (*model.Appointment, error) {
	if newDate.IsZero() {
		return nil, apperr.Validation("scheduled date is required")
	}

	appt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status.IsTerminal() {
		return nil, apperr.InvalidTransition("cannot reschedule appointment in status %q", appt.Status)
	}

	conflict, err := s.HasConflict(ctx, appt.VehicleID.String(), newDate, appt.ID.String())
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperr.Conflict("vehicle already has an appointment on %s", newDate.In(s.loc).Format("2006-01-02"))
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewGormAppointmentRepository(tx).Updates(ctx, id, map[string]any{"scheduled_date": newDate}); err != nil {
			return err
		}
		return repository.NewGormEventRepository(tx).Append(ctx, &model.Event{
			EventType:     model.EventTypeAppointmentRescheduled,
			UserID:        actingUser,
			AppointmentID: &appt.ID,
			Details:       fmt.Sprintf("moved to %s", newDate.In(s.loc).Format("2006-01-02 15:04")),
		})
	})
	if err != nil {
		return nil, err
	}

	appt.ScheduledDate = newDate
	return appt, nil
}

// Confirm переводит запись scheduled -> confirmed.
func (s *AppointmentService) Confirm(ctx context.Context, id string, actingUser *uuid.UUID) (*model.Appointment, error) {
	appt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != model.AppointmentStatusScheduled {
		return nil, apperr.InvalidTransition("cannot confirm appointment in status %q", appt.Status)
	}
	return s.transition(ctx, appt, model.AppointmentStatusConfirmed, model.EventTypeAppointmentConfirmed, actingUser, "")
}

// Receive отмечает физический приём автомобиля. Боковой статус: в
// цепочку scheduled -> confirmed -> completed не входит.
func (s *AppointmentService) Receive(ctx context.Context, id string, actingUser *uuid.UUID) (*model.Appointment, error) {
	appt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != model.AppointmentStatusScheduled && appt.Status != model.AppointmentStatusConfirmed {
		return nil, apperr.InvalidTransition("cannot receive appointment in status %q", appt.Status)
	}
	return s.transition(ctx, appt, model.AppointmentStatusReceived, model.EventTypeAppointmentReceived, actingUser, "")
}

// Cancel отменяет запись. Отмена запрещена, пока у записи есть
// незавершённая работа. Строка никогда не удаляется.
func (s *AppointmentService) Cancel(ctx context.Context, id string, actingUser *uuid.UUID) (*model.Appointment, error) {
	appt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != model.AppointmentStatusScheduled && appt.Status != model.AppointmentStatusConfirmed {
		return nil, apperr.InvalidTransition("cannot cancel appointment in status %q", appt.Status)
	}

	services, err := repository.NewGormServiceRepository(s.db).ListByAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, svc := range services {
		if svc.CompletedAt == nil {
			return nil, apperr.Conflict("cannot cancel: service %s is still open", svc.ID)
		}
	}

	return s.transition(ctx, appt, model.AppointmentStatusCancelled, model.EventTypeAppointmentCancelled, actingUser, "")
}

// Complete завершает запись. Без привязанных работ атомарно создаёт
// ровно одну работу в начальном статусе, перенося заметки записи как
// описание проблемы. С привязанными работами требует, чтобы все они
// были закрыты.
func (s *AppointmentService) Complete(ctx context.Context, id string, actingUser *uuid.UUID) (*model.Appointment, error) {
	appt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status.IsTerminal() {
		return nil, apperr.InvalidTransition("cannot complete appointment in status %q", appt.Status)
	}

	services, err := repository.NewGormServiceRepository(s.db).ListByAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(services) > 0 {
		for _, svc := range services {
			if svc.CompletedAt == nil {
				return nil, apperr.InvalidTransition("cannot complete while services are open")
			}
		}
		return s.transition(ctx, appt, model.AppointmentStatusCompleted, model.EventTypeAppointmentCompleted, actingUser, "")
	}

	// Нет работ: завершение и авто-создание работы в одной транзакции.
	initial, err := repository.NewGormWorkStatusRepository(s.db).GetInitial(ctx)
	if err != nil {
		return nil, err
	}

	var created *model.Service
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewGormAppointmentRepository(tx).UpdateStatus(ctx, id, model.AppointmentStatusCompleted); err != nil {
			return err
		}

		svc := &model.Service{
			ClientID:      appt.ClientID,
			VehicleID:     appt.VehicleID,
			AppointmentID: &appt.ID,
			StatusID:      initial.ID,
			Problem:       appt.Notes,
		}
		svc.RecomputeTotals()
		if err := repository.NewGormServiceRepository(tx).Create(ctx, svc); err != nil {
			return err
		}
		created = svc

		return repository.NewGormEventRepository(tx).Append(ctx, &model.Event{
			EventType:     model.EventTypeAppointmentCompleted,
			UserID:        actingUser,
			AppointmentID: &appt.ID,
			Details:       fmt.Sprintf("auto-created service %s", svc.ID),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"appointment_id": appt.ID,
		"service_id":     created.ID,
	}).Info("appointment completed with auto-created service")

	appt.Status = model.AppointmentStatusCompleted
	return appt, nil
}

// RevertCompletion — операторский откат completed -> confirmed.
// Отдельная административная операция, в обычный жизненный цикл не
// входит; фиксируется в аудите.
func (s *AppointmentService) RevertCompletion(ctx context.Context, id string, actingUser *uuid.UUID, reason string) (*model.Appointment, error) {
	appt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != model.AppointmentStatusCompleted {
		return nil, apperr.InvalidTransition("cannot revert appointment in status %q", appt.Status)
	}

	appt, err = s.transition(ctx, appt, model.AppointmentStatusConfirmed, model.EventTypeAppointmentReverted, actingUser, reason)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"appointment_id": appt.ID,
		"acting_user":    actingUser,
		"reason":         reason,
	}).Warn("completed appointment reverted to confirmed")

	return appt, nil
}

// AutoComplete — триггер из менеджера работ: когда работа записи
// дошла до терминального "Terminado", перепроверить все работы записи
// и завершить запись, если открытых не осталось. Идемпотентно; тихо
// завершается, если запись уже закрыта или работ нет.
// Выполняется на переданном tx, внутри транзакции смены статуса работы.
func (s *AppointmentService) AutoComplete(ctx context.Context, tx *gorm.DB, appointmentID string, actingUser *uuid.UUID) error {
	apptRepo := repository.NewGormAppointmentRepository(tx)

	appt, err := apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if appt.Status.IsTerminal() {
		return nil
	}

	services, err := repository.NewGormServiceRepository(tx).ListByAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if len(services) == 0 {
		return nil
	}

	statuses, err := repository.NewGormWorkStatusRepository(tx).List(ctx)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*model.WorkStatus, len(statuses))
	for i := range statuses {
		byID[statuses[i].ID] = &statuses[i]
	}

	for _, svc := range services {
		ws, ok := byID[svc.StatusID]
		if !ok || !ws.IsTerminal() {
			return nil
		}
	}

	if err := apptRepo.UpdateStatus(ctx, appointmentID, model.AppointmentStatusCompleted); err != nil {
		return err
	}
	return repository.NewGormEventRepository(tx).Append(ctx, &model.Event{
		EventType:     model.EventTypeAppointmentCompleted,
		UserID:        actingUser,
		AppointmentID: &appt.ID,
		Details:       "auto-completed: all services terminal",
	})
}

// Get возвращает запись по ID.
func (s *AppointmentService) Get(ctx context.Context, id string) (*model.Appointment, error) {
	return s.get(ctx, id)
}

// ListByDay — записи на календарный день day с пагинацией.
func (s *AppointmentService) ListByDay(
	ctx context.Context,
	day time.Time,
	status model.AppointmentStatus,
	limit, offset int,
) ([]model.Appointment, int64, error) {
	window, err := schedule.DayBounds(day, s.loc)
	if err != nil {
		return nil, 0, apperr.Validation("day is required")
	}
	return repository.NewGormAppointmentRepository(s.db).
		ListByRange(ctx, window.Start, window.End, status, limit, offset)
}

func (s *AppointmentService) get(ctx context.Context, id string) (*model.Appointment, error) {
	appt, err := repository.NewGormAppointmentRepository(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("appointment %s not found", id)
		}
		return nil, err
	}
	return appt, nil
}

// transition — статус плюс строка аудита в одной транзакции.
func (s *AppointmentService) transition(
	ctx context.Context,
	appt *model.Appointment,
	target model.AppointmentStatus,
	eventType model.EventType,
	actingUser *uuid.UUID,
	details string,
) (*model.Appointment, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewGormAppointmentRepository(tx).UpdateStatus(ctx, appt.ID.String(), target); err != nil {
			return err
		}
		return repository.NewGormEventRepository(tx).Append(ctx, &model.Event{
			EventType:     eventType,
			UserID:        actingUser,
			AppointmentID: &appt.ID,
			Details:       details,
		})
	})
	if err != nil {
		return nil, err
	}
	appt.Status = target
	return appt, nil
}
