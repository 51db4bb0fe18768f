package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/apperr"
	"github.com/Leganyst/workshop-platform/internal/model"
	"github.com/Leganyst/workshop-platform/internal/repository"
)

// Легальные переходы статуса возможности. converted здесь отсутствует
// намеренно: он выставляется только транзакцией конвертации.
var opportunityTransitions = map[model.OpportunityStatus][]model.OpportunityStatus{
	model.OpportunityStatusPending:    {model.OpportunityStatusContacted, model.OpportunityStatusInterested, model.OpportunityStatusDeclined},
	model.OpportunityStatusContacted:  {model.OpportunityStatusInterested, model.OpportunityStatusDeclined},
	model.OpportunityStatusInterested: {model.OpportunityStatusDeclined},
	model.OpportunityStatusDeclined:   {},
	model.OpportunityStatusConverted:  {},
}

// OpportunityService владеет жизненным циклом возможности и
// транзакционной конвертацией в запись на приём.
type OpportunityService struct {
	db           *gorm.DB
	appointments *AppointmentService
	log          *logrus.Logger
}

func NewOpportunityService(db *gorm.DB, appointments *AppointmentService, log *logrus.Logger) *OpportunityService {
	return &OpportunityService{db: db, appointments: appointments, log: log}
}

// Параметры создания возможности.
type CreateOpportunityInput struct {
	ClientID     uuid.UUID
	VehicleID    uuid.UUID
	ServiceID    *uuid.UUID
	Type         string
	Description  string
	FollowUpDate datatypes.Date
	Notes        string
	CreatedBy    *uuid.UUID
}

// Частичное обновление; nil-поля не трогаются.
type UpdateOpportunityInput struct {
	Type         *string
	Description  *string
	FollowUpDate *datatypes.Date
	Notes        *string
}

// Create проверяет принадлежность автомобиля клиенту и, если указана
// породившая работа, её согласованность с той же парой клиент/автомобиль.
func (s *OpportunityService) Create(ctx context.Context, in CreateOpportunityInput) (*model.Opportunity, error) {
	if in.Type == "" {
		return nil, apperr.Validation("type is required")
	}
	if time.Time(in.FollowUpDate).IsZero() {
		return nil, apperr.Validation("follow-up date is required")
	}

	if _, err := repository.NewGormClientRepository(s.db).GetByID(ctx, in.ClientID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("client %s not found", in.ClientID)
		}
		return nil, err
	}

	vehicle, err := repository.NewGormVehicleRepository(s.db).GetByID(ctx, in.VehicleID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("vehicle %s not found", in.VehicleID)
		}
		return nil, err
	}
	if vehicle.ClientID != in.ClientID {
		return nil, apperr.NotFound("vehicle %s does not belong to client %s", in.VehicleID, in.ClientID)
	}

	if in.ServiceID != nil {
		svc, err := repository.NewGormServiceRepository(s.db).GetByID(ctx, in.ServiceID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("service %s not found", *in.ServiceID)
			}
			return nil, err
		}
		if svc.ClientID != in.ClientID || svc.VehicleID != in.VehicleID {
			return nil, apperr.NotFound("service %s does not match client/vehicle", *in.ServiceID)
		}
	}

	opp := &model.Opportunity{
		ClientID:     in.ClientID,
		VehicleID:    in.VehicleID,
		ServiceID:    in.ServiceID,
		Type:         in.Type,
		Description:  in.Description,
		FollowUpDate: in.FollowUpDate,
		Status:       model.OpportunityStatusPending,
		Notes:        in.Notes,
		CreatedBy:    in.CreatedBy,
	}
	if err := repository.NewGormOpportunityRepository(s.db).Create(ctx, opp); err != nil {
		return nil, err
	}
	return opp, nil
}

// Update — обычное обновление полей. Статус здесь не меняется.
func (s *OpportunityService) Update(ctx context.Context, id string, in UpdateOpportunityInput) (*model.Opportunity, error) {
	opp, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Type != nil {
		if *in.Type == "" {
			return nil, apperr.Validation("type must not be empty")
		}
		fields["type"] = *in.Type
		opp.Type = *in.Type
	}
	if in.Description != nil {
		fields["description"] = *in.Description
		opp.Description = *in.Description
	}
	if in.FollowUpDate != nil {
		if time.Time(*in.FollowUpDate).IsZero() {
			return nil, apperr.Validation("follow-up date must not be zero")
		}
		fields["follow_up_date"] = *in.FollowUpDate
		opp.FollowUpDate = *in.FollowUpDate
	}
	if in.Notes != nil {
		fields["notes"] = *in.Notes
		opp.Notes = *in.Notes
	}

	if len(fields) == 0 {
		return opp, nil
	}

	if err := repository.NewGormOpportunityRepository(s.db).Updates(ctx, id, fields); err != nil {
		return nil, err
	}
	return opp, nil
}

// ChangeStatus двигает возможность по цепочке
// pending -> contacted -> interested; declined достижим из любого
// неконвертированного статуса. converted недостижим: только конвертация.
func (s *OpportunityService) ChangeStatus(ctx context.Context, id string, target model.OpportunityStatus) (*model.Opportunity, error) {
	opp, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if target == opp.Status {
		return nil, apperr.InvalidState("opportunity is already in status %q", target)
	}
	if opp.Status == model.OpportunityStatusConverted {
		return nil, apperr.InvalidTransition("converted opportunity is immutable")
	}
	if target == model.OpportunityStatusConverted {
		return nil, apperr.InvalidTransition("converted status is set only by conversion to an appointment")
	}

	allowed := false
	for _, next := range opportunityTransitions[opp.Status] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperr.InvalidTransition("cannot move opportunity from %q to %q", opp.Status, target)
	}

	if err := repository.NewGormOpportunityRepository(s.db).UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}
	opp.Status = target
	return opp, nil
}

// Delete запрещено для конвертированных возможностей.
func (s *OpportunityService) Delete(ctx context.Context, id string) error {
	opp, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if opp.Status == model.OpportunityStatusConverted {
		return apperr.InvalidState("converted opportunity cannot be deleted")
	}
	return repository.NewGormOpportunityRepository(s.db).Delete(ctx, id)
}

// ConvertToAppointment в одной транзакции помечает возможность
// converted и создаёт запись на приём с isFromOpportunity и ссылкой на
// возможность. Либо оба эффекта, либо ни одного.
func (s *OpportunityService) ConvertToAppointment(
	ctx context.Context,
	id string,
	scheduledDate time.Time,
	notes string,
	actingUser *uuid.UUID,
) (*model.Opportunity, *model.Appointment, error) {
	if scheduledDate.IsZero() {
		return nil, nil, apperr.Validation("scheduled date is required")
	}

	opp, err := s.get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	switch opp.Status {
	case model.OpportunityStatusConverted:
		return nil, nil, apperr.InvalidState("opportunity already converted")
	case model.OpportunityStatusDeclined:
		return nil, nil, apperr.InvalidState("declined opportunity cannot be converted")
	}

	conflict, err := s.appointments.HasConflict(ctx, opp.VehicleID.String(), scheduledDate, "")
	if err != nil {
		return nil, nil, err
	}
	if conflict {
		return nil, nil, apperr.Conflict("vehicle already has an appointment on that day")
	}

	appt := &model.Appointment{
		ClientID:          opp.ClientID,
		VehicleID:         opp.VehicleID,
		OpportunityID:     &opp.ID,
		ScheduledDate:     scheduledDate,
		Status:            model.AppointmentStatusScheduled,
		Notes:             notes,
		IsFromOpportunity: true,
		CreatedBy:         actingUser,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewGormOpportunityRepository(tx).UpdateStatus(ctx, id, model.OpportunityStatusConverted); err != nil {
			return err
		}
		if err := repository.NewGormAppointmentRepository(tx).Create(ctx, appt); err != nil {
			return err
		}
		return repository.NewGormEventRepository(tx).Append(ctx, &model.Event{
			EventType:     model.EventTypeOpportunityConverted,
			UserID:        actingUser,
			AppointmentID: &appt.ID,
			OpportunityID: &opp.ID,
			Details:       fmt.Sprintf("converted to appointment %s", appt.ID),
		})
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.WithFields(logrus.Fields{
		"opportunity_id": opp.ID,
		"appointment_id": appt.ID,
	}).Info("opportunity converted to appointment")

	opp.Status = model.OpportunityStatusConverted
	return opp, appt, nil
}

// Get возвращает возможность по ID.
func (s *OpportunityService) Get(ctx context.Context, id string) (*model.Opportunity, error) {
	return s.get(ctx, id)
}

// List — возможности по статусу и сроку контакта.
func (s *OpportunityService) List(
	ctx context.Context,
	status model.OpportunityStatus,
	dueBefore *time.Time,
	limit, offset int,
) ([]model.Opportunity, int64, error) {
	return repository.NewGormOpportunityRepository(s.db).List(ctx, status, dueBefore, limit, offset)
}

func (s *OpportunityService) get(ctx context.Context, id string) (*model.Opportunity, error) {
	opp, err := repository.NewGormOpportunityRepository(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("opportunity %s not found", id)
		}
		return nil, err
	}
	return opp, nil
}
