package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/apperr"
	"github.com/Leganyst/workshop-platform/internal/intake"
	"github.com/Leganyst/workshop-platform/internal/model"
	"github.com/Leganyst/workshop-platform/internal/repository"
)

// IntakeService — find-or-create клиента и автомобиля для минимальной
// телефонной записи.
type IntakeService struct {
	clientRepo  repository.ClientRepository
	vehicleRepo repository.VehicleRepository
	log         *logrus.Logger
}

func NewIntakeService(
	clientRepo repository.ClientRepository,
	vehicleRepo repository.VehicleRepository,
	log *logrus.Logger,
) *IntakeService {
	return &IntakeService{
		clientRepo:  clientRepo,
		vehicleRepo: vehicleRepo,
		log:         log,
	}
}

// ResolveForPhoneIntake находит или создаёт клиента по телефону и
// автомобиль по свободному описанию. Побочные эффекты: не более одного
// нового клиента и одного нового автомобиля; ничего не удаляется.
func (s *IntakeService) ResolveForPhoneIntake(
	ctx context.Context,
	name, phone, vehicleDescription string,
) (*model.Client, *model.Vehicle, error) {
	normalized := intake.NormalizePhone(phone)
	if normalized == "" {
		return nil, nil, apperr.Validation("phone is required")
	}
	if len(name) == 0 {
		return nil, nil, apperr.Validation("name is required")
	}

	client, err := s.clientRepo.FindByPhone(ctx, normalized)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		client = &model.Client{
			Name:  name,
			Phone: normalized,
			// WhatsApp по умолчанию совпадает с телефоном.
			WhatsApp: normalized,
			IsActive: true,
		}
		if err := s.clientRepo.Create(ctx, client); err != nil {
			return nil, nil, err
		}
	case err != nil:
		return nil, nil, err
	default:
		// Эвристика: более длинное имя считаем более полным.
		if intake.PreferLongerName(client.Name, name) {
			if err := s.clientRepo.Updates(ctx, client.ID.String(), map[string]any{"name": name}); err != nil {
				return nil, nil, err
			}
			s.log.WithFields(logrus.Fields{
				"client_id": client.ID,
				"old_name":  client.Name,
				"new_name":  name,
			}).Info("phone intake: client name extended")
			client.Name = name
		}
	}

	brand, vmodel := intake.ParseVehicleDescription(vehicleDescription)

	existing, err := s.vehicleRepo.ListByClient(ctx, client.ID.String())
	if err != nil {
		return nil, nil, err
	}
	if match := intake.MatchVehicle(existing, brand, vmodel); match != nil {
		return client, match, nil
	}

	vehicle := &model.Vehicle{
		ClientID: client.ID,
		Plate:    intake.PlaceholderPlate(),
		Brand:    brand,
		Model:    vmodel,
		Notes:    intake.PendingVerificationNote,
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, nil, err
	}

	return client, vehicle, nil
}
