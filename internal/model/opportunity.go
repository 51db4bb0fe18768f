package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Статус возможности (лида на повторное обращение).
type OpportunityStatus string

const (
	OpportunityStatusPending    OpportunityStatus = "pending"
	OpportunityStatusContacted  OpportunityStatus = "contacted"
	OpportunityStatusInterested OpportunityStatus = "interested"
	OpportunityStatusDeclined   OpportunityStatus = "declined"
	OpportunityStatusConverted  OpportunityStatus = "converted"
)

// opportunities — лид на будущие работы, привязан к клиенту/автомобилю
// и опционально к породившей его работе.
// Инвариант: после status=converted статус неизменяем, удаление запрещено.
type Opportunity struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	ClientID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"client_id"`
	VehicleID uuid.UUID  `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	ServiceID *uuid.UUID `gorm:"type:uuid;index" json:"service_id,omitempty"`

	// Свободная категория: "cambio de aceite", "revisión de frenos" и т.п.
	Type        string `gorm:"type:varchar(128);not null" json:"type"`
	Description string `gorm:"type:text" json:"description"`

	// Чистая дата без времени — datatypes.Date.
	FollowUpDate datatypes.Date `gorm:"type:date;not null;index" json:"follow_up_date"`

	Status OpportunityStatus `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`

	Notes string `gorm:"type:text" json:"notes"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Client  *Client  `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"client,omitempty"`
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"vehicle,omitempty"`
	Service *Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"service,omitempty"`
}
