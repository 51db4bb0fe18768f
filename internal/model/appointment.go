package model

import (
	"time"

	"github.com/google/uuid"
)

// Статус записи на приём.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusReceived  AppointmentStatus = "received"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// appointments — запись автомобиля на приём.
// Инвариант: не более одной неотменённой записи на автомобиль в календарный день.
// Статус меняется только через AppointmentService, отмена — терминальный статус,
// строка никогда не удаляется.
type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	ClientID  uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	VehicleID uuid.UUID `gorm:"type:uuid;not null;index" json:"vehicle_id"`

	// Заполняется только при конвертации возможности.
	OpportunityID *uuid.UUID `gorm:"type:uuid;index" json:"opportunity_id,omitempty"`

	ScheduledDate time.Time `gorm:"type:timestamp with time zone;not null;index" json:"scheduled_date"`

	Status AppointmentStatus `gorm:"type:varchar(32);not null;default:'scheduled';index" json:"status"`

	Notes             string `gorm:"type:text" json:"notes"`
	IsFromOpportunity bool   `gorm:"not null;default:false" json:"is_from_opportunity"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	// Навигационные поля (опционально, для Preload).
	Client      *Client      `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"client,omitempty"`
	Vehicle     *Vehicle     `gorm:"foreignKey:VehicleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"vehicle,omitempty"`
	Opportunity *Opportunity `gorm:"foreignKey:OpportunityID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"opportunity,omitempty"`
	Services    []Service    `gorm:"foreignKey:AppointmentID" json:"services,omitempty"`
}

// IsTerminal — запись завершена или отменена, обычный жизненный цикл закончен.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}
