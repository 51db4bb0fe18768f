package model

import (
	"time"

	"github.com/google/uuid"
)

// Тип события аудита.
type EventType string

const (
	EventTypeAppointmentCreated   EventType = "appointment_created"
	EventTypeAppointmentConfirmed EventType = "appointment_confirmed"
	EventTypeAppointmentReceived  EventType = "appointment_received"
	EventTypeAppointmentCancelled EventType = "appointment_cancelled"
	EventTypeAppointmentCompleted EventType = "appointment_completed"
	// Ручной операторский откат completed -> confirmed.
	EventTypeAppointmentReverted    EventType = "appointment_reverted"
	EventTypeAppointmentRescheduled EventType = "appointment_rescheduled"

	EventTypeOpportunityConverted EventType = "opportunity_converted"
)

// events — события аудита жизненного цикла записей и возможностей.
// Пишутся в той же транзакции, что и сама мутация.
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	EventType EventType `gorm:"type:varchar(64);not null;index" json:"event_type"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`

	UserID        *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	OpportunityID *uuid.UUID `gorm:"type:uuid;index" json:"opportunity_id,omitempty"`

	Details string `gorm:"type:text" json:"details"`

	// Навигационные поля
	User        *User        `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"user,omitempty"`
	Appointment *Appointment `gorm:"foreignKey:AppointmentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"appointment,omitempty"`
	Opportunity *Opportunity `gorm:"foreignKey:OpportunityID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"opportunity,omitempty"`
}
