package model

import (
	"time"

	"github.com/google/uuid"
)

// clients — картотека клиентов мастерской.
// Клиент никогда не удаляется физически, только деактивируется.
type Client struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Name string `gorm:"type:varchar(255);not null" json:"name"`

	// Телефон — первичный ключ дедупликации при телефонной записи.
	Phone    string `gorm:"type:varchar(32);not null;index" json:"phone"`
	WhatsApp string `gorm:"type:varchar(32)" json:"whatsapp"`
	Email    string `gorm:"type:varchar(255)" json:"email"`

	IsActive bool `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	// Навигационные поля (опционально, для Preload).
	Vehicles []Vehicle `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"vehicles,omitempty"`
}
