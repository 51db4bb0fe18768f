package model

import (
	"time"

	"github.com/google/uuid"
)

// vehicles — автомобиль принадлежит ровно одному клиенту.
type Vehicle struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`

	// Номерной знак уникален, когда известен. При телефонной записи
	// подставляется синтетический плейсхолдер "PEND-XXXXXXXX",
	// который сверяется с реальными данными на физическом приёме.
	Plate string `gorm:"type:varchar(32);not null;uniqueIndex" json:"plate"`

	Brand string `gorm:"type:varchar(128);not null" json:"brand"`
	Model string `gorm:"type:varchar(128);not null" json:"model"`
	Year  *int   `gorm:"type:int" json:"year,omitempty"`
	Color string `gorm:"type:varchar(64)" json:"color"`

	Notes string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Client *Client `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"client,omitempty"`
}

// HasPlaceholderPlate — true, если номер ещё не подтверждён физическим приёмом.
func (v *Vehicle) HasPlaceholderPlate() bool {
	return len(v.Plate) > 5 && v.Plate[:5] == "PEND-"
}
