package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// services — единица ремонтных работ, опционально привязанная к записи.
// Инвариант: TotalAmount и Truput всегда пересчитываются из цен при
// каждой записи, затрагивающей цены; напрямую они не задаются.
type Service struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	ClientID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"client_id"`
	VehicleID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	MechanicID    *uuid.UUID `gorm:"type:uuid;index" json:"mechanic_id,omitempty"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	BranchID      *uuid.UUID `gorm:"type:uuid;index" json:"branch_id,omitempty"`

	StatusID uuid.UUID `gorm:"type:uuid;not null;index" json:"status_id"`

	Problem   string `gorm:"type:text" json:"problem"`
	Diagnosis string `gorm:"type:text" json:"diagnosis"`

	LaborPrice decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"labor_price"`
	PartsPrice decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"parts_price"`
	PartsCost  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"parts_cost"`

	// Производные: TotalAmount = LaborPrice + PartsPrice,
	// Truput = TotalAmount - PartsCost.
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"total_amount"`
	Truput      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"truput"`

	MechanicCommission decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"mechanic_commission"`

	StartedAt   *time.Time `gorm:"type:timestamp with time zone" json:"started_at,omitempty"`
	CompletedAt *time.Time `gorm:"type:timestamp with time zone" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	// Навигационные поля (опционально, для Preload).
	Client      *Client      `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"client,omitempty"`
	Vehicle     *Vehicle     `gorm:"foreignKey:VehicleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"vehicle,omitempty"`
	Mechanic    *Mechanic    `gorm:"foreignKey:MechanicID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"mechanic,omitempty"`
	Appointment *Appointment `gorm:"foreignKey:AppointmentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"appointment,omitempty"`
	Branch      *Branch      `gorm:"foreignKey:BranchID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"branch,omitempty"`
	Status      *WorkStatus  `gorm:"foreignKey:StatusID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"status,omitempty"`
	StatusLogs  []StatusLog  `gorm:"foreignKey:ServiceID" json:"status_logs,omitempty"`
}

// RecomputeTotals пересчитывает производные суммы из текущих цен.
// Вызывается на каждой записи, затрагивающей LaborPrice/PartsPrice/PartsCost.
func (s *Service) RecomputeTotals() {
	s.TotalAmount = s.LaborPrice.Add(s.PartsPrice)
	s.Truput = s.TotalAmount.Sub(s.PartsCost)
}
