package model

import (
	"time"

	"github.com/google/uuid"
)

// Распознаваемые имена статусов работ. Словарь конфигурируется извне
// (сидом), менеджеры жизненного цикла опираются на имена, а не на
// числовой порядок: OrderIndex используется только для отображения.
const (
	WorkStatusNameReceived   = "Recibido"
	WorkStatusNameDiagnosis  = "Diagnóstico"
	WorkStatusNameInProgress = "En proceso"
	WorkStatusNameFinished   = "Terminado"
	WorkStatusNameRejected   = "Rechazado"
)

// work_statuses — упорядоченный словарь статусов ремонтных работ.
type WorkStatus struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Name       string `gorm:"type:varchar(64);not null;uniqueIndex" json:"name"`
	OrderIndex int    `gorm:"not null;index" json:"order_index"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

// IsFinished — работа успешно завершена.
func (ws *WorkStatus) IsFinished() bool {
	return ws.Name == WorkStatusNameFinished
}

// IsTerminal — работа закончила активный жизненный цикл (завершена или отклонена).
func (ws *WorkStatus) IsTerminal() bool {
	return ws.Name == WorkStatusNameFinished || ws.Name == WorkStatusNameRejected
}

// IsInProgress — работа находится в активной фазе исполнения.
func (ws *WorkStatus) IsInProgress() bool {
	return ws.Name == WorkStatusNameInProgress
}

// status_logs — неизменяемый журнал переходов статуса работы.
// Ровно одна строка на каждый успешный переход; строки никогда
// не редактируются.
type StatusLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	ServiceID   uuid.UUID `gorm:"type:uuid;not null;index" json:"service_id"`
	OldStatusID uuid.UUID `gorm:"type:uuid;not null" json:"old_status_id"`
	NewStatusID uuid.UUID `gorm:"type:uuid;not null" json:"new_status_id"`

	ChangedBy *uuid.UUID `gorm:"type:uuid;index" json:"changed_by,omitempty"`
	Notes     string     `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`

	OldStatus *WorkStatus `gorm:"foreignKey:OldStatusID" json:"old_status,omitempty"`
	NewStatus *WorkStatus `gorm:"foreignKey:NewStatusID" json:"new_status,omitempty"`
}
