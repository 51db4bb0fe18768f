package model

import (
	"time"

	"github.com/google/uuid"
)

// Роль оператора в системе.
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleReception UserRole = "recepcion"
	UserRoleMechanic  UserRole = "mecanico"
)

// users — операторские учётные записи (приёмка, администратор).
// Ядро авторизацию не выполняет: идентификатор действующего пользователя
// приходит с каждым вызовом уже проверенным.
type User struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Username     string   `gorm:"type:varchar(64);not null;uniqueIndex" json:"username"`
	PasswordHash string   `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName  string   `gorm:"type:varchar(255)" json:"display_name"`
	Role         UserRole `gorm:"type:varchar(32);not null;default:'recepcion';index" json:"role"`

	IsActive bool `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

// mechanics — механики мастерской. Отдельно от операторов: механик
// может не иметь учётной записи вовсе.
type Mechanic struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Phone string `gorm:"type:varchar(32)" json:"phone"`

	// Процент комиссии с truput работы.
	CommissionPct int `gorm:"not null;default:0" json:"commission_pct"`

	IsActive bool `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

// branches — филиалы. Скоуп по филиалу — простой фильтр по внешнему
// ключу, никакой межфилиальной логики.
type Branch struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Name     string `gorm:"type:varchar(128);not null;uniqueIndex" json:"name"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}
