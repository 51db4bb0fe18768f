package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей ядра мастерской.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Mechanic{},
		&Branch{},
		&Client{},
		&Vehicle{},
		&WorkStatus{},
		&Appointment{},
		&Service{},
		&StatusLog{},
		&Opportunity{},
		&Event{},
	)
}
