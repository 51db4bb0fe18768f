package model

import (
	"errors"

	"gorm.io/gorm"
)

// Дефолтный словарь статусов работ. Порядок — только для отображения,
// легальность переходов проверяется менеджерами по именам.
var defaultWorkStatuses = []WorkStatus{
	{Name: WorkStatusNameReceived, OrderIndex: 1},
	{Name: WorkStatusNameDiagnosis, OrderIndex: 2},
	{Name: WorkStatusNameInProgress, OrderIndex: 3},
	{Name: WorkStatusNameFinished, OrderIndex: 4},
	{Name: WorkStatusNameRejected, OrderIndex: 5},
}

// SeedWorkStatuses создаёт недостающие статусы словаря. Идемпотентно:
// существующие строки не трогаются, в том числе их OrderIndex.
func SeedWorkStatuses(db *gorm.DB) error {
	for _, ws := range defaultWorkStatuses {
		var existing WorkStatus
		err := db.Where("name = ?", ws.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		create := ws
		if err := db.Create(&create).Error; err != nil {
			return err
		}
	}
	return nil
}
