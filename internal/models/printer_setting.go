package models

import (
	"time"

	"gorm.io/datatypes"
)

const PrinterSettingID = 1

// PrinterSetting é uma linha única com o JSON salvo pelo front.
type PrinterSetting struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	Settings  datatypes.JSON `json:"settings"`
	UpdatedBy *uint          `json:"updated_by"`
	UpdatedAt time.Time      `json:"updated_at"`
}
