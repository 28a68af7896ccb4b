package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WorkOrderPart struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	WorkOrderID uint `gorm:"index;not null" json:"work_order_id"`

	PartCode    *string         `gorm:"size:100" json:"part_code"`
	Description *string         `gorm:"size:255" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unit_price"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unit_cost"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"line_total"`

	CreatedAt time.Time `json:"created_at"`
}
