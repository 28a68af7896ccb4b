package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccessorySale struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerName  *string   `gorm:"size:150" json:"customer_name"`
	CustomerPhone *string   `gorm:"size:30" json:"customer_phone"`
	SaleDate      time.Time `gorm:"index;not null" json:"sale_date"`
	PaymentDetail *string   `gorm:"type:text" json:"payment_detail"`

	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_price"`
	TotalCost  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_cost"`
	Profit     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"profit"`

	Items []AccessorySaleItem `gorm:"constraint:OnDelete:CASCADE;" json:"items"`

	CreatedBy *uint     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AccessorySaleItem struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	AccessorySaleID uint `gorm:"index;not null" json:"accessory_sale_id"`

	Name      string          `gorm:"size:150;not null" json:"name"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unit_price"`
	UnitCost  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unit_cost"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"line_total"`
}
