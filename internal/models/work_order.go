package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WorkOrder struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TicketNo int  `gorm:"uniqueIndex;not null" json:"ticket_no"`

	CustomerID *uint     `gorm:"index" json:"customer_id"`
	Customer   *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer,omitempty"`

	// snapshot do cliente/veículo no momento da abertura
	CustomerName     *string `gorm:"size:150" json:"customer_name"`
	CustomerAddress  *string `gorm:"size:255" json:"customer_address"`
	CustomerPhone    *string `gorm:"size:30" json:"customer_phone"`
	VehicleMakeModel *string `gorm:"size:150" json:"vehicle_make_model"`
	Plate            *string `gorm:"size:20;index" json:"plate"`
	Mileage          *string `gorm:"size:30" json:"mileage"`

	Complaint   *string `gorm:"type:text" json:"complaint"`
	Description *string `gorm:"type:text" json:"description"`

	EstimatedDeliveryDate *time.Time      `json:"estimated_delivery_date"`
	EstimatedDeliveryDays int             `gorm:"default:0" json:"estimated_delivery_days"`
	EstimatedPrice        decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"estimated_price"`
	PaymentDetail         *string         `gorm:"type:text" json:"payment_detail"`

	Status            string     `gorm:"size:20;default:'pending';index" json:"status"`
	CustomerSignature bool       `gorm:"default:false" json:"customer_signature"`
	DeliveredTo       *string    `gorm:"size:150" json:"delivered_to"`
	DeliveredBy       *string    `gorm:"size:150" json:"delivered_by"`
	ActualDeliveryAt  *time.Time `json:"actual_delivery_date"`
	CompletedAt       *time.Time `gorm:"index" json:"completed_at"`

	ActualTotalPrice decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"actual_total_price"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_cost"`
	Profit           decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"profit"`

	CreatedBy *uint `json:"created_by"`

	Parts  []WorkOrderPart  `gorm:"constraint:OnDelete:CASCADE;" json:"parts"`
	Photos []WorkOrderPhoto `gorm:"constraint:OnDelete:CASCADE;" json:"photos,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TicketSequence guarda o último número de ficha emitido.
type TicketSequence struct {
	Name      string `gorm:"primaryKey;size:50"`
	LastValue int    `gorm:"not null;default:0"`
}
