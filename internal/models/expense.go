package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Category      string          `gorm:"size:50;not null;index" json:"category"`
	Description   *string         `gorm:"size:255" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	ExpenseDate   time.Time       `gorm:"index;not null" json:"expense_date"`
	PaymentMethod *string         `gorm:"size:30" json:"payment_method"`

	CreatedBy *uint     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
