package models

import "github.com/shopspring/decimal"

// valores monetários saem como número no JSON ({"profit": 120})
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// All lista os modelos migrados pelo AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Customer{},
		&WorkOrder{},
		&WorkOrderPart{},
		&WorkOrderPhoto{},
		&TicketSequence{},
		&Expense{},
		&AccessorySale{},
		&AccessorySaleItem{},
		&ActivityLog{},
		&PrinterSetting{},
	}
}
