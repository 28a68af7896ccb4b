package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/oto-servis/internal/models"
)

// MoneyTotals é a linha agregada das consultas de resumo.
type MoneyTotals struct {
	Count   int64
	Revenue decimal.Decimal
	Cost    decimal.Decimal
	Profit  decimal.Decimal
}

// Repository só lê; as janelas são [from, to) em UTC.
type Repository interface {
	CompletedWorkOrders(ctx context.Context, from, to time.Time) ([]models.WorkOrder, error)
	Expenses(ctx context.Context, from, to time.Time) ([]models.Expense, error)
	AccessorySales(ctx context.Context, from, to time.Time) ([]models.AccessorySale, error)

	StatusCounts(ctx context.Context) (map[string]int64, error)
	CountCustomers(ctx context.Context) (int64, error)
	CompletedTotals(ctx context.Context) (MoneyTotals, error)
	ExpenseTotal(ctx context.Context) (decimal.Decimal, error)
	AccessoryTotals(ctx context.Context) (MoneyTotals, error)

	WorkOrderWithParts(ctx context.Context, id uint) (*models.WorkOrder, error)
}
