package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/oto-servis/internal/domain/report"
	"github.com/BruksfildServices01/oto-servis/internal/models"
)

// data efetiva de conclusão: completed_at, ou created_at para registros antigos
const completedOn = "COALESCE(completed_at, created_at)"

type ReportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) *ReportGormRepository {
	return &ReportGormRepository{db: db}
}

// --------------------------------------------------
// Janela [from, to)
// --------------------------------------------------

func (r *ReportGormRepository) CompletedWorkOrders(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.WorkOrder, error) {

	var out []models.WorkOrder
	err := r.db.WithContext(ctx).
		Where("status = ?", "completed").
		Where(completedOn+" >= ? AND "+completedOn+" < ?", from.UTC(), to.UTC()).
		Order(completedOn + " DESC").
		Find(&out).Error
	return out, err
}

func (r *ReportGormRepository) Expenses(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Expense, error) {

	var out []models.Expense
	err := r.db.WithContext(ctx).
		Where("expense_date >= ? AND expense_date < ?", from.UTC(), to.UTC()).
		Order("expense_date DESC").
		Find(&out).Error
	return out, err
}

func (r *ReportGormRepository) AccessorySales(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.AccessorySale, error) {

	var out []models.AccessorySale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("sale_date >= ? AND sale_date < ?", from.UTC(), to.UTC()).
		Order("sale_date DESC").
		Find(&out).Error
	return out, err
}

// --------------------------------------------------
// Resumo geral
// --------------------------------------------------

func (r *ReportGormRepository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.WorkOrder{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

func (r *ReportGormRepository) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&n).Error
	return n, err
}

func (r *ReportGormRepository) CompletedTotals(ctx context.Context) (domain.MoneyTotals, error) {
	var t domain.MoneyTotals
	err := r.db.WithContext(ctx).
		Model(&models.WorkOrder{}).
		Select(
			"COUNT(*) AS count, " +
				"COALESCE(SUM(actual_total_price), 0) AS revenue, " +
				"COALESCE(SUM(total_cost), 0) AS cost, " +
				"COALESCE(SUM(profit), 0) AS profit",
		).
		Where("status = ?", "completed").
		Scan(&t).Error
	return t, err
}

func (r *ReportGormRepository) ExpenseTotal(ctx context.Context) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&row).Error
	return row.Total, err
}

func (r *ReportGormRepository) AccessoryTotals(ctx context.Context) (domain.MoneyTotals, error) {
	var t domain.MoneyTotals
	err := r.db.WithContext(ctx).
		Model(&models.AccessorySale{}).
		Select(
			"COUNT(*) AS count, " +
				"COALESCE(SUM(total_price), 0) AS revenue, " +
				"COALESCE(SUM(total_cost), 0) AS cost, " +
				"COALESCE(SUM(profit), 0) AS profit",
		).
		Scan(&t).Error
	return t, err
}

// --------------------------------------------------
// Detalhe
// --------------------------------------------------

func (r *ReportGormRepository) WorkOrderWithParts(
	ctx context.Context,
	id uint,
) (*models.WorkOrder, error) {

	var wo models.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Parts", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&wo, id).Error
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

// Compile-time check
var _ domain.Repository = (*ReportGormRepository)(nil)
