package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/oto-servis/internal/domain/workorder"
	"github.com/BruksfildServices01/oto-servis/internal/models"
)

const workOrderSequence = "work_orders"

type WorkOrderGormRepository struct {
	db *gorm.DB
}

func NewWorkOrderGormRepository(db *gorm.DB) *WorkOrderGormRepository {
	return &WorkOrderGormRepository{db: db}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *WorkOrderGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&WorkOrderGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Ticket number
// --------------------------------------------------

func (r *WorkOrderGormRepository) maxTicketNo(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&models.WorkOrder{}).
		Select("COALESCE(MAX(ticket_no), 0)").
		Scan(&max).Error
	return max, err
}

// NextTicketNumber incrementa a sequência com UPDATE; o lock da linha
// serializa criações concorrentes até o commit.
func (r *WorkOrderGormRepository) NextTicketNumber(ctx context.Context) (int, error) {
	db := r.db.WithContext(ctx)

	max, err := r.maxTicketNo(ctx)
	if err != nil {
		return 0, err
	}

	seed := models.TicketSequence{Name: workOrderSequence, LastValue: max}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, err
	}

	if err := db.Model(&models.TicketSequence{}).
		Where("name = ?", workOrderSequence).
		Update("last_value", gorm.Expr("last_value + 1")).Error; err != nil {
		return 0, err
	}

	var seq models.TicketSequence
	if err := db.Where("name = ?", workOrderSequence).First(&seq).Error; err != nil {
		return 0, err
	}

	// sequência atrás das fichas existentes (import manual, por ex.)
	if seq.LastValue <= max {
		seq.LastValue = max + 1
		if err := db.Model(&models.TicketSequence{}).
			Where("name = ?", workOrderSequence).
			Update("last_value", seq.LastValue).Error; err != nil {
			return 0, err
		}
	}

	return seq.LastValue, nil
}

func (r *WorkOrderGormRepository) PeekTicketNumber(ctx context.Context) (int, error) {
	max, err := r.maxTicketNo(ctx)
	if err != nil {
		return 0, err
	}

	var seq models.TicketSequence
	err = r.db.WithContext(ctx).Where("name = ?", workOrderSequence).First(&seq).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	if seq.LastValue > max {
		return seq.LastValue + 1, nil
	}
	return max + 1, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *WorkOrderGormRepository) UpsertCustomerByPhone(
	ctx context.Context,
	phone string,
	name string,
	address string,
) (*models.Customer, error) {
	return NewCustomerGormRepository(r.db).Upsert(ctx, phone, name, address)
}

// --------------------------------------------------
// Work order
// --------------------------------------------------

func (r *WorkOrderGormRepository) CreateWorkOrder(
	ctx context.Context,
	wo *models.WorkOrder,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(wo).Error
}

func (r *WorkOrderGormRepository) GetWorkOrderForUpdate(
	ctx context.Context,
	id uint,
) (*models.WorkOrder, error) {

	var wo models.WorkOrder
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wo, id).Error
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *WorkOrderGormRepository) GetWorkOrderWithParts(
	ctx context.Context,
	id uint,
) (*models.WorkOrder, error) {

	var wo models.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Parts", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Customer").
		First(&wo, id).Error
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *WorkOrderGormRepository) SaveWorkOrder(
	ctx context.Context,
	wo *models.WorkOrder,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(wo).Error
}

// DeleteWorkOrder remove filhos explicitamente; o cascade do banco cobre o resto.
func (r *WorkOrderGormRepository) DeleteWorkOrder(
	ctx context.Context,
	id uint,
) (int64, error) {

	db := r.db.WithContext(ctx)
	if err := db.Where("work_order_id = ?", id).Delete(&models.WorkOrderPart{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("work_order_id = ?", id).Delete(&models.WorkOrderPhoto{}).Error; err != nil {
		return 0, err
	}

	res := db.Delete(&models.WorkOrder{}, id)
	return res.RowsAffected, res.Error
}

func (r *WorkOrderGormRepository) ListWorkOrders(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.WorkOrder, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.WorkOrder{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if query := strings.ToLower(strings.TrimSpace(f.Query)); query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(customer_name) LIKE ? OR LOWER(customer_phone) LIKE ? OR LOWER(plate) LIKE ? OR CAST(ticket_no AS TEXT) LIKE ?",
			like, like, like, like,
		)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("created_at < ?", f.To.UTC())
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.WorkOrder
	if err := q.
		Order("ticket_no DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// --------------------------------------------------
// Parts
// --------------------------------------------------

func (r *WorkOrderGormRepository) InsertPart(
	ctx context.Context,
	part *models.WorkOrderPart,
) error {
	return r.db.WithContext(ctx).Create(part).Error
}

func (r *WorkOrderGormRepository) DeleteParts(
	ctx context.Context,
	workOrderID uint,
) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Delete(&models.WorkOrderPart{})
	return res.RowsAffected, res.Error
}

// DeletePart é limitado à ordem informada; id de outra ordem não apaga nada.
func (r *WorkOrderGormRepository) DeletePart(
	ctx context.Context,
	workOrderID uint,
	partID uint,
) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND work_order_id = ?", partID, workOrderID).
		Delete(&models.WorkOrderPart{})
	return res.RowsAffected, res.Error
}

func (r *WorkOrderGormRepository) SumParts(
	ctx context.Context,
	workOrderID uint,
) (domain.Totals, error) {

	var row struct {
		Revenue decimal.Decimal
		Cost    decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.WorkOrderPart{}).
		Select(
			"COALESCE(SUM(line_total), 0) AS revenue, COALESCE(SUM(quantity * unit_cost), 0) AS cost",
		).
		Where("work_order_id = ?", workOrderID).
		Scan(&row).Error
	if err != nil {
		return domain.Totals{}, err
	}

	return domain.Totals{Revenue: row.Revenue, Cost: row.Cost}, nil
}

func (r *WorkOrderGormRepository) UpdateTotals(
	ctx context.Context,
	workOrderID uint,
	t domain.Totals,
) error {
	return r.db.WithContext(ctx).
		Model(&models.WorkOrder{}).
		Where("id = ?", workOrderID).
		Updates(map[string]any{
			"actual_total_price": t.Revenue.Round(domain.Scale),
			"total_cost":         t.Cost.Round(domain.Scale),
			"profit":             t.Profit().Round(domain.Scale),
		}).Error
}

// Compile-time check
var _ domain.Repository = (*WorkOrderGormRepository)(nil)
