package workorder

import (
	"context"
	"time"

	"github.com/BruksfildServices01/oto-servis/internal/models"
)

type ListFilter struct {
	Status     string
	CustomerID uint
	Query      string
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

type Repository interface {
	// -------- Transaction --------
	WithinTx(ctx context.Context, fn func(tx Repository) error) error

	// -------- Ticket number --------
	NextTicketNumber(ctx context.Context) (int, error)
	PeekTicketNumber(ctx context.Context) (int, error)

	// -------- Customer --------
	UpsertCustomerByPhone(
		ctx context.Context,
		phone string,
		name string,
		address string,
	) (*models.Customer, error)

	// -------- Work order --------
	CreateWorkOrder(ctx context.Context, wo *models.WorkOrder) error
	GetWorkOrderForUpdate(ctx context.Context, id uint) (*models.WorkOrder, error)
	GetWorkOrderWithParts(ctx context.Context, id uint) (*models.WorkOrder, error)
	SaveWorkOrder(ctx context.Context, wo *models.WorkOrder) error
	DeleteWorkOrder(ctx context.Context, id uint) (int64, error)
	ListWorkOrders(ctx context.Context, f ListFilter) ([]models.WorkOrder, int64, error)

	// -------- Parts --------
	InsertPart(ctx context.Context, part *models.WorkOrderPart) error
	DeleteParts(ctx context.Context, workOrderID uint) (int64, error)
	DeletePart(ctx context.Context, workOrderID uint, partID uint) (int64, error)
	SumParts(ctx context.Context, workOrderID uint) (Totals, error)
	UpdateTotals(ctx context.Context, workOrderID uint, t Totals) error
}
