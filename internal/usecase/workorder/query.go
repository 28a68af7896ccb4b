package workorder

import (
	"context"

	domain "github.com/BruksfildServices01/oto-servis/internal/domain/workorder"
	"github.com/BruksfildServices01/oto-servis/internal/httperr"
	"github.com/BruksfildServices01/oto-servis/internal/models"
)

// ======================================================
// GET
// ======================================================

type GetWorkOrder struct {
	repo domain.Repository
}

func NewGetWorkOrder(repo domain.Repository) *GetWorkOrder {
	return &GetWorkOrder{repo: repo}
}

func (uc *GetWorkOrder) Execute(ctx context.Context, id uint) (*models.WorkOrder, error) {
	wo, err := uc.repo.GetWorkOrderWithParts(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return wo, nil
}

// ======================================================
// LIST
// ======================================================

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListWorkOrders struct {
	repo domain.Repository
}

func NewListWorkOrders(repo domain.Repository) *ListWorkOrders {
	return &ListWorkOrders{repo: repo}
}

func (uc *ListWorkOrders) Execute(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.WorkOrder, int64, error) {

	if f.Status != "" && !domain.Status(f.Status).IsValid() {
		return nil, 0, httperr.ErrBusiness("invalid_status")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}

	return uc.repo.ListWorkOrders(ctx, f)
}

// ======================================================
// NEXT TICKET
// ======================================================

type NextTicketNumber struct {
	repo domain.Repository
}

func NewNextTicketNumber(repo domain.Repository) *NextTicketNumber {
	return &NextTicketNumber{repo: repo}
}

// Execute só consulta; o número definitivo é reservado na criação.
func (uc *NextTicketNumber) Execute(ctx context.Context) (int, error) {
	return uc.repo.PeekTicketNumber(ctx)
}
