package workorder

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/oto-servis/internal/audit"
	"github.com/BruksfildServices01/oto-servis/internal/domain/actor"
	domain "github.com/BruksfildServices01/oto-servis/internal/domain/workorder"
	"github.com/BruksfildServices01/oto-servis/internal/logger"
	"github.com/BruksfildServices01/oto-servis/internal/models"
)

type DeleteWorkOrder struct {
	repo  domain.Repository
	audit Auditor
	log   *logger.Logger
}

func NewDeleteWorkOrder(repo domain.Repository, audit Auditor, log *logger.Logger) *DeleteWorkOrder {
	return &DeleteWorkOrder{repo: repo, audit: audit, log: log}
}

// Execute devolve a ordem removida (com fotos) para limpeza do storage.
func (uc *DeleteWorkOrder) Execute(
	ctx context.Context,
	a actor.Actor,
	id uint,
) (*models.WorkOrder, error) {

	if err := domain.CanDelete(a.IsAdmin()); err != nil {
		return nil, err
	}

	var removed *models.WorkOrder

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		if _, err := tx.GetWorkOrderForUpdate(ctx, id); err != nil {
			return notFound(err)
		}

		wo, err := tx.GetWorkOrderWithParts(ctx, id)
		if err != nil {
			return err
		}

		if _, err := tx.DeleteWorkOrder(ctx, id); err != nil {
			return fmt.Errorf("delete work order: %w", err)
		}

		removed = wo
		return nil
	})
	if err != nil {
		logRollback(ctx, uc.log, "work order delete rolled back", err)
		return nil, err
	}

	uc.audit.Dispatch(audit.Entry{
		UserID:      a.UserIDPtr(),
		Action:      "work_order_deleted",
		Detail:      fmt.Sprintf("Fiş #%d silindi", removed.TicketNo),
		TargetTable: "work_orders",
		TargetID:    &removed.ID,
		IPAddress:   a.IPAddress,
		UserAgent:   a.UserAgent,
	})

	return removed, nil
}
