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

// PartChange é o resultado de uma alteração incremental de itens.
type PartChange struct {
	Part      *models.WorkOrderPart `json:"part,omitempty"`
	Deleted   int64                 `json:"deleted"`
	WorkOrder *models.WorkOrder     `json:"work_order"`
}

// ======================================================
// ADD
// ======================================================

type AddPart struct {
	repo  domain.Repository
	audit Auditor
	log   *logger.Logger
}

func NewAddPart(repo domain.Repository, audit Auditor, log *logger.Logger) *AddPart {
	return &AddPart{repo: repo, audit: audit, log: log}
}

func (uc *AddPart) Execute(
	ctx context.Context,
	a actor.Actor,
	workOrderID uint,
	spec domain.PartSpec,
) (*PartChange, error) {

	var out PartChange

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		wo, err := tx.GetWorkOrderForUpdate(ctx, workOrderID)
		if err != nil {
			return notFound(err)
		}

		if err := domain.CanModify(domain.Status(wo.Status), a.IsAdmin()); err != nil {
			return err
		}

		part := domain.BuildPart(wo.ID, spec)
		if err := tx.InsertPart(ctx, &part); err != nil {
			return fmt.Errorf("insert part: %w", err)
		}

		if err := recomputeTotals(ctx, tx, wo.ID); err != nil {
			return err
		}

		out.Part = &part
		out.WorkOrder, err = tx.GetWorkOrderWithParts(ctx, wo.ID)
		return err
	})
	if err != nil {
		logRollback(ctx, uc.log, "add part rolled back", err)
		return nil, err
	}

	uc.audit.Dispatch(audit.Entry{
		UserID:      a.UserIDPtr(),
		Action:      "work_order_part_added",
		Detail:      fmt.Sprintf("Fiş #%d parça eklendi: %s", out.WorkOrder.TicketNo, domain.Deref(out.Part.Description)),
		TargetTable: "work_order_parts",
		TargetID:    &out.Part.ID,
		IPAddress:   a.IPAddress,
		UserAgent:   a.UserAgent,
	})

	return &out, nil
}

// ======================================================
// DELETE
// ======================================================

type DeletePart struct {
	repo  domain.Repository
	audit Auditor
	log   *logger.Logger
}

func NewDeletePart(repo domain.Repository, audit Auditor, log *logger.Logger) *DeletePart {
	return &DeletePart{repo: repo, audit: audit, log: log}
}

// Execute só remove itens da própria ordem; id alheio resulta em Deleted = 0.
func (uc *DeletePart) Execute(
	ctx context.Context,
	a actor.Actor,
	workOrderID uint,
	partID uint,
) (*PartChange, error) {

	var out PartChange

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		wo, err := tx.GetWorkOrderForUpdate(ctx, workOrderID)
		if err != nil {
			return notFound(err)
		}

		if err := domain.CanModify(domain.Status(wo.Status), a.IsAdmin()); err != nil {
			return err
		}

		out.Deleted, err = tx.DeletePart(ctx, wo.ID, partID)
		if err != nil {
			return fmt.Errorf("delete part: %w", err)
		}

		if out.Deleted > 0 {
			if err := recomputeTotals(ctx, tx, wo.ID); err != nil {
				return err
			}
		}

		out.WorkOrder, err = tx.GetWorkOrderWithParts(ctx, wo.ID)
		return err
	})
	if err != nil {
		logRollback(ctx, uc.log, "delete part rolled back", err)
		return nil, err
	}

	if out.Deleted > 0 {
		uc.audit.Dispatch(audit.Entry{
			UserID:      a.UserIDPtr(),
			Action:      "work_order_part_deleted",
			Detail:      fmt.Sprintf("Fiş #%d parça silindi", out.WorkOrder.TicketNo),
			TargetTable: "work_order_parts",
			TargetID:    &partID,
			IPAddress:   a.IPAddress,
			UserAgent:   a.UserAgent,
		})
	}

	return &out, nil
}

// recomputeTotals relê a soma dos itens em vez de confiar em incrementos.
func recomputeTotals(ctx context.Context, tx domain.Repository, workOrderID uint) error {
	totals, err := tx.SumParts(ctx, workOrderID)
	if err != nil {
		return fmt.Errorf("sum parts: %w", err)
	}
	if err := tx.UpdateTotals(ctx, workOrderID, totals); err != nil {
		return fmt.Errorf("update totals: %w", err)
	}
	return nil
}
