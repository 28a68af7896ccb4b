package workorder

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/oto-servis/internal/audit"
	"github.com/BruksfildServices01/oto-servis/internal/domain/actor"
	domain "github.com/BruksfildServices01/oto-servis/internal/domain/workorder"
	"github.com/BruksfildServices01/oto-servis/internal/logger"
	"github.com/BruksfildServices01/oto-servis/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type UpdateWorkOrderInput struct {
	Actor actor.Actor
	ID    uint

	Fields domain.OrderFields

	Status            string
	CustomerSignature bool
	DeliveredTo       *string
	DeliveredBy       *string
	ActualDeliveryAt  *time.Time

	// nil = itens intocados; lista vazia = remove todos
	Parts *[]domain.PartSpec
}

// ======================================================
// USE CASE
// ======================================================

type UpdateWorkOrder struct {
	repo  domain.Repository
	audit Auditor
	log   *logger.Logger
	now   func() time.Time
}

func NewUpdateWorkOrder(
	repo domain.Repository,
	audit Auditor,
	log *logger.Logger,
) *UpdateWorkOrder {
	return &UpdateWorkOrder{
		repo:  repo,
		audit: audit,
		log:   log,
		now:   utcNow,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateWorkOrder) Execute(
	ctx context.Context,
	in UpdateWorkOrderInput,
) (*models.WorkOrder, error) {

	status, err := domain.StatusOrDefault(in.Status)
	if err != nil {
		return nil, err
	}

	fields := in.Fields.Normalize()

	var updated *models.WorkOrder

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {

		wo, err := tx.GetWorkOrderForUpdate(ctx, in.ID)
		if err != nil {
			return notFound(err)
		}

		if err := domain.CanModify(domain.Status(wo.Status), in.Actor.IsAdmin()); err != nil {
			return err
		}

		// --------------------------------------------------
		// Campos escalares
		// --------------------------------------------------
		fields.ApplyTo(wo)
		wo.Status = string(status)
		wo.CustomerSignature = in.CustomerSignature
		wo.DeliveredTo = domain.Blank(in.DeliveredTo)
		wo.DeliveredBy = domain.Blank(in.DeliveredBy)
		wo.ActualDeliveryAt = in.ActualDeliveryAt

		if status == domain.StatusCompleted {
			if wo.CompletedAt == nil {
				now := uc.now()
				wo.CompletedAt = &now
			}
		} else {
			wo.CompletedAt = nil
		}

		// --------------------------------------------------
		// Substituição dos itens
		// --------------------------------------------------
		if in.Parts != nil {
			if _, err := tx.DeleteParts(ctx, wo.ID); err != nil {
				return fmt.Errorf("delete parts: %w", err)
			}

			_, totals, err := insertParts(ctx, tx, wo.ID, *in.Parts)
			if err != nil {
				return fmt.Errorf("insert parts: %w", err)
			}
			totals.ApplyTo(wo)
		}

		if err := tx.SaveWorkOrder(ctx, wo); err != nil {
			return fmt.Errorf("save work order: %w", err)
		}

		updated, err = tx.GetWorkOrderWithParts(ctx, wo.ID)
		return err
	})
	if err != nil {
		logRollback(ctx, uc.log, "work order update rolled back", err)
		return nil, err
	}

	uc.audit.Dispatch(audit.Entry{
		UserID:      in.Actor.UserIDPtr(),
		Action:      "work_order_updated",
		Detail:      fmt.Sprintf("Fiş #%d güncellendi (%s)", updated.TicketNo, updated.Status),
		TargetTable: "work_orders",
		TargetID:    &updated.ID,
		IPAddress:   in.Actor.IPAddress,
		UserAgent:   in.Actor.UserAgent,
	})

	return updated, nil
}
