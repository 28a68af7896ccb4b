package workorder

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/oto-servis/internal/audit"
	"github.com/BruksfildServices01/oto-servis/internal/domain/actor"
	domain "github.com/BruksfildServices01/oto-servis/internal/domain/workorder"
	"github.com/BruksfildServices01/oto-servis/internal/httperr"
	"github.com/BruksfildServices01/oto-servis/internal/logger"
	"github.com/BruksfildServices01/oto-servis/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateWorkOrderInput struct {
	Actor  actor.Actor
	Fields domain.OrderFields
	Parts  []domain.PartSpec
}

// ======================================================
// USE CASE
// ======================================================

type CreateWorkOrder struct {
	repo  domain.Repository
	audit Auditor
	log   *logger.Logger
}

func NewCreateWorkOrder(
	repo domain.Repository,
	audit Auditor,
	log *logger.Logger,
) *CreateWorkOrder {
	return &CreateWorkOrder{
		repo:  repo,
		audit: audit,
		log:   log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateWorkOrder) Execute(
	ctx context.Context,
	in CreateWorkOrderInput,
) (*models.WorkOrder, error) {

	fields := in.Fields.Normalize()

	var created *models.WorkOrder

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {

		// --------------------------------------------------
		// 1️⃣ Número da ficha
		// --------------------------------------------------
		ticket, err := tx.NextTicketNumber(ctx)
		if err != nil {
			return fmt.Errorf("next ticket number: %w", err)
		}

		// --------------------------------------------------
		// 2️⃣ Cliente pelo telefone
		// --------------------------------------------------
		var customerID *uint
		if fields.CustomerPhone != nil {
			c, err := tx.UpsertCustomerByPhone(
				ctx,
				*fields.CustomerPhone,
				domain.Deref(fields.CustomerName),
				domain.Deref(fields.CustomerAddress),
			)
			if err != nil {
				return fmt.Errorf("upsert customer: %w", err)
			}
			customerID = &c.ID
		}

		// --------------------------------------------------
		// 3️⃣ Ordem com totais zerados
		// --------------------------------------------------
		wo := &models.WorkOrder{
			TicketNo:   ticket,
			CustomerID: customerID,
			Status:     string(domain.InitialStatus()),
			CreatedBy:  in.Actor.UserIDPtr(),
		}
		fields.ApplyTo(wo)

		if err := tx.CreateWorkOrder(ctx, wo); err != nil {
			return fmt.Errorf("insert work order: %w", err)
		}

		// --------------------------------------------------
		// 4️⃣ Itens + 5️⃣ totais
		// --------------------------------------------------
		parts, totals, err := insertParts(ctx, tx, wo.ID, in.Parts)
		if err != nil {
			return fmt.Errorf("insert parts: %w", err)
		}

		if err := tx.UpdateTotals(ctx, wo.ID, totals); err != nil {
			return fmt.Errorf("update totals: %w", err)
		}

		totals.ApplyTo(wo)
		wo.Parts = parts
		created = wo
		return nil
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrBusiness(httperr.CodeTicketConflict)
		}
		uc.log.Error(ctx, "work order create rolled back", err)
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Auditoria (fora da transação)
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Entry{
		UserID: in.Actor.UserIDPtr(),
		Action: "work_order_created",
		Detail: fmt.Sprintf(
			"Fiş #%d - %s - %s",
			created.TicketNo,
			domain.Deref(created.CustomerName),
			vehicleOf(created),
		),
		TargetTable: "work_orders",
		TargetID:    &created.ID,
		IPAddress:   in.Actor.IPAddress,
		UserAgent:   in.Actor.UserAgent,
	})

	return created, nil
}
