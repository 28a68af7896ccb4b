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

type CompleteWorkOrder struct {
	repo   domain.Repository
	audit  Auditor
	log    *logger.Logger
	policy domain.CompletionPolicy
	now    func() time.Time
}

func NewCompleteWorkOrder(
	repo domain.Repository,
	audit Auditor,
	log *logger.Logger,
	policy domain.CompletionPolicy,
) *CompleteWorkOrder {
	return &CompleteWorkOrder{
		repo:   repo,
		audit:  audit,
		log:    log,
		policy: policy,
		now:    utcNow,
	}
}

func (uc *CompleteWorkOrder) Execute(
	ctx context.Context,
	a actor.Actor,
	id uint,
) (*models.WorkOrder, error) {

	if err := uc.policy.CanComplete(a.IsAdmin()); err != nil {
		return nil, err
	}

	var done *models.WorkOrder

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		wo, err := tx.GetWorkOrderForUpdate(ctx, id)
		if err != nil {
			return notFound(err)
		}

		wo.Status = string(domain.StatusCompleted)
		if wo.CompletedAt == nil {
			now := uc.now()
			wo.CompletedAt = &now
		}

		if err := tx.SaveWorkOrder(ctx, wo); err != nil {
			return fmt.Errorf("save work order: %w", err)
		}

		done = wo
		return nil
	})
	if err != nil {
		logRollback(ctx, uc.log, "work order complete rolled back", err)
		return nil, err
	}

	uc.audit.Dispatch(audit.Entry{
		UserID:      a.UserIDPtr(),
		Action:      "work_order_completed",
		Detail:      fmt.Sprintf("Fiş #%d tamamlandı", done.TicketNo),
		TargetTable: "work_orders",
		TargetID:    &done.ID,
		IPAddress:   a.IPAddress,
		UserAgent:   a.UserAgent,
	})

	return done, nil
}
