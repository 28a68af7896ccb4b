package workorder

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/oto-servis/internal/audit"
	domain "github.com/BruksfildServices01/oto-servis/internal/domain/workorder"
	"github.com/BruksfildServices01/oto-servis/internal/httperr"
	"github.com/BruksfildServices01/oto-servis/internal/logger"
	"github.com/BruksfildServices01/oto-servis/internal/models"
)

// Auditor é satisfeito por *audit.Dispatcher.
type Auditor interface {
	Dispatch(e audit.Entry)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness("work_order_not_found")
	}
	return err
}

// logRollback ignora erros de negócio; só falhas reais vão para o log.
func logRollback(ctx context.Context, log *logger.Logger, msg string, err error) {
	if httperr.BusinessCode(err) != "" {
		return
	}
	log.Error(ctx, msg, err)
}

// insertParts grava cada item e devolve os totais acumulados.
func insertParts(
	ctx context.Context,
	tx domain.Repository,
	workOrderID uint,
	specs []domain.PartSpec,
) ([]models.WorkOrderPart, domain.Totals, error) {

	parts := make([]models.WorkOrderPart, 0, len(specs))
	var totals domain.Totals

	for _, spec := range specs {
		p := domain.BuildPart(workOrderID, spec)
		if err := tx.InsertPart(ctx, &p); err != nil {
			return nil, domain.Totals{}, err
		}
		totals.AddPart(p)
		parts = append(parts, p)
	}

	return parts, totals, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func vehicleOf(wo *models.WorkOrder) string {
	v := domain.Deref(wo.VehicleMakeModel)
	if plate := domain.Deref(wo.Plate); plate != "" {
		if v != "" {
			v += " "
		}
		v += plate
	}
	return v
}
