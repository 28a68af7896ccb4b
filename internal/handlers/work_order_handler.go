package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oto-servis/internal/config"
	domain "github.com/BruksfildServices01/oto-servis/internal/domain/workorder"
	"github.com/BruksfildServices01/oto-servis/internal/dto"
	"github.com/BruksfildServices01/oto-servis/internal/httperr"
	"github.com/BruksfildServices01/oto-servis/internal/httpresp"
	"github.com/BruksfildServices01/oto-servis/internal/infra/repository"
	"github.com/BruksfildServices01/oto-servis/internal/logger"
	"github.com/BruksfildServices01/oto-servis/internal/metrics"
	"github.com/BruksfildServices01/oto-servis/internal/middleware"
	"github.com/BruksfildServices01/oto-servis/internal/models"
	"github.com/BruksfildServices01/oto-servis/internal/printout"
	"github.com/BruksfildServices01/oto-servis/internal/storage"
	"github.com/BruksfildServices01/oto-servis/internal/timezone"
	workorderuc "github.com/BruksfildServices01/oto-servis/internal/usecase/workorder"
)

type WorkOrderHandler struct {
	db      *gorm.DB
	store   storage.ObjectStore
	metrics *metrics.WorkOrderMetrics
	loc     *time.Location
	log     *logger.Logger

	create     *workorderuc.CreateWorkOrder
	update     *workorderuc.UpdateWorkOrder
	addPart    *workorderuc.AddPart
	deletePart *workorderuc.DeletePart
	remove     *workorderuc.DeleteWorkOrder
	complete   *workorderuc.CompleteWorkOrder
	get        *workorderuc.GetWorkOrder
	list       *workorderuc.ListWorkOrders
	next       *workorderuc.NextTicketNumber
}

func NewWorkOrderHandler(
	db *gorm.DB,
	cfg *config.Config,
	audit workorderuc.Auditor,
	store storage.ObjectStore,
	m *metrics.WorkOrderMetrics,
	log *logger.Logger,
) *WorkOrderHandler {
	repo := repository.NewWorkOrderGormRepository(db)
	policy := domain.CompletionPolicy{RequireAdmin: cfg.Policies.CompleteRequiresAdmin}

	return &WorkOrderHandler{
		db:      db,
		store:   store,
		metrics: m,
		loc:     timezone.Location(cfg.Shop.Timezone),
		log:     log,

		create:     workorderuc.NewCreateWorkOrder(repo, audit, log),
		update:     workorderuc.NewUpdateWorkOrder(repo, audit, log),
		addPart:    workorderuc.NewAddPart(repo, audit, log),
		deletePart: workorderuc.NewDeletePart(repo, audit, log),
		remove:     workorderuc.NewDeleteWorkOrder(repo, audit, log),
		complete:   workorderuc.NewCompleteWorkOrder(repo, audit, log, policy),
		get:        workorderuc.NewGetWorkOrder(repo),
		list:       workorderuc.NewListWorkOrders(repo),
		next:       workorderuc.NewNextTicketNumber(repo),
	}
}

// ======================================================
// QUERIES
// ======================================================

func (h *WorkOrderHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	customerID, ok := queryUint(c, "customer_id")
	if !ok {
		return
	}
	from, to, ok := dateWindow(c, h.loc)
	if !ok {
		return
	}

	rows, total, err := h.list.Execute(c.Request.Context(), domain.ListFilter{
		Status:     c.Query("status"),
		CustomerID: customerID,
		Query:      c.Query("q"),
		From:       from,
		To:         to,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_work_orders")
		return
	}

	httpresp.Page(c, rows, total, page, limit)
}

func (h *WorkOrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	wo, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_work_order")
		return
	}

	httpresp.OK(c, wo)
}

func (h *WorkOrderHandler) NextTicketNumber(c *gin.Context) {
	n, err := h.next.Execute(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_ticket_number")
		return
	}

	httpresp.OK(c, gin.H{"next_ticket_no": n})
}

// ======================================================
// COMMANDS
// ======================================================

func (h *WorkOrderHandler) Create(c *gin.Context) {
	var req dto.CreateWorkOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	fields, err := req.Fields(h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Geçersiz tarih.")
		return
	}

	wo, err := h.create.Execute(c.Request.Context(), workorderuc.CreateWorkOrderInput{
		Actor:  middleware.ActorFrom(c),
		Fields: fields,
		Parts:  dto.PartSpecs(req.Parts),
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_work_order")
		return
	}

	h.metrics.Inc("created")
	httpresp.Created(c, wo)
}

func (h *WorkOrderHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateWorkOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	fields, err := req.Fields(h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Geçersiz tarih.")
		return
	}
	delivered, err := req.ActualDeliveryDate.Time(h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Geçersiz tarih.")
		return
	}

	wo, err := h.update.Execute(c.Request.Context(), workorderuc.UpdateWorkOrderInput{
		Actor:             middleware.ActorFrom(c),
		ID:                id,
		Fields:            fields,
		Status:            req.Status,
		CustomerSignature: req.CustomerSignature,
		DeliveredTo:       req.DeliveredTo,
		DeliveredBy:       req.DeliveredBy,
		ActualDeliveryAt:  delivered,
		Parts:             req.PartSpecs(),
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_update_work_order")
		return
	}

	h.metrics.Inc("updated")
	httpresp.OK(c, wo)
}

func (h *WorkOrderHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	wo, err := h.complete.Execute(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		httperr.FromError(c, err, "failed_to_complete_work_order")
		return
	}

	h.metrics.Inc("completed")
	httpresp.OK(c, wo)
}

// Delete remove a ordem e, sem bloquear a resposta, as fotos do storage.
func (h *WorkOrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	removed, err := h.remove.Execute(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		httperr.FromError(c, err, "failed_to_delete_work_order")
		return
	}

	h.purgePhotos(c.Request.Context(), removed.Photos)

	h.metrics.Inc("deleted")
	httpresp.OK(c, gin.H{"message": fmt.Sprintf("Fiş #%d silindi.", removed.TicketNo)})
}

func (h *WorkOrderHandler) purgePhotos(ctx context.Context, photos []models.WorkOrderPhoto) {
	if h.store == nil {
		return
	}
	for _, p := range photos {
		if err := h.store.Delete(ctx, p.ObjectKey); err != nil {
			h.log.Error(ctx, "photo object cleanup failed", err)
		}
	}
}

// ======================================================
// PARTS
// ======================================================

func (h *WorkOrderHandler) AddPart(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.PartRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.addPart.Execute(c.Request.Context(), middleware.ActorFrom(c), id, req.Spec())
	if err != nil {
		httperr.FromError(c, err, "failed_to_add_part")
		return
	}

	h.metrics.Inc("part_added")
	httpresp.Created(c, out)
}

// DeletePart responde 200 mesmo quando o item não pertence à ordem (deleted = 0).
func (h *WorkOrderHandler) DeletePart(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	partID, ok := parseID(c, "partId")
	if !ok {
		return
	}

	out, err := h.deletePart.Execute(c.Request.Context(), middleware.ActorFrom(c), id, partID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_delete_part")
		return
	}

	if out.Deleted > 0 {
		h.metrics.Inc("part_deleted")
	}
	httpresp.OK(c, out)
}

// ======================================================
// PRINT
// ======================================================

func (h *WorkOrderHandler) Print(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	wo, err := h.get.Execute(ctx, id)
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_work_order")
		return
	}

	pdf, err := printout.WorkOrder(wo, printerHeader(ctx, h.db), h.loc)
	if err != nil {
		h.log.Error(ctx, "work order pdf failed", err)
		httperr.Internal(c, "failed_to_render_pdf", "Sunucu hatası.")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="fis-%d.pdf"`, wo.TicketNo))
	c.Data(http.StatusOK, printout.ContentType, pdf)
}
