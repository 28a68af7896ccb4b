package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oto-servis/internal/httperr"
	"github.com/BruksfildServices01/oto-servis/internal/httpresp"
	"github.com/BruksfildServices01/oto-servis/internal/infra/repository"
	"github.com/BruksfildServices01/oto-servis/internal/models"
)

const customerSearchLimit = 20

type CustomerHandler struct {
	repo  *repository.CustomerGormRepository
	audit auditSink
}

func NewCustomerHandler(db *gorm.DB, audit auditSink) *CustomerHandler {
	return &CustomerHandler{
		repo:  repository.NewCustomerGormRepository(db),
		audit: audit,
	}
}

type CustomerRequest struct {
	FullName string `json:"full_name" binding:"required,max=150"`
	Address  string `json:"address" binding:"max=255"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
}

// --------- Handlers ---------

func (h *CustomerHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	rows, total, err := h.repo.List(c.Request.Context(), page, limit)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_customers")
		return
	}

	httpresp.Page(c, rows, total, page, limit)
}

func (h *CustomerHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		httpresp.List(c, []models.Customer{})
		return
	}

	rows, err := h.repo.Search(c.Request.Context(), q, customerSearchLimit)
	if err != nil {
		httperr.FromError(c, err, "failed_to_search_customers")
		return
	}

	httpresp.List(c, rows)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	customer, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed_to_get_customer")
		return
	}

	httpresp.OK(c, customer)
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer := models.Customer{
		FullName: strings.TrimSpace(req.FullName),
		Address:  strings.TrimSpace(req.Address),
		Phone:    req.Phone,
	}
	if err := h.repo.Create(c.Request.Context(), &customer); err != nil {
		httperr.FromError(c, err, "failed_to_create_customer")
		return
	}

	h.audit.Dispatch(auditEntry(c, "customer_created", "Müşteri: "+customer.FullName, "customers", &customer.ID))

	httpresp.Created(c, customer)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	customer, err := h.repo.FindByID(ctx, id)
	if err != nil {
		h.fail(c, err, "failed_to_update_customer")
		return
	}

	customer.FullName = strings.TrimSpace(req.FullName)
	customer.Address = strings.TrimSpace(req.Address)
	customer.Phone = req.Phone

	if err := h.repo.Update(ctx, customer); err != nil {
		httperr.FromError(c, err, "failed_to_update_customer")
		return
	}

	h.audit.Dispatch(auditEntry(c, "customer_updated", "Müşteri: "+customer.FullName, "customers", &customer.ID))

	httpresp.OK(c, customer)
}

// Delete mantém as ordens do cliente, apenas sem vínculo.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	affected, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err, "failed_to_delete_customer")
		return
	}
	if affected == 0 {
		httperr.NotFound(c, "customer_not_found", "Müşteri bulunamadı.")
		return
	}

	h.audit.Dispatch(auditEntry(c, "customer_deleted", fmt.Sprintf("Müşteri #%d silindi", id), "customers", &id))

	httpresp.OK(c, gin.H{"message": "Müşteri silindi."})
}

func (h *CustomerHandler) fail(c *gin.Context, err error, fallback string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "customer_not_found", "Müşteri bulunamadı.")
		return
	}
	httperr.FromError(c, err, fallback)
}
