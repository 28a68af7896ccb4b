package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oto-servis/internal/config"
	domain "github.com/BruksfildServices01/oto-servis/internal/domain/workorder"
	"github.com/BruksfildServices01/oto-servis/internal/dto"
	"github.com/BruksfildServices01/oto-servis/internal/httperr"
	"github.com/BruksfildServices01/oto-servis/internal/httpresp"
	"github.com/BruksfildServices01/oto-servis/internal/middleware"
	"github.com/BruksfildServices01/oto-servis/internal/models"
	"github.com/BruksfildServices01/oto-servis/internal/timezone"
)

type ExpenseHandler struct {
	db    *gorm.DB
	loc   *time.Location
	audit auditSink
}

func NewExpenseHandler(db *gorm.DB, cfg *config.Config, audit auditSink) *ExpenseHandler {
	return &ExpenseHandler{
		db:    db,
		loc:   timezone.Location(cfg.Shop.Timezone),
		audit: audit,
	}
}

type ExpenseRequest struct {
	Category      string           `json:"category" binding:"required,max=50"`
	Description   *string          `json:"description"`
	Amount        dto.LooseDecimal `json:"amount"`
	ExpenseDate   dto.LooseDate    `json:"expense_date"`
	PaymentMethod *string          `json:"payment_method"`
}

// apply valida e copia para o modelo; data ausente vira hoje.
func (r ExpenseRequest) apply(e *models.Expense, loc *time.Location) error {
	if !r.Amount.Valid || !r.Amount.Value.IsPositive() {
		return httperr.ErrBusiness("invalid_amount")
	}

	date, err := r.ExpenseDate.Time(loc)
	if err != nil {
		return httperr.ErrBusiness("invalid_date")
	}
	if date == nil {
		today := timezone.StartOfDay(time.Now().In(loc)).UTC()
		date = &today
	}

	e.Category = strings.TrimSpace(r.Category)
	e.Description = domain.Blank(r.Description)
	e.Amount = r.Amount.Value.Round(2)
	e.ExpenseDate = *date
	e.PaymentMethod = domain.Blank(r.PaymentMethod)
	return nil
}

// --------- Handlers ---------

func (h *ExpenseHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	from, to, ok := dateWindow(c, h.loc)
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.Expense{})
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		q = q.Where("category = ?", category)
	}
	if from != nil {
		q = q.Where("expense_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("expense_date < ?", *to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_expenses", "Sunucu hatası.")
		return
	}

	var rows []models.Expense
	if err := q.
		Order("expense_date DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_list_expenses", "Sunucu hatası.")
		return
	}

	httpresp.Page(c, rows, total, page, limit)
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	var req ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	var e models.Expense
	if err := req.apply(&e, h.loc); err != nil {
		httperr.FromError(c, err, "failed_to_create_expense")
		return
	}
	e.CreatedBy = middleware.ActorFrom(c).UserIDPtr()

	if err := h.db.WithContext(c.Request.Context()).Create(&e).Error; err != nil {
		httperr.FromError(c, err, "failed_to_create_expense")
		return
	}

	h.audit.Dispatch(auditEntry(c, "expense_created",
		fmt.Sprintf("Gider: %s %s", e.Category, e.Amount.StringFixed(2)), "expenses", &e.ID))

	httpresp.Created(c, e)
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	var e models.Expense
	if err := h.db.WithContext(ctx).First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "expense_not_found", "Gider bulunamadı.")
			return
		}
		httperr.Internal(c, "failed_to_update_expense", "Sunucu hatası.")
		return
	}

	if err := req.apply(&e, h.loc); err != nil {
		httperr.FromError(c, err, "failed_to_update_expense")
		return
	}

	if err := h.db.WithContext(ctx).Save(&e).Error; err != nil {
		httperr.FromError(c, err, "failed_to_update_expense")
		return
	}

	h.audit.Dispatch(auditEntry(c, "expense_updated",
		fmt.Sprintf("Gider: %s %s", e.Category, e.Amount.StringFixed(2)), "expenses", &e.ID))

	httpresp.OK(c, e)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Expense{}, id)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_expense", "Sunucu hatası.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "expense_not_found", "Gider bulunamadı.")
		return
	}

	h.audit.Dispatch(auditEntry(c, "expense_deleted", fmt.Sprintf("Gider #%d silindi", id), "expenses", &id))

	httpresp.OK(c, gin.H{"message": "Gider silindi."})
}
