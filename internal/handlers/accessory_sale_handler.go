package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oto-servis/internal/config"
	domain "github.com/BruksfildServices01/oto-servis/internal/domain/workorder"
	"github.com/BruksfildServices01/oto-servis/internal/dto"
	"github.com/BruksfildServices01/oto-servis/internal/httperr"
	"github.com/BruksfildServices01/oto-servis/internal/httpresp"
	"github.com/BruksfildServices01/oto-servis/internal/logger"
	"github.com/BruksfildServices01/oto-servis/internal/middleware"
	"github.com/BruksfildServices01/oto-servis/internal/models"
	"github.com/BruksfildServices01/oto-servis/internal/timezone"
)

type AccessorySaleHandler struct {
	db    *gorm.DB
	loc   *time.Location
	audit auditSink
	log   *logger.Logger
}

func NewAccessorySaleHandler(
	db *gorm.DB,
	cfg *config.Config,
	audit auditSink,
	log *logger.Logger,
) *AccessorySaleHandler {
	return &AccessorySaleHandler{
		db:    db,
		loc:   timezone.Location(cfg.Shop.Timezone),
		audit: audit,
		log:   log,
	}
}

type AccessoryItemRequest struct {
	Name      string           `json:"name" binding:"required,max=150"`
	Quantity  dto.LooseDecimal `json:"quantity"`
	UnitPrice dto.LooseDecimal `json:"unit_price"`
	UnitCost  dto.LooseDecimal `json:"unit_cost"`
}

type AccessorySaleRequest struct {
	CustomerName  *string                `json:"customer_name"`
	CustomerPhone *string                `json:"customer_phone" binding:"omitempty,phone"`
	SaleDate      dto.LooseDate          `json:"sale_date"`
	PaymentDetail *string                `json:"payment_detail"`
	Items         []AccessoryItemRequest `json:"items" binding:"required,min=1,dive"`
}

// buildSale monta a venda com totais derivados dos itens.
func buildSale(req AccessorySaleRequest) (models.AccessorySale, error) {
	sale := models.AccessorySale{
		CustomerName:  domain.Blank(req.CustomerName),
		CustomerPhone: domain.Blank(req.CustomerPhone),
		PaymentDetail: domain.Blank(req.PaymentDetail),
		Items:         make([]models.AccessorySaleItem, 0, len(req.Items)),
	}

	revenue := decimal.Zero
	cost := decimal.Zero

	for _, it := range req.Items {
		qty := decimal.NewFromInt(1)
		if it.Quantity.Valid {
			qty = it.Quantity.Value.Round(domain.Scale)
		}
		if !qty.IsPositive() {
			return sale, httperr.ErrBusiness("invalid_quantity")
		}

		price := it.UnitPrice.OrZero().Round(domain.Scale)
		unitCost := it.UnitCost.OrZero().Round(domain.Scale)
		line := qty.Mul(price).Round(domain.Scale)

		sale.Items = append(sale.Items, models.AccessorySaleItem{
			Name:      strings.TrimSpace(it.Name),
			Quantity:  qty,
			UnitPrice: price,
			UnitCost:  unitCost,
			LineTotal: line,
		})

		revenue = revenue.Add(line)
		cost = cost.Add(qty.Mul(unitCost))
	}

	sale.TotalPrice = revenue.Round(domain.Scale)
	sale.TotalCost = cost.Round(domain.Scale)
	sale.Profit = sale.TotalPrice.Sub(sale.TotalCost)
	return sale, nil
}

// --------- Handlers ---------

func (h *AccessorySaleHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	from, to, ok := dateWindow(c, h.loc)
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.AccessorySale{})
	if from != nil {
		q = q.Where("sale_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("sale_date < ?", *to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_sales", "Sunucu hatası.")
		return
	}

	var rows []models.AccessorySale
	if err := q.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("sale_date DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_list_sales", "Sunucu hatası.")
		return
	}

	httpresp.Page(c, rows, total, page, limit)
}

func (h *AccessorySaleHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var sale models.AccessorySale
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "sale_not_found", "Satış bulunamadı.")
			return
		}
		httperr.Internal(c, "failed_to_get_sale", "Sunucu hatası.")
		return
	}

	httpresp.OK(c, sale)
}

func (h *AccessorySaleHandler) Create(c *gin.Context) {
	var req AccessorySaleRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := buildSale(req)
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_sale")
		return
	}

	date, err := req.SaleDate.Time(h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Geçersiz tarih.")
		return
	}
	if date == nil {
		now := time.Now().UTC()
		date = &now
	}
	sale.SaleDate = *date
	sale.CreatedBy = middleware.ActorFrom(c).UserIDPtr()

	ctx := c.Request.Context()

	// venda e itens entram juntos ou nada entra
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&sale).Error
	})
	if err != nil {
		h.log.Error(ctx, "accessory sale rolled back", err)
		httperr.FromError(c, err, "failed_to_create_sale")
		return
	}

	h.audit.Dispatch(auditEntry(c, "accessory_sale_created",
		fmt.Sprintf("Aksesuar satışı #%d - %s", sale.ID, sale.TotalPrice.StringFixed(2)), "accessory_sales", &sale.ID))

	httpresp.Created(c, sale)
}

func (h *AccessorySaleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var affected int64

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("accessory_sale_id = ?", id).Delete(&models.AccessorySaleItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.AccessorySale{}, id)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_delete_sale", "Sunucu hatası.")
		return
	}
	if affected == 0 {
		httperr.NotFound(c, "sale_not_found", "Satış bulunamadı.")
		return
	}

	h.audit.Dispatch(auditEntry(c, "accessory_sale_deleted",
		fmt.Sprintf("Aksesuar satışı #%d silindi", id), "accessory_sales", &id))

	httpresp.OK(c, gin.H{"message": "Satış silindi."})
}
