package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oto-servis/internal/config"
	"github.com/BruksfildServices01/oto-servis/internal/httperr"
	"github.com/BruksfildServices01/oto-servis/internal/httpresp"
	"github.com/BruksfildServices01/oto-servis/internal/middleware"
	"github.com/BruksfildServices01/oto-servis/internal/models"
	"github.com/BruksfildServices01/oto-servis/internal/timezone"
)

type ActivityLogHandler struct {
	db  *gorm.DB
	loc *time.Location
}

func NewActivityLogHandler(db *gorm.DB, cfg *config.Config) *ActivityLogHandler {
	return &ActivityLogHandler{
		db:  db,
		loc: timezone.Location(cfg.Shop.Timezone),
	}
}

// Mine lista apenas o histórico do próprio usuário.
func (h *ActivityLogHandler) Mine(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)
	h.list(c, &userID)
}

// All aceita user_id, action, start e end como filtros.
func (h *ActivityLogHandler) All(c *gin.Context) {
	userID, ok := queryUint(c, "user_id")
	if !ok {
		return
	}
	if userID == 0 {
		h.list(c, nil)
		return
	}
	h.list(c, &userID)
}

func (h *ActivityLogHandler) list(c *gin.Context, userID *uint) {
	page, limit := pageParams(c)

	from, to, ok := dateWindow(c, h.loc)
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.ActivityLog{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if action := strings.TrimSpace(c.Query("action")); action != "" {
		q = q.Where("action = ?", action)
	}
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at < ?", *to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_activity_logs", "Sunucu hatası.")
		return
	}

	var rows []models.ActivityLog
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_list_activity_logs", "Sunucu hatası.")
		return
	}

	httpresp.Page(c, rows, total, page, limit)
}
