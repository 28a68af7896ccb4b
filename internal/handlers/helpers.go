package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/oto-servis/internal/audit"
	"github.com/BruksfildServices01/oto-servis/internal/httperr"
	"github.com/BruksfildServices01/oto-servis/internal/middleware"
	"github.com/BruksfildServices01/oto-servis/internal/timezone"
)

// auditSink é satisfeito por *audit.Dispatcher.
type auditSink interface {
	Dispatch(e audit.Entry)
}

func parseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_id", "Geçersiz kimlik.")
		return 0, false
	}
	return uint(v), true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(err)
		httperr.BadRequest(c, "invalid_request", "Geçersiz istek.")
		return false
	}
	return true
}

// pageParams lê page/limit com defaults 1/20 e teto de 100.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func auditEntry(c *gin.Context, action, detail, table string, targetID *uint) audit.Entry {
	a := middleware.ActorFrom(c)
	return audit.Entry{
		UserID:      a.UserIDPtr(),
		Action:      action,
		Detail:      detail,
		TargetTable: table,
		TargetID:    targetID,
		IPAddress:   a.IPAddress,
		UserAgent:   a.UserAgent,
	}
}

// dateWindow lê start/end (dias do fuso da oficina); end é inclusivo.
func dateWindow(c *gin.Context, loc *time.Location) (*time.Time, *time.Time, bool) {
	var from, to *time.Time

	if raw := c.Query("start"); raw != "" {
		day, err := timezone.ParseDate(raw, loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Geçersiz tarih.")
			return nil, nil, false
		}
		start, _ := timezone.DayRange(day)
		start = start.UTC()
		from = &start
	}

	if raw := c.Query("end"); raw != "" {
		day, err := timezone.ParseDate(raw, loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Geçersiz tarih.")
			return nil, nil, false
		}
		_, end := timezone.DayRange(day)
		end = end.UTC()
		to = &end
	}

	if from != nil && to != nil && !from.Before(*to) {
		httperr.BadRequest(c, "invalid_date_range", "Geçersiz tarih aralığı.")
		return nil, nil, false
	}

	return from, to, true
}

func queryUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Geçersiz parametre.")
		return 0, false
	}
	return uint(v), true
}
