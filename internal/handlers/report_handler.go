package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oto-servis/internal/config"
	"github.com/BruksfildServices01/oto-servis/internal/httperr"
	"github.com/BruksfildServices01/oto-servis/internal/httpresp"
	"github.com/BruksfildServices01/oto-servis/internal/infra/repository"
	reportuc "github.com/BruksfildServices01/oto-servis/internal/usecase/report"
)

type ReportHandler struct {
	reports *reportuc.Reports
}

func NewReportHandler(db *gorm.DB, cfg *config.Config) *ReportHandler {
	return &ReportHandler{
		reports: reportuc.NewReports(repository.NewReportGormRepository(db), cfg.Shop.Timezone),
	}
}

func (h *ReportHandler) Daily(c *gin.Context) {
	out, err := h.reports.Daily(c.Request.Context(), c.Query("date"))
	if err != nil {
		httperr.FromError(c, err, "failed_to_build_report")
		return
	}
	httpresp.OK(c, out)
}

func (h *ReportHandler) Range(c *gin.Context) {
	out, err := h.reports.Range(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		httperr.FromError(c, err, "failed_to_build_report")
		return
	}
	httpresp.OK(c, out)
}

func (h *ReportHandler) Summary(c *gin.Context) {
	out, err := h.reports.Summary(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err, "failed_to_build_report")
		return
	}
	httpresp.OK(c, out)
}

func (h *ReportHandler) TicketProfit(c *gin.Context) {
	out, err := h.reports.TicketProfit(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		httperr.FromError(c, err, "failed_to_build_report")
		return
	}
	httpresp.OK(c, out)
}

func (h *ReportHandler) WorkOrderDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	out, err := h.reports.OrderDetail(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err, "failed_to_build_report")
		return
	}
	httpresp.OK(c, out)
}
