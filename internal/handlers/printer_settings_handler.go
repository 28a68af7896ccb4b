package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/oto-servis/internal/httperr"
	"github.com/BruksfildServices01/oto-servis/internal/httpresp"
	"github.com/BruksfildServices01/oto-servis/internal/middleware"
	"github.com/BruksfildServices01/oto-servis/internal/models"
	"github.com/BruksfildServices01/oto-servis/internal/printout"
)

type PrinterSettingsHandler struct {
	db    *gorm.DB
	audit auditSink
}

func NewPrinterSettingsHandler(db *gorm.DB, audit auditSink) *PrinterSettingsHandler {
	return &PrinterSettingsHandler{db: db, audit: audit}
}

// Get devolve {} enquanto nada foi salvo.
func (h *PrinterSettingsHandler) Get(c *gin.Context) {
	var row models.PrinterSetting
	err := h.db.WithContext(c.Request.Context()).First(&row, models.PrinterSettingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpresp.OK(c, gin.H{"settings": json.RawMessage("{}")})
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_load_printer_settings", "Sunucu hatası.")
		return
	}

	httpresp.OK(c, row)
}

func (h *PrinterSettingsHandler) Update(c *gin.Context) {
	var body map[string]any
	if !bindJSON(c, &body) {
		return
	}

	// aceita tanto {"settings": {...}} quanto o objeto direto
	payload := any(body)
	if inner, ok := body["settings"].(map[string]any); ok && len(body) == 1 {
		payload = inner
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Geçersiz istek.")
		return
	}

	userID := c.GetUint(middleware.ContextUserID)
	row := models.PrinterSetting{
		ID:        models.PrinterSettingID,
		Settings:  datatypes.JSON(raw),
		UpdatedBy: &userID,
	}

	if err := h.db.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"settings", "updated_by", "updated_at"}),
		}).
		Create(&row).Error; err != nil {
		httperr.Internal(c, "failed_to_save_printer_settings", "Sunucu hatası.")
		return
	}

	h.audit.Dispatch(auditEntry(c, "printer_settings_updated", "Yazıcı ayarları güncellendi", "printer_settings", nil))

	httpresp.OK(c, row)
}

// printerHeader lê o cabeçalho da ficha; ausência de configuração usa o padrão.
func printerHeader(ctx context.Context, db *gorm.DB) printout.Header {
	var row models.PrinterSetting
	if err := db.WithContext(ctx).First(&row, models.PrinterSettingID).Error; err != nil {
		return printout.HeaderFrom(nil)
	}
	return printout.HeaderFrom(row.Settings)
}
