package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oto-servis/internal/config"
	domain "github.com/BruksfildServices01/oto-servis/internal/domain/workorder"
	"github.com/BruksfildServices01/oto-servis/internal/httperr"
	"github.com/BruksfildServices01/oto-servis/internal/httpresp"
	"github.com/BruksfildServices01/oto-servis/internal/imaging"
	"github.com/BruksfildServices01/oto-servis/internal/logger"
	"github.com/BruksfildServices01/oto-servis/internal/middleware"
	"github.com/BruksfildServices01/oto-servis/internal/models"
	"github.com/BruksfildServices01/oto-servis/internal/storage"
)

type PhotoHandler struct {
	db      *gorm.DB
	store   storage.ObjectStore
	opts    imaging.Options
	maxSize int64
	audit   auditSink
	log     *logger.Logger
}

func NewPhotoHandler(
	db *gorm.DB,
	cfg *config.Config,
	store storage.ObjectStore,
	audit auditSink,
	log *logger.Logger,
) *PhotoHandler {
	return &PhotoHandler{
		db:    db,
		store: store,
		opts: imaging.Options{
			MaxWidth: cfg.Photo.MaxWidth,
			Quality:  cfg.Photo.Quality,
		},
		maxSize: int64(cfg.Photo.MaxUploadMB) << 20,
		audit:   audit,
		log:     log,
	}
}

func (h *PhotoHandler) List(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, ok := h.loadOrder(c, id); !ok {
		return
	}

	var photos []models.WorkOrderPhoto
	if err := h.db.WithContext(c.Request.Context()).
		Where("work_order_id = ?", id).
		Order("id ASC").
		Find(&photos).Error; err != nil {
		httperr.Internal(c, "failed_to_list_photos", "Sunucu hatası.")
		return
	}

	httpresp.List(c, photos)
}

// Upload recebe multipart "photo", converte para WebP e envia ao bucket.
func (h *PhotoHandler) Upload(c *gin.Context) {
	if h.store == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "storage_disabled", "Fotoğraf depolama yapılandırılmamış.")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	wo, ok := h.loadOrder(c, id)
	if !ok {
		return
	}

	a := middleware.ActorFrom(c)
	if err := domain.CanModify(domain.Status(wo.Status), a.IsAdmin()); err != nil {
		httperr.FromError(c, err, "failed_to_upload_photo")
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "invalid_photo", "Fotoğraf dosyası gerekli.")
		return
	}
	if h.maxSize > 0 && file.Size > h.maxSize {
		httperr.Write(c, http.StatusRequestEntityTooLarge, "photo_too_large", "Fotoğraf çok büyük.")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_photo", "Fotoğraf okunamadı.")
		return
	}
	defer src.Close()

	img, err := imaging.ToWebP(src, h.opts)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedImage) {
			httperr.BadRequest(c, "invalid_photo", "Desteklenmeyen görsel formatı.")
			return
		}
		h.log.Error(c.Request.Context(), "photo encode failed", err)
		httperr.Internal(c, "failed_to_process_photo", "Sunucu hatası.")
		return
	}

	ctx := c.Request.Context()
	key := fmt.Sprintf("work-orders/%d/%s.webp", wo.ID, uuid.NewString())

	url, err := h.store.Put(ctx, key, img.Data, imaging.ContentTypeWebP)
	if err != nil {
		h.log.Error(ctx, "photo upload failed", err)
		httperr.Internal(c, "failed_to_upload_photo", "Sunucu hatası.")
		return
	}

	photo := models.WorkOrderPhoto{
		WorkOrderID: wo.ID,
		ObjectKey:   key,
		URL:         url,
		ContentType: imaging.ContentTypeWebP,
		SizeBytes:   int64(len(img.Data)),
		Width:       img.Width,
		Height:      img.Height,
		CreatedBy:   a.UserIDPtr(),
	}
	if err := h.db.WithContext(ctx).Create(&photo).Error; err != nil {
		// objeto órfão no bucket
		if delErr := h.store.Delete(ctx, key); delErr != nil {
			h.log.Error(ctx, "orphan photo cleanup failed", delErr)
		}
		httperr.Internal(c, "failed_to_save_photo", "Sunucu hatası.")
		return
	}

	h.audit.Dispatch(auditEntry(c, "work_order_photo_added",
		fmt.Sprintf("Fiş #%d fotoğraf eklendi", wo.TicketNo), "work_order_photos", &photo.ID))

	httpresp.Created(c, photo)
}

func (h *PhotoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	photoID, ok := parseID(c, "photoId")
	if !ok {
		return
	}

	wo, ok := h.loadOrder(c, id)
	if !ok {
		return
	}

	a := middleware.ActorFrom(c)
	if err := domain.CanModify(domain.Status(wo.Status), a.IsAdmin()); err != nil {
		httperr.FromError(c, err, "failed_to_delete_photo")
		return
	}

	ctx := c.Request.Context()

	var photo models.WorkOrderPhoto
	if err := h.db.WithContext(ctx).
		Where("id = ? AND work_order_id = ?", photoID, id).
		First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "photo_not_found", "Fotoğraf bulunamadı.")
			return
		}
		httperr.Internal(c, "failed_to_delete_photo", "Sunucu hatası.")
		return
	}

	if err := h.db.WithContext(ctx).Delete(&photo).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_photo", "Sunucu hatası.")
		return
	}

	if h.store != nil {
		if err := h.store.Delete(ctx, photo.ObjectKey); err != nil {
			h.log.Error(ctx, "photo object cleanup failed", err)
		}
	}

	h.audit.Dispatch(auditEntry(c, "work_order_photo_deleted",
		fmt.Sprintf("Fiş #%d fotoğraf silindi", wo.TicketNo), "work_order_photos", &photo.ID))

	httpresp.OK(c, gin.H{"message": "Fotoğraf silindi."})
}

func (h *PhotoHandler) loadOrder(c *gin.Context, id uint) (*models.WorkOrder, bool) {
	var wo models.WorkOrder
	err := h.db.WithContext(c.Request.Context()).First(&wo, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "work_order_not_found", "İş emri bulunamadı.")
		return nil, false
	}
	if err != nil {
		httperr.Internal(c, "failed_to_get_work_order", "Sunucu hatası.")
		return nil, false
	}
	return &wo, true
}

