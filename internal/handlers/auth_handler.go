package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oto-servis/internal/audit"
	"github.com/BruksfildServices01/oto-servis/internal/config"
	"github.com/BruksfildServices01/oto-servis/internal/httperr"
	"github.com/BruksfildServices01/oto-servis/internal/logger"
	"github.com/BruksfildServices01/oto-servis/internal/middleware"
	"github.com/BruksfildServices01/oto-servis/internal/models"
	"github.com/BruksfildServices01/oto-servis/internal/session"
)

type AuthHandler struct {
	db      *gorm.DB
	config  *config.Config
	revoker session.Revoker
	audit   auditSink
	log     *logger.Logger
}

func NewAuthHandler(
	db *gorm.DB,
	cfg *config.Config,
	revoker session.Revoker,
	audit auditSink,
	log *logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		db:      db,
		config:  cfg,
		revoker: revoker,
		audit:   audit,
		log:     log,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

func viewOf(u *models.User) userView {
	return userView{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Role:     u.Role,
		Status:   u.Status,
	}
}

// --------- Handlers ---------

// Register: o primeiro usuário vira admin aprovado; os demais aguardam aprovação.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Sunucu hatası.")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Username:     username,
		PasswordHash: string(hashed),
		Role:         models.RoleUser,
		Status:       models.UserStatusPending,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return httperr.ErrBusiness("username_taken")
		}

		var total int64
		if err := tx.Model(&models.User{}).Count(&total).Error; err != nil {
			return err
		}
		if total == 0 {
			user.Role = models.RoleAdmin
			user.Status = models.UserStatusApproved
		}

		return tx.Create(&user).Error
	})
	if err != nil {
		if httperr.IsBusiness(err, "username_taken") || httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "username_taken", "Bu kullanıcı adı zaten kayıtlı.")
			return
		}
		httperr.FromError(c, err, "failed_to_create_user")
		return
	}

	h.audit.Dispatch(auditEntryFor(c, &user.ID, "register", "Yeni kullanıcı: "+user.Username))

	resp := gin.H{"user": viewOf(&user)}
	if user.Status == models.UserStatusApproved {
		token, err := h.generateToken(&user)
		if err != nil {
			httperr.Internal(c, "failed_to_generate_token", "Sunucu hatası.")
			return
		}
		resp["token"] = token
	} else {
		resp["message"] = "Kayıt alındı, yönetici onayı bekleniyor."
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("username = ?", username).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Kullanıcı adı veya şifre hatalı.")
			return
		}
		httperr.Internal(c, "internal_error", "Sunucu hatası.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Kullanıcı adı veya şifre hatalı.")
		return
	}

	switch user.Status {
	case models.UserStatusApproved:
	case models.UserStatusRejected:
		httperr.Forbidden(c, "account_rejected", "Hesabınız reddedildi.")
		return
	default:
		httperr.Forbidden(c, "account_pending", "Hesabınız henüz onaylanmadı.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Sunucu hatası.")
		return
	}

	h.audit.Dispatch(auditEntryFor(c, &user.ID, "login", "Giriş: "+user.Username))

	c.JSON(http.StatusOK, gin.H{
		"user":  viewOf(&user),
		"token": token,
	})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		httperr.Unauthorized(c, "user_not_found", "Oturum geçersiz, lütfen tekrar giriş yapın.")
		return
	}
	if user.Status != models.UserStatusApproved {
		httperr.Forbidden(c, "account_pending", "Hesabınız henüz onaylanmadı.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "user": viewOf(&user)})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString(middleware.ContextTokenID)
	exp, _ := c.Get(middleware.ContextTokenExp)
	until, _ := exp.(time.Time)
	if until.IsZero() {
		until = time.Now().Add(h.config.JWT.TTL)
	}

	if err := h.revoker.Revoke(c.Request.Context(), jti, until); err != nil {
		h.log.Error(c.Request.Context(), "token revoke failed", err)
		httperr.Internal(c, "logout_failed", "Sunucu hatası.")
		return
	}

	h.audit.Dispatch(auditEntry(c, "logout", "Çıkış", "users", nil))

	c.JSON(http.StatusOK, gin.H{"message": "Çıkış yapıldı."})
}

// ======================================================
// USERS (ADMIN)
// ======================================================

func (h *AuthHandler) ListUsers(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.User{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var users []models.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Sunucu hatası.")
		return
	}

	out := make([]userView, 0, len(users))
	for i := range users {
		out = append(out, viewOf(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) ApproveUser(c *gin.Context) {
	h.setStatus(c, models.UserStatusApproved, "user_approved")
}

func (h *AuthHandler) RejectUser(c *gin.Context) {
	h.setStatus(c, models.UserStatusRejected, "user_rejected")
}

func (h *AuthHandler) setStatus(c *gin.Context, status, action string) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if id == c.GetUint(middleware.ContextUserID) {
		httperr.Write(c, http.StatusUnprocessableEntity, "cannot_change_self", "Kendi hesabınızı değiştiremezsiniz.")
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_update_user", "Sunucu hatası.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "user_not_found", "Kullanıcı bulunamadı.")
		return
	}

	h.audit.Dispatch(auditEntry(c, action, "Kullanıcı durumu: "+status, "users", &id))

	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

func (h *AuthHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if id == c.GetUint(middleware.ContextUserID) {
		httperr.Write(c, http.StatusUnprocessableEntity, "cannot_change_self", "Kendi hesabınızı silemezsiniz.")
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.User{}, id)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_user", "Sunucu hatası.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "user_not_found", "Kullanıcı bulunamadı.")
		return
	}

	h.audit.Dispatch(auditEntry(c, "user_deleted", "Kullanıcı silindi", "users", &id))

	c.JSON(http.StatusOK, gin.H{"message": "Kullanıcı silindi."})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"role":     user.Role,
		"username": user.Username,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(h.config.JWT.TTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWT.Secret))
}

// auditEntryFor é usado antes de existir usuário no contexto (register/login).
func auditEntryFor(c *gin.Context, userID *uint, action, detail string) audit.Entry {
	e := auditEntry(c, action, detail, "users", userID)
	e.UserID = userID
	return e
}
