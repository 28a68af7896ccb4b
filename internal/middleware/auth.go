package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oto-servis/internal/config"
	"github.com/BruksfildServices01/oto-servis/internal/domain/actor"
	"github.com/BruksfildServices01/oto-servis/internal/httperr"
	"github.com/BruksfildServices01/oto-servis/internal/logger"
	"github.com/BruksfildServices01/oto-servis/internal/models"
	"github.com/BruksfildServices01/oto-servis/internal/session"
)

const (
	ContextUserID    = "userID"
	ContextUserRole  = "userRole"
	ContextTokenID   = "tokenID"
	ContextTokenExp  = "tokenExp"
	ContextRequestID = "requestID"
)

// AuthMiddleware valida o token e relê o usuário a cada requisição:
// conta rejeitada, pendente ou removida perde o acesso na hora.
func AuthMiddleware(
	cfg *config.Config,
	db *gorm.DB,
	revoker session.Revoker,
	log *logger.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing_authorization_header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid_authorization_header")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWT.Secret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid_token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid_token_claims")
			return
		}

		userID, ok := claims["sub"].(float64)
		if !ok || userID <= 0 {
			abortUnauthorized(c, "invalid_token_payload")
			return
		}

		jti, _ := claims["jti"].(string)
		if jti != "" {
			revoked, err := revoker.IsRevoked(c.Request.Context(), jti)
			if err != nil {
				// revogação indisponível não derruba a API
				log.Error(c.Request.Context(), "token revocation lookup failed", err)
			} else if revoked {
				abortUnauthorized(c, "token_revoked")
				return
			}
		}

		// --------------------------------------------------
		// Situação atual da conta
		// --------------------------------------------------
		var user models.User
		err = db.WithContext(c.Request.Context()).
			Select("id", "role", "status").
			First(&user, uint(userID)).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortUnauthorized(c, "user_not_found")
			return
		}
		if err != nil {
			log.Error(c.Request.Context(), "auth user lookup failed", err)
			httperr.Internal(c, "auth_lookup_failed", "Sunucu hatası.")
			c.Abort()
			return
		}
		switch user.Status {
		case models.UserStatusApproved:
		case models.UserStatusRejected:
			abortForbidden(c, "account_rejected", "Hesabınız reddedildi.")
			return
		default:
			abortForbidden(c, "account_pending", "Hesabınız henüz onaylanmadı.")
			return
		}

		var exp time.Time
		if v, err := claims.GetExpirationTime(); err == nil && v != nil {
			exp = v.Time
		}

		// papel vem do banco, não do token
		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)
		c.Set(ContextTokenID, jti)
		c.Set(ContextTokenExp, exp)

		ctx := log.WithUserID(c.Request.Context(), user.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAdmin vem sempre depois do AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != models.RoleAdmin {
			httperr.Forbidden(c, httperr.CodeForbidden, "Bu işlem için yönetici yetkisi gerekli.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActorFrom monta o ator da requisição autenticada.
func ActorFrom(c *gin.Context) actor.Actor {
	return actor.Actor{
		UserID:    c.GetUint(ContextUserID),
		Role:      c.GetString(ContextUserRole),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func abortUnauthorized(c *gin.Context, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{
		Code:    code,
		Message: "Oturum geçersiz, lütfen tekrar giriş yapın.",
	})
}

func abortForbidden(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, httperr.HTTPError{
		Code:    code,
		Message: message,
	})
}
