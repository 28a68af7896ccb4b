package httperr

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

// FromError é o único ponto que traduz erros de use case em HTTP.
// fallback é o código usado para erros inesperados (500).
func FromError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	if code := BusinessCode(err); code != "" {
		status := StatusFor(code)
		Write(c, status, code, messageFor(status))
		return
	}

	if IsUniqueViolation(err) {
		Conflict(c, "conflict", messageFor(http.StatusConflict))
		return
	}

	Internal(c, fallback, messageFor(http.StatusInternalServerError))
}

func StatusFor(code string) int {
	switch {
	case code == CodeForbidden || code == CodeWorkOrderCompleted:
		return http.StatusForbidden
	case code == CodeTicketConflict:
		return http.StatusConflict
	case strings.HasSuffix(code, "_not_found"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "invalid_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_disabled"):
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}

func messageFor(status int) string {
	switch status {
	case http.StatusForbidden:
		return "Bu işlem için yetkiniz yok."
	case http.StatusNotFound:
		return "Kayıt bulunamadı."
	case http.StatusBadRequest:
		return "Geçersiz istek."
	case http.StatusConflict:
		return "Kayıt çakışması."
	case http.StatusServiceUnavailable:
		return "Servis kullanılamıyor."
	case http.StatusInternalServerError:
		return "Sunucu hatası."
	default:
		return "İşlem gerçekleştirilemedi."
	}
}
