package validators

import (
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/oto-servis/internal/domain/workorder"
)

var once sync.Once

// Register adiciona as regras customizadas ao validator do gin.
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("workorder_status", func(fl validator.FieldLevel) bool {
			return workorder.Status(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return IsPhone(fl.Field().String())
		})
	})
}

// IsPhone aceita dígitos com separadores comuns ("+90 (555) 123-45 67").
func IsPhone(raw string) bool {
	digits := 0
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}
