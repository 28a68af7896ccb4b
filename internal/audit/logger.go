package audit

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/oto-servis/internal/models"
)

// Entry é o único formato aceito pelo log de atividades.
type Entry struct {
	UserID      *uint
	Action      string
	Detail      string
	TargetTable string
	TargetID    *uint
	IPAddress   string
	UserAgent   string
}

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, e Entry) error {
	row := models.ActivityLog{
		UserID:      e.UserID,
		Action:      e.Action,
		Detail:      e.Detail,
		TargetTable: e.TargetTable,
		TargetID:    e.TargetID,
		IPAddress:   e.IPAddress,
		UserAgent:   truncate(e.UserAgent, 255),
	}

	return l.db.WithContext(ctx).Create(&row).Error
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
