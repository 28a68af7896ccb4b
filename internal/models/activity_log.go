package models

import "time"

// ActivityLog é append-only.
type ActivityLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID *uint  `gorm:"index" json:"user_id"`
	Action string `gorm:"size:50;not null;index" json:"action"`
	Detail string `gorm:"type:text" json:"detail"`

	TargetTable string `gorm:"size:50" json:"target_table"`
	TargetID    *uint  `json:"target_id"`

	IPAddress string `gorm:"size:64" json:"ip_address"`
	UserAgent string `gorm:"size:255" json:"user_agent"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
