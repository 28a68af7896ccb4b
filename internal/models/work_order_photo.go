package models

import "time"

type WorkOrderPhoto struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	WorkOrderID uint `gorm:"index;not null" json:"work_order_id"`

	ObjectKey   string `gorm:"size:255;not null" json:"object_key"`
	URL         string `gorm:"size:500" json:"url"`
	ContentType string `gorm:"size:50" json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`

	CreatedBy *uint     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
