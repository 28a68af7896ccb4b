package models

import "time"

// Customer é criado na primeira ordem com um telefone novo.
type Customer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FullName string `gorm:"size:150;not null" json:"full_name"`
	Address  string `gorm:"size:255" json:"address"`
	Phone    string `gorm:"size:30;index" json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
