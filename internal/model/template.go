package model

import (
	"time"

	"gorm.io/gorm"
)

// Template is a reusable subject + HTML body with {{Variable}}
// placeholders. Campaigns reference a template only at creation time;
// deleting one never touches already-queued logs.
type Template struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint           `json:"user_id" gorm:"not null;index"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	Subject   string         `json:"subject" gorm:"type:varchar(512);not null"`
	Body      string         `json:"body" gorm:"type:longtext;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for Template
func (Template) TableName() string {
	return "templates"
}
