package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account holder. Password is empty for OAuth-only
// users. The SMTP fields are set by the settings endpoint; the password
// is stored encrypted alongside its hex-encoded IV.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string         `json:"name" gorm:"type:varchar(255)"`
	Email     string         `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	Image     string         `json:"image" gorm:"type:varchar(512)"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	SMTPHost     string `json:"smtp_host" gorm:"type:varchar(255)"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user" gorm:"type:varchar(255)"`
	SMTPPassword string `json:"-" gorm:"type:text"`
	SMTPIV       string `json:"-" gorm:"type:varchar(64)"`
	SMTPSecure   bool   `json:"smtp_secure"`
}

// HasSMTPConfig reports whether the user has a complete SMTP configuration.
func (u *User) HasSMTPConfig() bool {
	return u.SMTPHost != "" && u.SMTPUser != "" && u.SMTPPassword != "" && u.SMTPIV != ""
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
