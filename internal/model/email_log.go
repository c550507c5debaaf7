package model

import (
	"time"

	"gorm.io/gorm"
)

// EmailLog lifecycle states. A log is written once at campaign creation
// as QUEUED and transitions to SENT or FAILED exactly once.
const (
	LogQueued = "QUEUED"
	LogSent   = "SENT"
	LogFailed = "FAILED"
)

// EmailLog tracks the delivery outcome for one recipient of a campaign.
type EmailLog struct {
	ID         uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	CampaignID uint           `json:"campaign_id" gorm:"not null;index"`
	Recipient  string         `json:"recipient" gorm:"type:varchar(255);not null"`
	Status     string         `json:"status" gorm:"type:varchar(32);not null;default:QUEUED"`
	Error      *string        `json:"error" gorm:"type:text"`
	SentAt     *time.Time     `json:"sent_at"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Resolved reports whether the log has reached a terminal state.
func (l *EmailLog) Resolved() bool {
	return l.Status == LogSent || l.Status == LogFailed
}

// TableName specifies the table name for EmailLog
func (EmailLog) TableName() string {
	return "email_logs"
}
