package model

import (
	"time"

	"gorm.io/gorm"
)

// Campaign statuses.
const (
	CampaignInProgress = "IN_PROGRESS"
	CampaignCompleted  = "COMPLETED"
)

// Campaign is a batch send job. SentCount and FailCount are bumped by
// atomic increments in the same transaction as the matching log update,
// never recomputed inline.
type Campaign struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint           `json:"user_id" gorm:"not null;index"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	Status    string         `json:"status" gorm:"type:varchar(32);not null;default:IN_PROGRESS"`
	SentCount int            `json:"sent_count" gorm:"not null;default:0"`
	FailCount int            `json:"fail_count" gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Logs []EmailLog `json:"logs,omitempty" gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Campaign
func (Campaign) TableName() string {
	return "campaigns"
}
