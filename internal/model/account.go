package model

import (
	"time"

	"gorm.io/gorm"
)

// Account holds the OAuth tokens for a linked provider. The access token
// and expiry are rewritten whenever the token source rotates them during
// a send.
type Account struct {
	ID                uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID            uint           `json:"user_id" gorm:"not null;index"`
	Provider          string         `json:"provider" gorm:"type:varchar(64);not null"`
	ProviderAccountID string         `json:"provider_account_id" gorm:"type:varchar(255);not null;uniqueIndex"`
	AccessToken       string         `json:"-" gorm:"type:text"`
	RefreshToken      string         `json:"-" gorm:"type:text"`
	ExpiresAt         int64          `json:"expires_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

// Expiry returns the access token expiry as a time.Time, zero when unknown.
func (a *Account) Expiry() time.Time {
	if a.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(a.ExpiresAt, 0)
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
