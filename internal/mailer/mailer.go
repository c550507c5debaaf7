// Package mailer delivers campaign email through one of two channels:
// the Gmail API via a linked Google account, or the user's own SMTP
// server with the password decrypted on the fly.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"outrexo/internal/crypto"
	"outrexo/internal/model"
)

// Channel names reported back to callers and metrics.
const (
	ChannelOAuth = "oauth"
	ChannelSMTP  = "smtp"
)

// ErrNoChannel means the user has neither a linked Google account nor
// SMTP credentials. Surfaced to the API as a configuration error.
var ErrNoChannel = errors.New("no email configuration found: connect Gmail or add SMTP credentials")

// OAuthSender is the Gmail side of the two-tier selection.
type OAuthSender interface {
	Send(ctx context.Context, account *model.Account, to, subject, htmlBody string) error
}

// SMTPSender is the fallback side.
type SMTPSender interface {
	Send(settings SMTPSettings, to, subject, htmlBody string) error
}

// Sender picks a delivery channel for each message in fixed order:
// OAuth first when a refresh token exists, then SMTP. Whether an OAuth
// error falls through to SMTP is configurable; with fallback disabled an
// OAuth failure is terminal for the recipient.
type Sender struct {
	db            *gorm.DB
	oauth         OAuthSender
	smtp          SMTPSender
	cipher        *crypto.Cipher
	allowFallback bool
}

// NewSender wires the two channels together.
func NewSender(db *gorm.DB, oauth OAuthSender, smtp SMTPSender, cipher *crypto.Cipher, allowFallback bool) *Sender {
	return &Sender{
		db:            db,
		oauth:         oauth,
		smtp:          smtp,
		cipher:        cipher,
		allowFallback: allowFallback,
	}
}

// Send delivers one message for the given user and returns the channel
// that carried it.
func (s *Sender) Send(ctx context.Context, user *model.User, to, subject, htmlBody string) (string, error) {
	var account model.Account
	err := s.db.Where("user_id = ? AND refresh_token <> ''", user.ID).First(&account).Error
	hasOAuth := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to look up linked account: %w", err)
	}

	if hasOAuth {
		if err := s.oauth.Send(ctx, &account, to, subject, htmlBody); err == nil {
			return ChannelOAuth, nil
		} else if !s.allowFallback {
			return ChannelOAuth, err
		} else {
			logrus.Warnf("OAuth send to %s failed, trying SMTP fallback: %v", to, err)
		}
	}

	if user.HasSMTPConfig() {
		password, err := s.cipher.Decrypt(crypto.Encrypted{IV: user.SMTPIV, Content: user.SMTPPassword})
		if err != nil {
			return ChannelSMTP, fmt.Errorf("failed to decrypt SMTP password: %w", err)
		}
		if err := s.smtp.Send(SettingsFromUser(user, password), to, subject, htmlBody); err != nil {
			return ChannelSMTP, err
		}
		return ChannelSMTP, nil
	}

	return "", ErrNoChannel
}
