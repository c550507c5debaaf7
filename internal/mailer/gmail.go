package mailer

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"outrexo/internal/config"
	"outrexo/internal/model"
)

// GmailChannel sends through the Gmail API using a user's stored OAuth
// tokens. Rotated access tokens are written back to the Account row so
// the next send does not have to refresh again.
type GmailChannel struct {
	oauthConfig *oauth2.Config
	db          *gorm.DB
}

// NewGmailChannel creates a Gmail channel from the application OAuth client.
func NewGmailChannel(cfg *config.GoogleConfig, db *gorm.DB) *GmailChannel {
	return &GmailChannel{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       []string{gmail.GmailSendScope},
			Endpoint:     google.Endpoint,
		},
		db: db,
	}
}

// Send delivers one HTML message through Users.Messages.Send on the
// account owner's behalf.
func (g *GmailChannel) Send(ctx context.Context, account *model.Account, to, subject, htmlBody string) error {
	seed := &oauth2.Token{
		AccessToken:  account.AccessToken,
		RefreshToken: account.RefreshToken,
		Expiry:       account.Expiry(),
	}

	ts := &persistingTokenSource{
		src:       g.oauthConfig.TokenSource(ctx, seed),
		db:        g.db,
		accountID: account.ID,
		last:      seed.AccessToken,
	}

	service, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return fmt.Errorf("failed to create Gmail service: %w", err)
	}

	message := &gmail.Message{Raw: BuildRaw(to, subject, htmlBody)}
	if _, err := service.Users.Messages.Send("me", message).Do(); err != nil {
		return fmt.Errorf("gmail send failed: %w", err)
	}
	return nil
}

// persistingTokenSource wraps an oauth2.TokenSource and saves any newly
// issued access token and expiry back to the accounts table.
type persistingTokenSource struct {
	src       oauth2.TokenSource
	db        *gorm.DB
	accountID uint
	mu        sync.Mutex
	last      string
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := p.src.Token()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if token.AccessToken != p.last {
		updates := map[string]interface{}{
			"access_token": token.AccessToken,
			"expires_at":   token.Expiry.Unix(),
		}
		if token.RefreshToken != "" {
			updates["refresh_token"] = token.RefreshToken
		}
		if err := p.db.Model(&model.Account{}).Where("id = ?", p.accountID).Updates(updates).Error; err != nil {
			// The send can still proceed with the in-memory token.
			logrus.Errorf("Failed to persist rotated access token for account %d: %v", p.accountID, err)
		}
		p.last = token.AccessToken
	}

	return token, nil
}
