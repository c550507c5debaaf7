package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"outrexo/internal/config"
	"outrexo/internal/service"
)

// GoogleFlow implements the web OAuth sign-in. The scope set covers
// Gmail sending plus the profile fields the dashboard shows, and the
// consent prompt forces a refresh token on every link.
type GoogleFlow struct {
	oauthConfig *oauth2.Config
}

// NewGoogleFlow creates the flow from the application OAuth client.
func NewGoogleFlow(cfg *config.GoogleConfig) *GoogleFlow {
	return &GoogleFlow{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				gmail.GmailSendScope,
				oauth2api.UserinfoEmailScope,
				oauth2api.UserinfoProfileScope,
			},
			Endpoint: google.Endpoint,
		},
	}
}

// Enabled reports whether an OAuth client is configured at all.
func (f *GoogleFlow) Enabled() bool {
	return f.oauthConfig.ClientID != "" && f.oauthConfig.ClientSecret != ""
}

// AuthURL returns the consent URL for the given CSRF state.
func (f *GoogleFlow) AuthURL(state string) string {
	return f.oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades the callback code for tokens and the user's profile.
func (f *GoogleFlow) Exchange(ctx context.Context, code string) (service.GoogleProfile, service.GoogleTokens, error) {
	token, err := f.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return service.GoogleProfile{}, service.GoogleTokens{}, fmt.Errorf("failed to exchange code: %w", err)
	}

	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(f.oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return service.GoogleProfile{}, service.GoogleTokens{}, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return service.GoogleProfile{}, service.GoogleTokens{}, fmt.Errorf("failed to fetch userinfo: %w", err)
	}

	profile := service.GoogleProfile{
		Subject: info.Id,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}
	tokens := service.GoogleTokens{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry.Unix(),
	}
	return profile, tokens, nil
}
