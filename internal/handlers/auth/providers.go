package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/notetube/notetube/internal/config"
	"github.com/notetube/notetube/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type OAuthProvider struct {
	Config   *oauth2.Config
	UserURL  string
	Provider string
	PKCE     bool
}

type Providers map[string]*OAuthProvider

// NewProviders creates new map of OAuth configured providers
func NewProviders(cfg *config.Config) Providers {

	protocol := "https"
	if cfg.Debug {
		protocol = "http"
	}

	return map[string]*OAuthProvider{
		"google": {
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleOAuthClientID,
				ClientSecret: cfg.GoogleOAuthClientSecret,
				RedirectURL:  fmt.Sprintf("%s://%s/auth/google/callback", protocol, cfg.Domain),
				Scopes:       cfg.GoogleOAuthScopes,
				Endpoint:     google.Endpoint,
			},
			UserURL:  "https://www.googleapis.com/oauth2/v2/userinfo",
			Provider: "google",
			PKCE:     true,
		},
	}
}

// GenerateState generates new state
func (p *Providers) GenerateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// FetchUserProfile fetches the user profile from a provider
func (p *Providers) FetchUserProfile(
	ctx context.Context,
	provider *OAuthProvider,
	token *oauth2.Token) (*models.User, error) {

	client := provider.Config.Client(ctx, token)
	resp, err := client.Get(provider.UserURL)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to fetch the user info from provider %s: %w",
			provider.Provider, err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"user info request failed on provider '%s' with status: %d",
			provider.Provider, resp.StatusCode,
		)
	}

	// Unmarshall the user info
	var profileData map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&profileData); err != nil {
		return nil, fmt.Errorf("failed to decode %s user: %w", provider.Provider, err)
	}

	var user models.User
	user.Provider = provider.Provider
	user.AccessToken = token.AccessToken
	user.RefreshToken = token.RefreshToken
	user.Expiry = token.Expiry

	user.ProviderUserId, _ = profileData["id"].(string)
	user.Name, _ = profileData["given_name"].(string)
	user.Email, _ = profileData["email"].(string)
	user.AvatarURL, _ = profileData["picture"].(string)

	return &user, nil
}
