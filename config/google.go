package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleConfig wraps the OAuth2 config and the userinfo/tokeninfo endpoints
// used by the three Google sign-in paths (code exchange, id_token, access
// token).
type GoogleConfig struct {
	oauth      *oauth2.Config
	httpClient *http.Client
}

type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}

// NewGoogleConfig returns nil when no Google OAuth credentials are set;
// Google sign-in is simply disabled in that case.
func NewGoogleConfig() *GoogleConfig {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return nil
	}

	return &GoogleConfig{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (g *GoogleConfig) fetchUserInfo(endpoint string, params url.Values) (*GoogleUserInfo, error) {
	resp, err := g.httpClient.Get(endpoint + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google rejected the token (status %d)", resp.StatusCode)
	}

	var userInfo GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("decoding user info: %w", err)
	}
	return &userInfo, nil
}

// VerifyIDToken validates an id_token against Google's tokeninfo endpoint
// and returns the identity it carries.
func (g *GoogleConfig) VerifyIDToken(idToken string) (*GoogleUserInfo, error) {
	return g.fetchUserInfo("https://oauth2.googleapis.com/tokeninfo",
		url.Values{"id_token": {idToken}})
}

// GetUserInfo resolves an access token to the account's profile.
func (g *GoogleConfig) GetUserInfo(accessToken string) (*GoogleUserInfo, error) {
	return g.fetchUserInfo("https://www.googleapis.com/oauth2/v2/userinfo",
		url.Values{"access_token": {accessToken}})
}

// ExchangeCode trades an authorization code for a token.
func (g *GoogleConfig) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return g.oauth.Exchange(ctx, code)
}
