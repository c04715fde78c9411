package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GitHubOAuthConfig configures GitHub sign-in. Leave ClientID empty to disable
// the provider. RedirectURL defaults to {BETTER_AUTH_URL}/api/auth/callback/github.
type GitHubOAuthConfig struct {
	ClientID     string        `env:"GITHUB_CLIENT_ID"`
	ClientSecret string        `env:"GITHUB_CLIENT_SECRET"`
	RedirectURL  string        `env:"GITHUB_OAUTH_REDIRECT_URL"`
	Scopes       []string      `env:"GITHUB_OAUTH_SCOPES" envSeparator:"," envDefault:"read:user,user:email"`
	StateTTL     time.Duration `env:"GITHUB_OAUTH_STATE_TTL" envDefault:"10m"`
	VerifiedOnly bool          `env:"GITHUB_OAUTH_VERIFIED_ONLY" envDefault:"true"`
}

func (c GitHubOAuthConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

const githubAPIURL = "https://api.github.com"

type githubAdapter struct {
	conf       *oauth2.Config
	httpClient *http.Client
	apiURL     string
}

type GitHubOption func(*githubAdapter)

// WithGitHubEndpoints points the adapter at other OAuth and REST API URLs.
func WithGitHubEndpoints(endpoint oauth2.Endpoint, apiURL string) GitHubOption {
	return func(a *githubAdapter) {
		a.conf.Endpoint = endpoint
		a.apiURL = apiURL
	}
}

func NewGitHubAdapter(cfg GitHubOAuthConfig, opts ...GitHubOption) ProviderAdapter {
	a := &githubAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     github.Endpoint,
		},
		httpClient: &http.Client{Timeout: providerHTTPTimeout},
		apiURL:     githubAPIURL,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *githubAdapter) ProviderID() string {
	return OAuthProviderGithub
}

func (a *githubAdapter) AuthURL(state string) (string, error) {
	return a.conf.AuthCodeURL(state), nil
}

// ResolveProfile reads /user for name and avatar and /user/emails for the
// verification status, preferring the primary verified address.
func (a *githubAdapter) ResolveProfile(ctx context.Context, code string) (ProviderProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return ProviderProfile{}, ErrInvalidCode
	}

	var u struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, a.httpClient, a.apiURL+"/user", tok.AccessToken, &u); err != nil {
		return ProviderProfile{}, fmt.Errorf("fetch github user: %w", err)
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(ctx, a.httpClient, a.apiURL+"/user/emails", tok.AccessToken, &emails); err != nil {
		return ProviderProfile{}, fmt.Errorf("fetch github emails: %w", err)
	}

	var email string
	for _, e := range emails {
		if e.Primary && e.Verified {
			email = e.Email
			break
		}
	}
	if email == "" {
		for _, e := range emails {
			if e.Verified {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		return ProviderProfile{}, ErrNoPrimaryEmail
	}

	name := u.Name
	if name == "" {
		name = u.Login
	}
	return ProviderProfile{
		ProviderUserID: strconv.FormatInt(u.ID, 10),
		Email:          email,
		EmailVerified:  true,
		Name:           name,
		AvatarURL:      u.AvatarURL,
	}, nil
}
