package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// providerServer fakes a token endpoint plus the given JSON API routes.
func providerServer(t *testing.T, routes map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			http.Error(w, `{"error":"bad_verification_code"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "at-1", "token_type": "Bearer"})
	})
	for path, body := range routes {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(body)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func endpoint(srv *httptest.Server) oauth2.Endpoint {
	return oauth2.Endpoint{AuthURL: srv.URL + "/authorize", TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
}

func TestGoogleAdapter(t *testing.T) {
	t.Parallel()

	srv := providerServer(t, map[string]any{
		"/userinfo": map[string]any{
			"id": "g-1", "email": "ann@example.com", "verified_email": true,
			"name": "Ann Lee", "picture": "https://cdn.example.com/ann.png",
		},
	})
	cfg := GoogleOAuthConfig{ClientID: "cid", ClientSecret: "secret", RedirectURL: "https://app.example.com/api/auth/callback/google", Scopes: []string{"openid", "email", "profile"}}
	adapter := NewGoogleAdapter(cfg, WithGoogleEndpoints(endpoint(srv), srv.URL+"/userinfo"))

	assert.Equal(t, OAuthProviderGoogle, adapter.ProviderID())
	assert.True(t, cfg.Enabled())

	authURL, err := adapter.AuthURL("state-1")
	require.NoError(t, err)
	assert.Contains(t, authURL, "state=state-1")
	assert.Contains(t, authURL, "client_id=cid")

	profile, err := adapter.ResolveProfile(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, ProviderProfile{
		ProviderUserID: "g-1",
		Email:          "ann@example.com",
		EmailVerified:  true,
		Name:           "Ann Lee",
		AvatarURL:      "https://cdn.example.com/ann.png",
	}, profile)

	_, err = adapter.ResolveProfile(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestGitHubAdapter(t *testing.T) {
	t.Parallel()

	t.Run("primary verified email and login fallback", func(t *testing.T) {
		t.Parallel()
		srv := providerServer(t, map[string]any{
			"/user": map[string]any{"id": 42, "login": "annlee", "avatar_url": "https://avatars.example.com/42"},
			"/user/emails": []map[string]any{
				{"email": "old@example.com", "primary": false, "verified": true},
				{"email": "ann@example.com", "primary": true, "verified": true},
			},
		})
		adapter := NewGitHubAdapter(GitHubOAuthConfig{ClientID: "cid", ClientSecret: "secret"},
			WithGitHubEndpoints(endpoint(srv), srv.URL))

		profile, err := adapter.ResolveProfile(context.Background(), "good-code")
		require.NoError(t, err)
		assert.Equal(t, "42", profile.ProviderUserID)
		assert.Equal(t, "ann@example.com", profile.Email)
		assert.Equal(t, "annlee", profile.Name)
		assert.Equal(t, "https://avatars.example.com/42", profile.AvatarURL)
		assert.True(t, profile.EmailVerified)
	})

	t.Run("no verified email", func(t *testing.T) {
		t.Parallel()
		srv := providerServer(t, map[string]any{
			"/user":        map[string]any{"id": 7, "name": "Bob"},
			"/user/emails": []map[string]any{{"email": "bob@example.com", "primary": true, "verified": false}},
		})
		adapter := NewGitHubAdapter(GitHubOAuthConfig{ClientID: "cid", ClientSecret: "secret"},
			WithGitHubEndpoints(endpoint(srv), srv.URL))

		_, err := adapter.ResolveProfile(context.Background(), "good-code")
		assert.ErrorIs(t, err, ErrNoPrimaryEmail)
	})

	t.Run("disabled without credentials", func(t *testing.T) {
		t.Parallel()
		assert.False(t, GitHubOAuthConfig{}.Enabled())
	})
}

func TestUserContext(t *testing.T) {
	t.Parallel()
	assert.Nil(t, GetUserFromContext(context.Background()))
	u := &User{Email: "ann@example.com"}
	assert.Same(t, u, GetUserFromContext(SetUserToContext(context.Background(), u)))
}
