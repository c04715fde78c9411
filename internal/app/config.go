package app

import (
	"net/url"
	"strings"

	"github.com/dmitrymomot/authflow/pkg/validator"
)

// Config is the application level configuration. Infrastructure packages
// load their own config structs.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"authflow"`

	// BaseURL is the public origin used in verification links and OAuth redirects.
	BaseURL string `env:"BETTER_AUTH_URL,required"`

	// VerificationCallbackURL is where a verified user lands.
	VerificationCallbackURL string `env:"EMAIL_VERIFICATION_CALLBACK_URL,required"`

	// AuthSecret signs verification tokens and backs the cookie keys when
	// COOKIE_SECRETS is empty.
	AuthSecret string `env:"AUTH_SECRET,required"`

	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"en"`
}

// Validate checks what struct tags cannot express.
func (c Config) Validate() error {
	return validator.Apply(
		validator.MinLenString("AUTH_SECRET", c.AuthSecret, 32),
		validator.Rule{
			Check: func() bool { return isHTTPURL(c.BaseURL) },
			Error: validator.ValidationError{
				Field:          "BETTER_AUTH_URL",
				Message:        "must be an absolute http(s) URL",
				TranslationKey: "validation.url",
			},
		},
	)
}

// OAuthRedirectURL is the callback registered with the provider.
func (c Config) OAuthRedirectURL(provider string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/api/auth/callback/" + provider
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
