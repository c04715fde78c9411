package account

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authflow/handler"
	"github.com/dmitrymomot/authflow/pkg/auth"
	"github.com/dmitrymomot/authflow/pkg/cookie"
	"github.com/dmitrymomot/authflow/pkg/i18n"
	"github.com/dmitrymomot/authflow/pkg/otp"
	"github.com/dmitrymomot/authflow/pkg/session"
)

// SessionManager is the part of *session.Manager the account flows use.
type SessionManager interface {
	Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*session.Session, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	RevokeUser(ctx context.Context, userID uuid.UUID) error
}

type UserLoader interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.User, error)
}

// OTPSender issues one-time codes. *otp.Service implements it.
type OTPSender interface {
	Send(ctx context.Context, email string, otpType otp.Type) error
}

// Deps are the services behind the account flows. All fields are required.
type Deps struct {
	Passwords  auth.PasswordAuthenticator
	Verifier   auth.EmailVerifier
	OTP        OTPSender
	Sessions   SessionManager
	Users      UserLoader
	Translator *i18n.Translator
	// Cookies signs the social sign-in state cookie.
	Cookies    *cookie.Manager
}

type Module struct {
	cfg       Config
	passwords auth.PasswordAuthenticator
	verifier  auth.EmailVerifier
	otp       OTPSender
	sessions  SessionManager
	users     UserLoader
	cookies   *cookie.Manager
	tr        *i18n.Translator
	views     *Views
	oauth     map[string]auth.OAuthAuthenticator
	providers []string
	logger    *slog.Logger

	errorHandler handler.ErrorHandler[handler.Context]
}

type Option func(*Module)

func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithOAuthProvider enables social sign-in for the authenticator's provider.
func WithOAuthProvider(a auth.OAuthAuthenticator) Option {
	return func(m *Module) {
		if a == nil {
			return
		}
		if _, ok := m.oauth[a.Provider()]; !ok {
			m.providers = append(m.providers, a.Provider())
		}
		m.oauth[a.Provider()] = a
	}
}

func New(cfg Config, deps Deps, opts ...Option) *Module {
	m := &Module{
		cfg:       cfg,
		passwords: deps.Passwords,
		verifier:  deps.Verifier,
		otp:       deps.OTP,
		sessions:  deps.Sessions,
		users:     deps.Users,
		cookies:   deps.Cookies,
		tr:        deps.Translator,
		views:     NewViews(deps.Translator),
		oauth:     make(map[string]auth.OAuthAuthenticator),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	slices.Sort(m.providers)

	m.errorHandler = handler.NewErrorHandler(m.logger, handler.ErrorHandlerConfig{
		ErrorPage:  m.views.ErrorPage,
		ErrorToast: m.views.ErrorToast,
	})
	return m
}

// Views exposes the page renderer, e.g. for the router's 404 page.
func (m *Module) Views() *Views {
	return m.views
}

// ErrorHandler renders errors as pages or Datastar toasts.
func (m *Module) ErrorHandler() handler.ErrorHandler[handler.Context] {
	return m.errorHandler
}

func (m *Module) t(ctx context.Context, key string, args ...any) string {
	return m.tr.Tc(ctx, key, args...)
}
