package account

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authflow/handler"
	"github.com/dmitrymomot/authflow/pkg/cookie"
	"github.com/dmitrymomot/authflow/pkg/logger"
)

type OAuthCallbackRequest struct {
	Code  string `query:"code"`
	State string `query:"state"`
	Error string `query:"error"`
}

const (
	socialFailedURL = pathSignIn + "?error=social"

	// stateCookie ties an authorization request to the browser that started
	// it. The value is "<provider>:<state>".
	stateCookie       = "oauth_state"
	stateCookieMaxAge = 10 * 60
)

func stateBinding(provider, state string) string {
	return provider + ":" + state
}

func (m *Module) socialSignIn(ctx handler.Context, _ struct{}) handler.Response {
	provider := chi.URLParam(ctx.Request(), "provider")
	log := m.logger.With(logger.Component("account"), logger.Handler("social_sign_in"), logger.Provider(provider))

	authenticator, ok := m.oauth[provider]
	if !ok {
		log.WarnContext(ctx, "social sign in with unknown provider", logger.Error(ErrUnknownProvider))
		return handler.Redirect(socialFailedURL)
	}

	authURL, err := authenticator.GetAuthURL(ctx)
	if err != nil {
		log.ErrorContext(ctx, "failed to build provider auth url", logger.Error(err))
		return handler.Redirect(socialFailedURL)
	}

	u, err := url.Parse(authURL)
	if err != nil || u.Query().Get("state") == "" {
		log.ErrorContext(ctx, "provider auth url has no state", logger.Error(ErrMissingState))
		return handler.Redirect(socialFailedURL)
	}
	value := stateBinding(provider, u.Query().Get("state"))
	if err := m.cookies.SetSigned(ctx.ResponseWriter(), stateCookie, value, cookie.WithMaxAge(stateCookieMaxAge)); err != nil {
		log.ErrorContext(ctx, "failed to set state cookie", logger.Error(err))
		return handler.Redirect(socialFailedURL)
	}
	return handler.RedirectWithCode(authURL, http.StatusFound)
}

func (m *Module) socialCallback(ctx handler.Context, req OAuthCallbackRequest) handler.Response {
	provider := chi.URLParam(ctx.Request(), "provider")
	log := m.logger.With(logger.Component("account"), logger.Handler("social_callback"), logger.Provider(provider))

	authenticator, ok := m.oauth[provider]
	if !ok {
		log.WarnContext(ctx, "oauth callback for unknown provider", logger.Error(ErrUnknownProvider))
		return handler.Redirect(socialFailedURL)
	}
	if req.Error != "" {
		log.InfoContext(ctx, "provider denied authorization", slog.String("provider_error", req.Error))
		return handler.Redirect(socialFailedURL)
	}

	bound, err := m.cookies.GetSigned(ctx.Request(), stateCookie)
	m.cookies.Delete(ctx.ResponseWriter(), stateCookie)
	if err != nil || req.State == "" ||
		subtle.ConstantTimeCompare([]byte(bound), []byte(stateBinding(provider, req.State))) != 1 {
		log.WarnContext(ctx, "oauth state does not match this browser", logger.Error(ErrStateMismatch))
		return handler.Redirect(socialFailedURL)
	}

	user, err := authenticator.Auth(ctx, req.Code, req.State)
	if err != nil {
		log.WarnContext(ctx, "social sign in failed", logger.Error(err))
		return handler.Redirect(socialFailedURL)
	}

	if _, err := m.sessions.Authenticate(ctx, ctx.ResponseWriter(), ctx.Request(), user.ID); err != nil {
		log.ErrorContext(ctx, "failed to start session", logger.UserID(user.ID), logger.Error(err))
		return handler.Redirect(socialFailedURL)
	}

	log.InfoContext(ctx, "user signed in", logger.UserID(user.ID))
	return handler.Redirect(pathDashboard)
}
