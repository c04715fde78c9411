package account

import (
	"errors"
	"net/url"
	"strings"

	"github.com/dmitrymomot/authflow/handler"
	"github.com/dmitrymomot/authflow/pkg/auth"
	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/sanitizer"
)

type VerifyEmailRequest struct {
	Token       string `query:"token"`
	CallbackURL string `query:"callbackURL"`
}

type ResendVerificationRequest struct {
	Email string `form:"email"`
}

// verifyEmail redeems the link from the verification email and signs the
// user in. A link for an already verified address only redirects.
func (m *Module) verifyEmail(ctx handler.Context, req VerifyEmailRequest) handler.Response {
	log := m.logger.With(logger.Component("account"), logger.Handler("verify_email"))

	user, err := m.verifier.Verify(ctx, req.Token)
	if errors.Is(err, auth.ErrAlreadyVerified) && user != nil {
		// only the first redemption signs in
		log.InfoContext(ctx, "verification link reused", logger.UserID(user.ID))
		return handler.Redirect(m.callbackURL(req.CallbackURL))
	}
	if err != nil {
		log.WarnContext(ctx, "email verification failed", logger.Error(err))
		return handler.Redirect(pathSignIn + "?error=verification")
	}

	if _, err := m.sessions.Authenticate(ctx, ctx.ResponseWriter(), ctx.Request(), user.ID); err != nil {
		log.ErrorContext(ctx, "failed to start session after verification", logger.UserID(user.ID), logger.Error(err))
		return handler.Redirect(pathSignIn)
	}

	log.InfoContext(ctx, "user verified and signed in", logger.UserID(user.ID))
	return handler.Redirect(m.callbackURL(req.CallbackURL))
}

// resendVerification answers the same way whether or not a link was sent.
func (m *Module) resendVerification(ctx handler.Context, req ResendVerificationRequest) handler.Response {
	email := sanitizer.NormalizeEmail(req.Email)
	log := m.logger.With(logger.Component("account"), logger.Handler("resend_verification"), logger.Email(email))

	if email != "" {
		user, err := m.users.GetUserByEmail(ctx, email)
		switch {
		case err != nil:
			log.InfoContext(ctx, "verification not resent", logger.Error(err))
		case user.IsVerified:
			log.InfoContext(ctx, "verification not resent, already verified", logger.UserID(user.ID))
		default:
			if err := m.verifier.SendVerification(ctx, user, m.cfg.VerificationCallbackURL); err != nil {
				log.ErrorContext(ctx, "failed to resend verification email", logger.UserID(user.ID), logger.Error(err))
			}
		}
	}

	msg := m.t(ctx, "verification.resent")
	data := PageData{
		Providers: m.providers,
		Form:      FormState{Values: map[string]string{"email": email}, Result: success(msg)},
	}
	return handler.TemplPartial(
		m.views.Toast("info", msg),
		m.views.SignInPage(data),
		handler.WithTarget("#toast-container"),
		handler.WithPatchMode(handler.PatchPrepend),
	)
}

// callbackURL accepts relative paths and URLs on the configured host only.
func (m *Module) callbackURL(raw string) string {
	fallback := m.cfg.VerificationCallbackURL
	if fallback == "" {
		fallback = pathEmailVerified
	}
	if raw == "" {
		return fallback
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fallback
	}
	if u.Scheme == "" && u.Host == "" {
		if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") && !strings.HasPrefix(raw, "/\\") {
			return raw
		}
		return fallback
	}

	base, err := url.Parse(m.cfg.BaseURL)
	if err != nil || base.Host == "" {
		return fallback
	}
	if (u.Scheme == "http" || u.Scheme == "https") && strings.EqualFold(u.Host, base.Host) {
		return raw
	}
	return fallback
}
