package account

import (
	"errors"
	"log/slog"

	"github.com/dmitrymomot/authflow/handler"
	"github.com/dmitrymomot/authflow/pkg/auth"
	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/sanitizer"
	"github.com/dmitrymomot/authflow/pkg/session"
)

type SignInPageRequest struct {
	Error string `query:"error"`
}

type SignInRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (m *Module) signInPage(ctx handler.Context, req SignInPageRequest) handler.Response {
	if _, ok := session.UserIDFromContext(ctx); ok {
		return handler.Redirect(pathDashboard)
	}

	data := PageData{Providers: m.providers}
	switch req.Error {
	case "social":
		data.Notice = m.t(ctx, "sign_in.social_failed")
	case "verification":
		data.Notice = m.t(ctx, "sign_in.verification_failed")
	}
	return handler.Templ(m.views.SignInPage(data))
}

func (m *Module) signIn(ctx handler.Context, req SignInRequest) handler.Response {
	email := sanitizer.NormalizeEmail(req.Email)
	values := map[string]string{"email": email}
	log := m.logger.With(logger.Component("account"), logger.Handler("sign_in"), logger.Email(email))

	var res ActionResult
	if email == "" {
		res.addError("email", m.t(ctx, "sign_in.email_required"))
	}
	if req.Password == "" {
		res.addError("password", m.t(ctx, "sign_in.password_required"))
	}
	if res.HasErrors() {
		res.Message = m.t(ctx, "form.fix_errors")
		return m.signInForm(values, res)
	}

	user, err := m.passwords.Authenticate(ctx, email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		log.InfoContext(ctx, "sign in rejected")
		return m.signInForm(values, generalFailure(m.t(ctx, "sign_in.invalid_credentials")))

	case errors.Is(err, auth.ErrEmailNotVerified):
		if serr := m.verifier.SendVerification(ctx, user, m.cfg.VerificationCallbackURL); serr != nil {
			log.ErrorContext(ctx, "failed to resend verification email", logger.Error(serr))
		}
		res = ActionResult{}
		res.addError(GeneralField, m.t(ctx, "sign_in.not_verified"))
		return m.signInForm(values, res)

	case err != nil:
		log.ErrorContext(ctx, "sign in failed", logger.Error(err))
		return m.signInForm(values, generalFailure(m.t(ctx, "sign_in.internal_error")))
	}

	sess, err := m.sessions.Authenticate(ctx, ctx.ResponseWriter(), ctx.Request(), user.ID)
	if err != nil {
		log.ErrorContext(ctx, "failed to start session", logger.Error(err))
		return m.signInForm(values, generalFailure(m.t(ctx, "sign_in.internal_error")))
	}

	log.InfoContext(ctx, "user signed in", logger.UserID(user.ID), slog.String("session_id", sess.ID.String()))
	return handler.Redirect(pathDashboard)
}

func (m *Module) signInForm(values map[string]string, res ActionResult) handler.Response {
	data := PageData{Form: FormState{Values: values, Result: res}, Providers: m.providers}
	return handler.TemplPartial(m.views.SignInForm(data), m.views.SignInPage(data), handler.WithTarget("#sign-in-form"))
}
