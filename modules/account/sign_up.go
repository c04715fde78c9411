package account

import (
	"errors"

	"github.com/dmitrymomot/authflow/handler"
	"github.com/dmitrymomot/authflow/pkg/auth"
	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/sanitizer"
	"github.com/dmitrymomot/authflow/pkg/session"
	"github.com/dmitrymomot/authflow/pkg/validator"
)

type SignUpRequest struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (m *Module) signUpPage(ctx handler.Context, _ struct{}) handler.Response {
	if _, ok := session.UserIDFromContext(ctx); ok {
		return handler.Redirect(pathDashboard)
	}
	return handler.Templ(m.views.SignUpPage(PageData{}))
}

// signUpRules are checked in order; for a field the last failed rule wins,
// so a short password reports its length rather than "required".
func signUpRules(name, email, password string) []validator.Rule {
	return []validator.Rule{
		validator.RequiredString("name", name).WithMessage("sign_up.name_required", "Enter your name"),
		validator.RequiredString("email", email).WithMessage("sign_up.email_required", "Enter your email"),
		validator.RequiredString("password", password).WithMessage("sign_up.password_required", "Enter your password"),
		validator.MinLenString("password", password, auth.MinPasswordLength).WithMessage("sign_up.password_min", "Password must be at least 8 characters"),
		validator.EmailShape("email", email).WithMessage("sign_up.email_format", "Invalid email format"),
	}
}

func (m *Module) signUp(ctx handler.Context, req SignUpRequest) handler.Response {
	name := sanitizer.Trim(req.Name)
	email := sanitizer.NormalizeEmail(req.Email)
	values := map[string]string{"name": name, "email": email}
	log := m.logger.With(logger.Component("account"), logger.Handler("sign_up"), logger.Email(email))

	if err := validator.Apply(signUpRules(name, email, req.Password)...); err != nil {
		verrs := validator.ExtractValidationErrors(err)
		res := failure(m.t(ctx, "form.fix_errors"))
		for _, field := range verrs.Fields() {
			last, _ := verrs.Last(field)
			res.addError(field, m.t(ctx, last.TranslationKey))
		}
		return m.signUpForm(values, res)
	}

	user, err := m.passwords.Register(ctx, name, email, req.Password)
	if err != nil {
		var field, key string
		switch {
		case errors.Is(err, auth.ErrEmailAlreadyExists):
			field, key = "email", "sign_up.email_taken"
		case errors.Is(err, auth.ErrInvalidEmail):
			field, key = "email", "sign_up.email_invalid"
		case errors.Is(err, auth.ErrWeakPassword):
			field, key = "password", "sign_up.weak_password"
		default:
			log.ErrorContext(ctx, "registration failed", logger.Error(err))
			return m.signUpForm(values, failure(m.t(ctx, "sign_up.failed")))
		}
		log.InfoContext(ctx, "registration rejected", logger.Error(err))
		res := failure(m.t(ctx, key))
		res.addError(field, res.Message)
		return m.signUpForm(values, res)
	}

	if err := m.verifier.SendVerification(ctx, user, m.cfg.VerificationCallbackURL); err != nil {
		log.ErrorContext(ctx, "failed to send verification email", logger.UserID(user.ID), logger.Error(err))
	}

	return m.signUpForm(values, success(m.t(ctx, "sign_up.success")))
}

func (m *Module) signUpForm(values map[string]string, res ActionResult) handler.Response {
	data := PageData{Form: FormState{Values: values, Result: res}}
	return handler.TemplPartial(m.views.SignUpForm(data), m.views.SignUpPage(data), handler.WithTarget("#sign-up-form"))
}
