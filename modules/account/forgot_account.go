package account

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/authflow/handler"
	"github.com/dmitrymomot/authflow/pkg/auth"
	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/otp"
	"github.com/dmitrymomot/authflow/pkg/sanitizer"
	"github.com/dmitrymomot/authflow/pkg/validator"
)

type ForgotAccountRequest struct {
	Email string `form:"email"`
}

type ResetPasswordRequest struct {
	Email           string `form:"email"`
	OTP             string `form:"otp"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
}

func (m *Module) forgotAccountPage(_ handler.Context, _ struct{}) handler.Response {
	return handler.Templ(m.views.ForgotAccountPage(PageData{Step: StepSearch}))
}

// searchAccount sends a forget-password code. Unknown accounts and delivery
// problems get the same answer as a successful send.
func (m *Module) searchAccount(ctx handler.Context, req ForgotAccountRequest) handler.Response {
	if ctx.Request().Header.Get("Content-Type") == "" {
		return m.forgotForm(StepSearch, nil, failure(m.t(ctx, "form.missing_data")))
	}

	email := sanitizer.NormalizeEmail(req.Email)
	values := map[string]string{"email": email}
	log := m.logger.With(logger.Component("account"), logger.Handler("forgot_account"), logger.Email(email))

	if email == "" {
		return m.forgotForm(StepSearch, values, failure(m.t(ctx, "forgot.email_required")))
	}
	if err := validator.Apply(validator.EmailShape("email", email)); err != nil {
		return m.forgotForm(StepSearch, values, failure(m.t(ctx, "forgot.email_invalid")))
	}

	res := ActionResult{Success: true, NeedsOTP: true}
	err := m.otp.Send(ctx, email, otp.TypeForgetPassword)
	switch {
	case err == nil:
		res.Message = m.t(ctx, "forgot.sent")
	case errors.Is(err, otp.ErrUserNotFound), errors.Is(err, otp.ErrDeliveryFailed):
		log.InfoContext(ctx, "password reset code not delivered", logger.Error(err))
		res.Message = m.t(ctx, "forgot.maybe_sent")
	default:
		log.ErrorContext(ctx, "failed to send password reset code", logger.Error(err))
		return m.forgotForm(StepSearch, values, failure(m.t(ctx, "forgot.system_error")))
	}
	return m.forgotForm(StepReset, values, res)
}

func (m *Module) resetPassword(ctx handler.Context, req ResetPasswordRequest) handler.Response {
	email := strings.TrimSpace(req.Email)
	code := strings.TrimSpace(req.OTP)
	values := map[string]string{"email": email}
	log := m.logger.With(logger.Component("account"), logger.Handler("reset_password"), logger.Email(email))

	log.DebugContext(ctx, "password reset attempt",
		logger.OTP(code),
		slog.Int("password_length", len(req.Password)),
		slog.Int("confirm_password_length", len(req.ConfirmPassword)),
	)

	switch {
	case email == "" || code == "" || req.Password == "" || req.ConfirmPassword == "":
		return m.forgotForm(StepReset, values, failure(m.t(ctx, "forgot.all_required")))
	case req.Password != req.ConfirmPassword:
		return m.forgotForm(StepReset, values, failure(m.t(ctx, "forgot.mismatch")))
	case len([]rune(req.Password)) < auth.MinPasswordLength:
		return m.forgotForm(StepReset, values, failure(m.t(ctx, "forgot.password_min")))
	}

	user, err := m.passwords.ResetPasswordWithOTP(ctx, email, code, req.Password)
	if err != nil {
		key := "forgot.reset_failed"
		switch {
		case errors.Is(err, otp.ErrInvalidCode), errors.Is(err, otp.ErrExpired):
			key = "forgot.invalid_code"
		case errors.Is(err, otp.ErrTooManyAttempts):
			key = "forgot.too_many_attempts"
		case errors.Is(err, auth.ErrUserNotFound):
			key = "forgot.user_not_found"
		}
		log.WarnContext(ctx, "password reset failed", logger.OTP(code), logger.Error(err))
		return m.forgotForm(StepReset, values, failure(m.t(ctx, key)))
	}

	if err := m.sessions.RevokeUser(ctx, user.ID); err != nil {
		log.ErrorContext(ctx, "failed to revoke sessions after password reset", logger.UserID(user.ID), logger.Error(err))
	}

	log.InfoContext(ctx, "password reset completed", logger.UserID(user.ID))
	return m.forgotForm(StepDone, values, success(m.t(ctx, "forgot.reset_success")))
}

func (m *Module) forgotForm(step string, values map[string]string, res ActionResult) handler.Response {
	data := PageData{Step: step, Form: FormState{Values: values, Result: res}}
	return handler.TemplPartial(m.views.ForgotAccountForm(data), m.views.ForgotAccountPage(data), handler.WithTarget("#forgot-form"))
}
