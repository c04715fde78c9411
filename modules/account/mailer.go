package account

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/authflow/pkg/auth"
	"github.com/dmitrymomot/authflow/pkg/email"
	"github.com/dmitrymomot/authflow/pkg/email/templates"
	"github.com/dmitrymomot/authflow/pkg/otp"
)

var (
	_ auth.VerificationMailer = (*Mailer)(nil)
	_ otp.Sender              = (*Mailer)(nil)
)

// Mailer renders account emails and hands them to an email.EmailSender.
type Mailer struct {
	sender email.EmailSender
}

func NewMailer(sender email.EmailSender) *Mailer {
	return &Mailer{sender: sender}
}

func (m *Mailer) SendVerificationEmail(ctx context.Context, user *auth.User, link string) error {
	msg, err := templates.VerificationEmail(ctx, link)
	if err != nil {
		return fmt.Errorf("render verification email: %w", err)
	}
	return m.send(ctx, user.Email, "email-verification", msg)
}

// SendOTP picks the template matching the code type.
func (m *Mailer) SendOTP(ctx context.Context, to string, otpType otp.Type, code string, ttl time.Duration) error {
	msg, err := templates.OTPEmail(ctx, string(otpType), code, int(ttl.Minutes()))
	if err != nil {
		return fmt.Errorf("render otp email: %w", err)
	}
	return m.send(ctx, to, "otp-"+string(otpType), msg)
}

func (m *Mailer) send(ctx context.Context, to, tag string, msg templates.Message) error {
	return m.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   to,
		Subject:  msg.Subject,
		BodyHTML: msg.HTML,
		BodyText: msg.Text,
		Tag:      tag,
	})
}
