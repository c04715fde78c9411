package templates_test

import (
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authflow/pkg/email/templates"
)

func TestVerificationEmail(t *testing.T) {
	t.Parallel()
	url := "https://app.example.com/api/auth/verify-email?token=abc&callbackURL=%2Femail-verified"

	msg, err := templates.VerificationEmail(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "Confirm your email", msg.Subject)
	assert.Equal(t, "To confirm your email, follow the link: "+url+"\n\nIf you did not create an account, ignore this email.", msg.Text)
	assert.Contains(t, msg.HTML, `href="https://app.example.com/api/auth/verify-email?token=abc&amp;callbackURL=`)
	assert.Contains(t, msg.HTML, "<h1")
	assert.Contains(t, msg.HTML, "ignore this email")
}

func TestPasswordResetEmail(t *testing.T) {
	t.Parallel()
	msg, err := templates.PasswordResetEmail(context.Background(), "https://app.example.com/reset?token=t")
	require.NoError(t, err)
	assert.Equal(t, "Password reset request", msg.Subject)
	assert.Contains(t, msg.HTML, "valid for 15 minutes")
	assert.Contains(t, msg.Text, "15 minutes")
}

func TestPasswordResetOTPEmail(t *testing.T) {
	t.Parallel()

	msg, err := templates.PasswordResetOTPEmail(context.Background(), "123456", 10)
	require.NoError(t, err)
	assert.Equal(t, "Your password reset code", msg.Subject)
	assert.Contains(t, msg.HTML, "123456")
	assert.Contains(t, msg.HTML, "Do not share this code")
	assert.Contains(t, msg.HTML, "valid for 10 minutes")

	msg, err = templates.PasswordResetOTPEmail(context.Background(), "123456", 0)
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "valid for 5 minutes")
}

func TestOTPEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		otpType string
		subject string
	}{
		{templates.OTPTypeSignIn, "Your sign-in code: 654321"},
		{templates.OTPTypeEmailVerification, "Your email verification code: 654321"},
		{templates.OTPTypeForgetPassword, "Your password reset code"},
		{"something-else", "Your OTP: 654321"},
	}
	for _, tt := range tests {
		t.Run(tt.otpType, func(t *testing.T) {
			t.Parallel()
			msg, err := templates.OTPEmail(context.Background(), tt.otpType, "654321", 5)
			require.NoError(t, err)
			assert.Equal(t, tt.subject, msg.Subject)
			assert.Contains(t, msg.HTML, "654321")
			assert.Contains(t, msg.Text, "654321")
		})
	}
}

func TestHTMLIsEscaped(t *testing.T) {
	t.Parallel()
	msg, err := templates.OTPEmail(context.Background(), "x", "<script>", 5)
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
}

func TestRender(t *testing.T) {
	t.Parallel()
	out, err := templates.Render(context.Background(), templ.Raw("<b>hi</b>"))
	require.NoError(t, err)
	assert.Equal(t, "<b>hi</b>", out)
}
