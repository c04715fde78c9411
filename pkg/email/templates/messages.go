package templates

import (
	"context"
	"fmt"
)

// PasswordResetLinkTTLMinutes is the validity stated in reset link emails.
const PasswordResetLinkTTLMinutes = 15

// DefaultOTPMinutes is used when a non-positive validity is passed.
const DefaultOTPMinutes = 5

// OTP types as sent by the auth provider.
const (
	OTPTypeSignIn            = "sign-in"
	OTPTypeEmailVerification = "email-verification"
	OTPTypeForgetPassword    = "forget-password"
)

func VerificationEmail(ctx context.Context, url string) (Message, error) {
	return build(ctx, verificationTmpl, "Confirm your email",
		map[string]any{"URL": url},
		fmt.Sprintf("To confirm your email, follow the link: %s\n\nIf you did not create an account, ignore this email.", url),
	)
}

func PasswordResetEmail(ctx context.Context, url string) (Message, error) {
	return build(ctx, passwordResetTmpl, "Password reset request",
		map[string]any{"URL": url, "ExpiresInMinutes": PasswordResetLinkTTLMinutes},
		fmt.Sprintf("To reset your password, follow the link: %s\n\nThe link is valid for %d minutes. If you did not request a password reset, ignore this email.",
			url, PasswordResetLinkTTLMinutes),
	)
}

func PasswordResetOTPEmail(ctx context.Context, code string, expiresInMinutes int) (Message, error) {
	return codeEmail(ctx, "Your password reset code", "Password reset",
		"Use this code to reset your password:", code, expiresInMinutes)
}

// OTPEmail picks the message for the OTP type. Unknown types get a generic message.
func OTPEmail(ctx context.Context, otpType, code string, expiresInMinutes int) (Message, error) {
	switch otpType {
	case OTPTypeSignIn:
		return codeEmail(ctx, "Your sign-in code: "+code, "Sign-in code",
			"Use this code to sign in:", code, expiresInMinutes)
	case OTPTypeEmailVerification:
		return codeEmail(ctx, "Your email verification code: "+code, "Email verification",
			"Use this code to verify your email:", code, expiresInMinutes)
	case OTPTypeForgetPassword:
		return PasswordResetOTPEmail(ctx, code, expiresInMinutes)
	default:
		return codeEmail(ctx, "Your OTP: "+code, "One-time code",
			"Your one-time code:", code, expiresInMinutes)
	}
}

func codeEmail(ctx context.Context, subject, heading, intro, code string, minutes int) (Message, error) {
	if minutes <= 0 {
		minutes = DefaultOTPMinutes
	}
	return build(ctx, codeTmpl, subject,
		map[string]any{"Heading": heading, "Intro": intro, "Code": code, "ExpiresInMinutes": minutes},
		fmt.Sprintf("%s %s\n\nDo not share this code with anyone. The code is valid for %d minutes.\nIf you did not request this code, ignore this email.",
			intro, code, minutes),
	)
}
