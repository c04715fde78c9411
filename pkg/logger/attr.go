package logger

import (
	"log/slog"
	"strconv"

	"github.com/dmitrymomot/authflow/pkg/sanitizer"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups the non-nil errors under "errors". All-nil input yields an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error". A nil error yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under "user_id".
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// RequestID records the request identifier under "request_id".
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// Email records a masked address under "email". Raw addresses never reach the logs.
func Email(email string) slog.Attr {
	if email == "" {
		return slog.Attr{}
	}
	return slog.String("email", sanitizer.MaskEmail(email))
}

// OTP records a masked one-time code under "otp".
func OTP(code string) slog.Attr {
	return slog.String("otp", sanitizer.MaskCode(code))
}

// OTPType records the purpose of a one-time code (sign-in, forget-password...).
func OTPType(t string) slog.Attr {
	return slog.String("otp_type", t)
}

// Provider records a social sign-in provider id.
func Provider(id string) slog.Attr {
	return slog.String("provider", id)
}

// ClientIP records the resolved client address under "client_ip".
func ClientIP(ip string) slog.Attr {
	if ip == "" {
		return slog.Attr{}
	}
	return slog.String("client_ip", ip)
}

// Duration records a duration under "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Handler records the handler name under "handler".
func Handler(name string) slog.Attr {
	return slog.String("handler", name)
}
