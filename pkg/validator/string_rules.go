package validator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RequiredString fails for empty or whitespace-only values.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:             field,
			Message:           "field is required",
			TranslationKey:    "validation.required",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// MinLenString counts runes, so "пароль12" is eight characters long.
func MinLenString(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) >= min
		},
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be at least %d characters long", min),
			TranslationKey:    "validation.min_length",
			TranslationValues: map[string]any{"field": field, "min": min},
		},
	}
}

func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) <= max
		},
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be at most %d characters long", max),
			TranslationKey:    "validation.max_length",
			TranslationValues: map[string]any{"field": field, "max": max},
		},
	}
}

// ValidOTP requires exactly length ASCII digits.
func ValidOTP(field, value string, length int) Rule {
	return Rule{
		Check: func() bool {
			if length <= 0 || len(value) != length {
				return false
			}
			for _, r := range value {
				if r > unicode.MaxASCII || !unicode.IsDigit(r) {
					return false
				}
			}
			return true
		},
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be a %d-digit code", length),
			TranslationKey:    "validation.otp_code",
			TranslationValues: map[string]any{"field": field, "length": length},
		},
	}
}
