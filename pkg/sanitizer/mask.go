package sanitizer

import "strings"

// NormalizeEmail trims and lowercases an address. The local part is otherwise
// kept as typed, so "first.last" and "firstlast" stay different accounts.
func NormalizeEmail(email string) string {
	return TrimToLower(RemoveControlChars(email))
}

// MaskEmail keeps the first letter of the local part and the whole domain.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return email
	}
	runes := []rune(local)
	if len(runes) == 1 {
		return "*@" + domain
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-1) + "@" + domain
}

// MaskCode keeps the first three characters of a one-time code and replaces the
// rest with "***". Codes of three characters or fewer are fully hidden.
func MaskCode(code string) string {
	runes := []rune(code)
	if len(runes) <= 3 {
		return "***"
	}
	return string(runes[:3]) + "***"
}
