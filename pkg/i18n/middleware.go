package i18n

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	// LangParam selects a language explicitly and is persisted in LangCookieName.
	LangParam      = "lang"
	LangCookieName = "lang"

	maxAcceptLanguageLength = 4096
)

// ResolveLanguage picks the request language: ?lang= first, then the
// language cookie, then Accept-Language negotiation. The bool reports
// whether the choice came from the query and should be persisted.
func (t *Translator) ResolveLanguage(r *http.Request) (string, bool) {
	if lang := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(LangParam))); lang != "" && t.Supports(lang) {
		return lang, true
	}

	if c, err := r.Cookie(LangCookieName); err == nil && t.Supports(c.Value) {
		return c.Value, false
	}

	accept := r.Header.Get("Accept-Language")
	if len(accept) > maxAcceptLanguageLength {
		accept = accept[:maxAcceptLanguageLength]
	}
	if accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return t.Match(tags...), false
		}
	}
	return t.defaultLang, false
}

// Middleware stores the resolved language in the request context so
// handlers and templates can call Tc.
func Middleware(t *Translator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang, persist := t.ResolveLanguage(r)
			if persist {
				http.SetCookie(w, &http.Cookie{
					Name:     LangCookieName,
					Value:    lang,
					Path:     "/",
					MaxAge:   int((365 * 24 * time.Hour).Seconds()),
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(SetLocale(r.Context(), lang)))
		})
	}
}
