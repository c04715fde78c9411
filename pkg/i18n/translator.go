package i18n

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"sort"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when nothing better can be negotiated.
const DefaultLanguage = "en"

// Translator resolves message keys against loaded catalogs. It is read-only
// after construction and safe for concurrent use.
type Translator struct {
	catalogs      map[string]map[string]string
	defaultLang   string
	fallbackToKey bool
	logMissing    bool
	logger        *slog.Logger
	langs         []string
	matcher       language.Matcher
}

// NewTranslator loads catalogs from adapter. The default language is placed
// first in the matcher so it wins ties during negotiation.
func NewTranslator(ctx context.Context, adapter TranslationAdapter, opts ...Option) (*Translator, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	t := &Translator{
		defaultLang:   DefaultLanguage,
		fallbackToKey: true,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}

	catalogs, err := adapter.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(catalogs) == 0 {
		return nil, ErrNoTranslations
	}
	t.catalogs = catalogs

	for lang := range catalogs {
		t.langs = append(t.langs, lang)
	}
	sort.Strings(t.langs)

	tags := []language.Tag{language.Make(t.defaultLang)}
	for _, lang := range t.langs {
		if lang != t.defaultLang {
			tags = append(tags, language.Make(lang))
		}
	}
	t.matcher = language.NewMatcher(tags)

	t.logger.InfoContext(ctx, "translations loaded", slog.Any("languages", t.langs))
	return t, nil
}

// Languages returns the loaded language codes, sorted.
func (t *Translator) Languages() []string {
	return slices.Clone(t.langs)
}

func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// Supports reports whether a catalog exists for lang.
func (t *Translator) Supports(lang string) bool {
	_, ok := t.catalogs[lang]
	return ok
}

// Match negotiates the best supported language for the given tags,
// typically parsed from Accept-Language.
func (t *Translator) Match(tags ...language.Tag) string {
	if len(tags) == 0 {
		return t.defaultLang
	}
	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No {
		return t.defaultLang
	}
	if idx == 0 {
		return t.defaultLang
	}
	others := make([]string, 0, len(t.langs))
	for _, lang := range t.langs {
		if lang != t.defaultLang {
			others = append(others, lang)
		}
	}
	return others[idx-1]
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// T translates key for lang and substitutes %{name} placeholders from
// key/value pairs:
//
//	t.T("en", "email.otp.expires", "minutes", "5")
//
// A key missing in lang falls back to the default language, then to the key itself.
func (t *Translator) T(lang, key string, args ...any) string {
	msg, ok := t.lookup(lang, key)
	if !ok {
		if t.logMissing {
			t.logger.Warn("translation not found", slog.String("lang", lang), slog.String("key", key))
		}
		if !t.fallbackToKey {
			return ""
		}
		msg = key
	}
	if len(args) < 2 {
		return msg
	}

	params := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		params[fmt.Sprint(args[i])] = fmt.Sprint(args[i+1])
	}
	return paramRegex.ReplaceAllStringFunc(msg, func(match string) string {
		if val, ok := params[match[2:len(match)-1]]; ok {
			return val
		}
		return match
	})
}

// Tc translates using the language stored in ctx by Middleware.
func (t *Translator) Tc(ctx context.Context, key string, args ...any) string {
	return t.T(GetLocale(ctx), key, args...)
}

// Has reports whether key exists in lang or in the default language.
func (t *Translator) Has(lang, key string) bool {
	_, ok := t.lookup(lang, key)
	return ok
}

func (t *Translator) lookup(lang, key string) (string, bool) {
	if msg, ok := t.catalogs[lang][key]; ok {
		return msg, true
	}
	msg, ok := t.catalogs[t.defaultLang][key]
	return msg, ok
}
