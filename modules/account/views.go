package account

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/authflow/handler"
	"github.com/dmitrymomot/authflow/pkg/auth"
	"github.com/dmitrymomot/authflow/pkg/i18n"
)

//go:embed templates/*.gohtml
var templateFiles embed.FS

//go:embed locales/*.yaml
var localeFiles embed.FS

// Locales returns an i18n adapter over the embedded en and ru catalogs.
func Locales() i18n.TranslationAdapter {
	return i18n.NewFSAdapter(localeFiles, "locales/*.yaml", i18n.NewYAMLParser())
}

func parsePage(page string) *template.Template {
	return template.Must(template.ParseFS(templateFiles,
		"templates/layout.gohtml",
		"templates/"+page,
	))
}

var (
	signInTmpl        = parsePage("sign_in.gohtml")
	signUpTmpl        = parsePage("sign_up.gohtml")
	forgotTmpl        = parsePage("forgot_account.gohtml")
	emailVerifiedTmpl = parsePage("email_verified.gohtml")
	dashboardTmpl     = parsePage("dashboard.gohtml")
	errorTmpl         = parsePage("error.gohtml")
	toastTmpl         = template.Must(template.ParseFS(templateFiles, "templates/toast.gohtml"))
)

// Forgot-account steps.
const (
	StepSearch = "search"
	StepReset  = "reset"
	StepDone   = "done"
)

// FormState is what a form renders: the submitted values and the action result.
type FormState struct {
	Values map[string]string
	Result ActionResult
}

// PageData is the template data of every page. T translates into the
// request language and is filled in at render time.
type PageData struct {
	Title     string
	Lang      string
	User      *auth.User
	Form      FormState
	Notice    string
	Step      string
	Providers []string
	RequestID string
	RetryURL  string
	T         func(key string, args ...any) string
}

// Views renders account pages with the translator's catalogs.
type Views struct {
	tr *i18n.Translator
}

func NewViews(tr *i18n.Translator) *Views {
	return &Views{tr: tr}
}

func (v *Views) render(t *template.Template, name string, data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data.Lang = i18n.GetLocale(ctx)
		data.T = func(key string, args ...any) string {
			return v.tr.T(data.Lang, key, args...)
		}
		if data.User == nil {
			data.User = auth.GetUserFromContext(ctx)
		}
		return templ.FromGoHTML(t.Lookup(name), data).Render(ctx, w)
	})
}

func (v *Views) SignInPage(data PageData) templ.Component {
	data.Title = "sign_in.title"
	return v.render(signInTmpl, "layout", data)
}

func (v *Views) SignInForm(data PageData) templ.Component {
	return v.render(signInTmpl, "sign-in-form", data)
}

func (v *Views) SignUpPage(data PageData) templ.Component {
	data.Title = "sign_up.title"
	return v.render(signUpTmpl, "layout", data)
}

func (v *Views) SignUpForm(data PageData) templ.Component {
	return v.render(signUpTmpl, "sign-up-form", data)
}

func (v *Views) ForgotAccountPage(data PageData) templ.Component {
	data.Title = "forgot.title"
	if data.Step == "" {
		data.Step = StepSearch
	}
	return v.render(forgotTmpl, "layout", data)
}

func (v *Views) ForgotAccountForm(data PageData) templ.Component {
	if data.Step == "" {
		data.Step = StepSearch
	}
	return v.render(forgotTmpl, "forgot-form", data)
}

func (v *Views) EmailVerifiedPage(data PageData) templ.Component {
	data.Title = "email_verified.title"
	return v.render(emailVerifiedTmpl, "layout", data)
}

func (v *Views) DashboardPage(data PageData) templ.Component {
	data.Title = "dashboard.title"
	return v.render(dashboardTmpl, "layout", data)
}

// ErrorPage renders handler errors. Message is a translation key under "errors.".
func (v *Views) ErrorPage(p handler.ErrorPageParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return v.render(errorTmpl, "layout", PageData{
			Title:     "errors.title",
			Notice:    v.tr.Tc(ctx, "errors."+p.Error),
			RequestID: p.RequestID,
			RetryURL:  p.RetryURL,
		}).Render(ctx, w)
	})
}

// ErrorToast renders handler errors for Datastar requests.
func (v *Views) ErrorToast(p handler.ErrorToastParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return v.Toast(p.Type, v.tr.Tc(ctx, "errors."+p.Message)).Render(ctx, w)
	})
}

// Toast renders an already translated message. Type is success, error or info.
func (v *Views) Toast(toastType, message string) templ.Component {
	return templ.FromGoHTML(toastTmpl.Lookup("toast"), map[string]string{
		"Type":    toastType,
		"Message": message,
	})
}
