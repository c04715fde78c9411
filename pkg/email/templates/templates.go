package templates

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/a-h/templ"
)

//go:embed html/*.gohtml
var files embed.FS

var (
	verificationTmpl  = parse("verification.gohtml")
	passwordResetTmpl = parse("password_reset.gohtml")
	codeTmpl          = parse("code.gohtml")
)

func parse(content string) *template.Template {
	return template.Must(template.ParseFS(files, "html/layout.gohtml", "html/"+content))
}

// Message is a rendered email.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// Render writes a component to a string.
func Render(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func build(ctx context.Context, t *template.Template, subject string, data map[string]any, text string) (Message, error) {
	data["Subject"] = subject
	html, err := Render(ctx, templ.FromGoHTML(t, data))
	if err != nil {
		return Message{}, fmt.Errorf("render %q: %w", subject, err)
	}
	return Message{Subject: subject, HTML: html, Text: text}, nil
}
