package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/authflow/pkg/validator"
)

// EmailSender delivers a single transactional message.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

type SendEmailParams struct {
	SendTo   string `json:"send_to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	BodyText string `json:"body_text,omitempty"`
	Tag      string `json:"tag,omitempty"`
}

// Validate checks the recipient, the subject and that at least one body is set.
func (p SendEmailParams) Validate() error {
	rules := []validator.Rule{
		validator.RequiredString("send_to", p.SendTo),
		validator.ValidEmail("send_to", p.SendTo),
		validator.RequiredString("subject", p.Subject),
	}
	if p.BodyHTML == "" {
		rules = append(rules, validator.RequiredString("body", p.BodyText))
	}
	if err := validator.Apply(rules...); err != nil {
		return errors.Join(ErrInvalidParams, err)
	}
	return nil
}

// htmlBody returns the HTML body, falling back to the text body.
func (p SendEmailParams) htmlBody() string {
	if p.BodyHTML != "" {
		return p.BodyHTML
	}
	return p.BodyText
}

// New returns the DevSender in dev mode and the Postmark client otherwise.
func New(cfg Config) (EmailSender, error) {
	if cfg.DevMode {
		if cfg.DevDir == "" {
			return nil, fmt.Errorf("%w: EMAIL_DEV_DIR is required in dev mode", ErrInvalidConfig)
		}
		return NewDevSender(cfg.DevDir), nil
	}
	return NewPostmarkClient(cfg)
}
