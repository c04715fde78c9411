package email

// Config holds email configuration. Postmark tokens may be empty in dev mode,
// where messages are written to DevDir instead of being sent.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SenderName           string `env:"SENDER_NAME" envDefault:"Authflow"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`

	DevMode bool   `env:"EMAIL_DEV_MODE" envDefault:"false"`
	DevDir  string `env:"EMAIL_DEV_DIR" envDefault:".emails"`
}
