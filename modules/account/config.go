package account

// Config holds the public URLs the account flows redirect to.
type Config struct {
	// BaseURL is the public origin, e.g. https://app.example.com.
	BaseURL string
	// VerificationCallbackURL is where a verified user lands when the link
	// carries no usable callbackURL.
	VerificationCallbackURL string
}

const (
	pathSignIn        = "/sign-in"
	pathSignUp        = "/sign-up"
	pathForgotAccount = "/forgot-account"
	pathDashboard     = "/dashboard"
	pathEmailVerified = "/email-verified"
)
