// Package account serves the authentication pages and form actions:
// sign-in, sign-up, forgot-account with an emailed code, email
// verification, Google/GitHub sign-in and sign-out.
//
// Handlers are thin. Credentials, codes, tokens and provider handshakes are
// delegated to pkg/auth and pkg/otp; sessions to pkg/session. Each form
// action produces an ActionResult that is rendered back into the form. Plain
// requests get the full page, Datastar requests a patch of the form only.
//
//	accounts := account.New(cfg, account.Deps{
//		Passwords:  passwords,
//		Verifier:   verifier,
//		OTP:        otpService,
//		Sessions:   sessions,
//		Users:      users,
//		Translator: translator,
//		Cookies:    cookies,
//	}, account.WithOAuthProvider(google), account.WithLogger(log))
//
//	r.Use(sessions.Middleware, i18n.Middleware(translator))
//	r.Mount("/", accounts.Router(account.RouterOptions{RateLimiter: limiter}))
//
// /dashboard and /email-verified sit behind RequireSession.
package account
