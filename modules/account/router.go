package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authflow/handler"
	"github.com/dmitrymomot/authflow/pkg/binder"
	"github.com/dmitrymomot/authflow/pkg/ratelimiter"
)

// RouterOptions configures optional parts of the account router.
type RouterOptions struct {
	// RateLimiter limits the form actions per client IP and route, and the
	// actions that take an email address per address as well. Nil disables
	// limiting.
	RateLimiter ratelimiter.RateLimiter
}

// Router mounts the account pages and actions. The session middleware must
// run before it so pages can see the current session.
//
//	r := chi.NewRouter()
//	r.Use(sessions.Middleware)
//	r.Mount("/", accounts.Router(account.RouterOptions{RateLimiter: limiter}))
func (m *Module) Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Get("/", wrap(m, m.home))
	r.Get(pathSignIn, wrap(m, m.signInPage))
	r.Get(pathSignUp, wrap(m, m.signUpPage))
	r.Get(pathForgotAccount, wrap(m, m.forgotAccountPage))

	r.Group(func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(ratelimiter.Middleware(opts.RateLimiter,
				ratelimiter.Composite(ratelimiter.ByIP(), ratelimiter.ByRoute()),
				ratelimiter.WithDeniedHandler(http.HandlerFunc(m.tooManyRequests)),
				ratelimiter.WithLogger(m.logger),
			))
			// rotating client IPs does not buy more attempts against one address
			r.Use(ratelimiter.Middleware(opts.RateLimiter,
				ratelimiter.Required(ratelimiter.ByRoute(), ratelimiter.ByFormValue("email")),
				ratelimiter.WithDeniedHandler(http.HandlerFunc(m.tooManyRequests)),
				ratelimiter.WithLogger(m.logger),
			))
		}
		r.Post(pathSignIn, wrap(m, m.signIn))
		r.Post(pathSignUp, wrap(m, m.signUp))
		r.Post(pathForgotAccount, wrap(m, m.searchAccount))
		r.Post(pathForgotAccount+"/reset", wrap(m, m.resetPassword))
		r.Post("/api/auth/send-verification-email", wrap(m, m.resendVerification))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/sign-out", wrap(m, m.signOut))
		r.Get("/verify-email", wrap(m, m.verifyEmail))
		r.Get("/sign-in/{provider}", wrap(m, m.socialSignIn))
		r.Get("/callback/{provider}", wrap(m, m.socialCallback))
	})

	r.Group(func(r chi.Router) {
		r.Use(m.RequireSession)
		r.Get(pathDashboard, wrap(m, m.dashboard))
		r.Get(pathDashboard+"/*", wrap(m, m.dashboard))
		r.Get(pathEmailVerified, wrap(m, m.emailVerified))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		m.errorHandler(handler.NewContext(w, r), handler.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		m.errorHandler(handler.NewContext(w, r), handler.ErrMethodNotAllowed)
	})

	return r
}

func (m *Module) tooManyRequests(w http.ResponseWriter, r *http.Request) {
	m.errorHandler(handler.NewContext(w, r), handler.ErrTooManyRequests)
}

func wrap[R any](m *Module, h func(handler.Context, R) handler.Response) http.HandlerFunc {
	return handler.Wrap(handler.HandlerFunc[handler.Context, R](h),
		handler.WithBinders[handler.Context, R](binder.Query(), binder.Form()),
		handler.WithErrorHandler[handler.Context, R](m.errorHandler),
	)
}
