// Package handler provides typed HTTP handlers for server-rendered pages
// that are progressively enhanced with Datastar.
//
// A HandlerFunc receives a Context and a request struct filled by binders
// and returns a Response. Wrap turns it into an http.HandlerFunc:
//
//	type SignInRequest struct {
//		Email    string `form:"email"`
//		Password string `form:"password"`
//	}
//
//	func signIn(ctx handler.Context, req SignInRequest) handler.Response {
//		if err := svc.SignIn(ctx, req.Email, req.Password); err != nil {
//			return handler.TemplPartial(views.SignInForm(err), views.SignInPage(err),
//				handler.WithTarget("#sign-in-form"))
//		}
//		return handler.Redirect("/dashboard")
//	}
//
//	r.Post("/sign-in", handler.Wrap(signIn,
//		handler.WithBinders[handler.Context, SignInRequest](binder.Form()),
//		handler.WithErrorHandler[handler.Context, SignInRequest](errorHandler),
//	))
//
// Every response checks IsDataStar: Datastar requests receive SSE element
// patches or a client-side redirect, plain requests receive HTML or a 303.
// This keeps the forms working with JavaScript disabled.
//
// # Errors
//
// HTTPError carries a status and translation key. NewErrorHandler maps
// HTTPError and validator.ValidationErrors to status codes, logs through
// slog with the request ID, and renders an error page or a toast.
// JSONError does the same mapping for the JSON endpoints.
package handler
