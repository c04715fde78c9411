package binder

import "net/http"

// Query binds URL query parameters into struct fields tagged `query:"name"`.
// Untagged fields are left alone. It applies to every method, so it pairs with
// Form to prefill GET pages and read POST bodies:
//
//	handler.Wrap(s.signIn, handler.WithBinders[handler.Context, SignInRequest](
//		binder.Query(),
//		binder.Form(),
//	))
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrInvalidQuery)
	}
}
