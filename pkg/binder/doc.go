// Package binder fills request structs from query strings and form bodies for
// handler.Wrap. Binders are plain func(*http.Request, any) error values; a
// binder that does not apply to a request returns ErrBinderNotApplicable and
// is skipped.
package binder
