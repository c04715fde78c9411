// Package sanitizer normalizes and masks user input before it reaches the
// auth flows or the logs.
//
// Transformations are plain func(string) string values so they can be chained
// with Apply or stored as a pipeline with Compose:
//
//	clean := sanitizer.Compose(sanitizer.RemoveControlChars, sanitizer.NormalizeWhitespace)
//	name := clean(form.Name)
package sanitizer
