// Package requestid tags every request with a correlation id that shows up in
// the X-Request-ID response header, in error pages and in every log line.
package requestid
