// Package clientip resolves the originating client address of a request
// behind Cloudflare, DigitalOcean App Platform or a generic reverse proxy.
// The rate limiter keys sign-in and reset attempts by this address.
package clientip
