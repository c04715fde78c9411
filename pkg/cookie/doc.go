// Package cookie sets and reads HTTP cookies in plain, signed and encrypted
// form, plus one-time flash values.
//
// Keys are derived from each configured secret with HKDF-SHA256, one key for
// HMAC signatures and one for AES-256-GCM. The cookie name is mixed into the
// signature and used as GCM additional data, so a value copied to another
// cookie name fails verification. The first secret writes and all secrets
// read, which allows rotation.
//
//	cookies, err := cookie.New([]string{os.Getenv("COOKIE_SECRETS")})
//	if err != nil {
//	    return err
//	}
//	_ = cookies.SetEncrypted(w, "sid", token, cookie.WithMaxAge(3600))
//	token, err := cookies.GetEncrypted(r, "sid")
package cookie
