// Package jwt signs and verifies HS256 JSON Web Tokens on top of
// github.com/golang-jwt/jwt/v5.
//
// Claims are any struct embedding RegisteredClaims:
//
//	type verifyClaims struct {
//		Email string `json:"email"`
//		jwt.RegisteredClaims
//	}
//
//	svc, _ := jwt.NewFromString(secret)
//	token, _ := svc.Generate(verifyClaims{Email: "a@b.c", RegisteredClaims: jwt.RegisteredClaims{
//		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
//	}})
//
//	var claims verifyClaims
//	if err := svc.Parse(token, &claims); errors.Is(err, jwt.ErrExpiredToken) { ... }
//
// Parse requires an exp claim and rejects every algorithm except HS256.
package jwt
