package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"itshere/errors"
)

// Claims is the payload carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
}

func (c Claims) Username() string {
	return c.Subject
}

// Codec issues and verifies signed session tokens. The signing secret is
// injected at construction from deployment configuration; it is never
// compiled into the binary.
type Codec struct {
	secret   []byte
	duration time.Duration
}

func NewCodec(secret []byte, duration time.Duration) *Codec {
	return &Codec{secret: secret, duration: duration}
}

// Issue creates a signed token for a username, valid for the configured
// duration (HMAC with SHA256).
func (c *Codec) Issue(username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "itshere",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", errors.ErrTokenCreation
	}
	return signed, nil
}

// Verify parses and validates the signature and expiration of a token
// string. Malformed, forged and expired tokens all come back as
// ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, errors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return Claims{}, errors.ErrInvalidToken
	}
	return *claims, nil
}
