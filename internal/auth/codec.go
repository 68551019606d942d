package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Codec signs and parses claim sets with a single shared secret and
// algorithm. It is deliberately dumb: it encodes exactly the claims it is
// given and injects no time fields of its own. Issuer and Verifier decide
// claim shapes on top of it.
type Codec struct {
	secret []byte
	alg    string
}

// NewCodec builds a codec for the given signing secret and algorithm name
// (e.g. "HS256").
func NewCodec(secret, alg string) *Codec {
	return &Codec{secret: []byte(secret), alg: alg}
}

// Encode serializes and signs the supplied claims.
func (c *Codec) Encode(claims jwt.MapClaims) (string, error) {
	method := jwt.GetSigningMethod(c.alg)
	if method == nil {
		return "", fmt.Errorf("unknown signing algorithm %q", c.alg)
	}
	return jwt.NewWithClaims(method, claims).SignedString(c.secret)
}

// Decode parses and validates a token string. Expiry is checked here as part
// of parsing, not as a separate step. Any failure (signature, structure,
// algorithm mismatch, expiry) comes back as ErrInvalidToken with the cause
// wrapped in the message.
func (c *Codec) Decode(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != c.alg {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
