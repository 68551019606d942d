package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type and scope claim values. A token of one kind must never be
// accepted where another kind is expected; these claims are how the verifier
// tells them apart.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	ScopePasswordReset = "password_reset"
)

const (
	emailTokenTTL = 7 * 24 * time.Hour
	resetTokenTTL = 30 * time.Minute
)

// Issuer builds the four token kinds the API hands out. Default lifetimes for
// access and refresh tokens are configuration-driven; the WithTTL variants let
// callers override them. Issuing is pure encoding, no I/O.
type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(codec *Codec, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{codec: codec, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// CreateAccessToken issues a short-lived access token for the given subject.
func (i *Issuer) CreateAccessToken(sub string) (string, error) {
	return i.CreateAccessTokenWithTTL(sub, i.accessTTL)
}

// CreateAccessTokenWithTTL issues an access token with an explicit lifetime.
func (i *Issuer) CreateAccessTokenWithTTL(sub string, ttl time.Duration) (string, error) {
	return i.stamped(sub, TokenTypeAccess, ttl)
}

// CreateRefreshToken issues a long-lived refresh token for the given subject.
func (i *Issuer) CreateRefreshToken(sub string) (string, error) {
	return i.CreateRefreshTokenWithTTL(sub, i.refreshTTL)
}

// CreateRefreshTokenWithTTL issues a refresh token with an explicit lifetime.
func (i *Issuer) CreateRefreshTokenWithTTL(sub string, ttl time.Duration) (string, error) {
	return i.stamped(sub, TokenTypeRefresh, ttl)
}

// stamped builds the shared access/refresh claim shape:
// {sub, token_type, iat, exp}.
func (i *Issuer) stamped(sub, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	return i.codec.Encode(jwt.MapClaims{
		"sub":        sub,
		"token_type": tokenType,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	})
}

// CreateEmailToken issues a multi-day token for confirming an email address.
// It carries the email as the subject and no type claim: confirmation tokens
// are distinguished by usage context only.
func (i *Issuer) CreateEmailToken(email string) (string, error) {
	now := time.Now().UTC()
	return i.codec.Encode(jwt.MapClaims{
		"sub": email,
		"iat": now.Unix(),
		"exp": now.Add(emailTokenTTL).Unix(),
	})
}

// CreatePasswordResetToken issues a 30-minute single-purpose token. Shape is
// {email, scope, exp} — no sub, no iat.
func (i *Issuer) CreatePasswordResetToken(email string) (string, error) {
	return i.codec.Encode(jwt.MapClaims{
		"email": email,
		"scope": ScopePasswordReset,
		"exp":   time.Now().UTC().Add(resetTokenTTL).Unix(),
	})
}
