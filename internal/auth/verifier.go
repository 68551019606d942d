package auth

import (
	"context"
	"fmt"

	"github.com/RadislavKrasnov/contacts-api/internal/model"
)

// UserStore is the persistence collaborator the auth core depends on.
// Implementations return (nil, nil) when no user matches; a non-nil error is
// reserved for infrastructure failures.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// Verifier decodes tokens and validates them per kind. Each method returns a
// typed outcome so callers can map failures onto the right HTTP status
// without inspecting strings.
type Verifier struct {
	codec *Codec
	users UserStore
}

func NewVerifier(codec *Codec, users UserStore) *Verifier {
	return &Verifier{codec: codec, users: users}
}

// VerifyAccess decodes an access token and returns its subject. A decode
// failure or a missing subject claim is reported as ErrInvalidToken.
func (v *Verifier) VerifyAccess(raw string) (string, error) {
	claims, err := v.codec.Decode(raw)
	if err != nil {
		return "", err
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// VerifyEmailToken extracts the email from a confirmation token. Failures are
// surfaced as ErrEmailToken, distinct from plain unauthorized, because
// confirmation links are not credentials.
func (v *Verifier) VerifyEmailToken(raw string) (string, error) {
	claims, err := v.codec.Decode(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmailToken, err)
	}
	email, _ := claims["sub"].(string)
	if email == "" {
		return "", ErrEmailToken
	}
	return email, nil
}

// VerifyPasswordReset decodes a reset token and returns the email it was
// issued for. A token that decodes but lacks scope == "password_reset" is
// rejected with ErrScope, which is distinct from a decode failure.
func (v *Verifier) VerifyPasswordReset(raw string) (string, error) {
	claims, err := v.codec.Decode(raw)
	if err != nil {
		return "", err
	}
	if scope, _ := claims["scope"].(string); scope != ScopePasswordReset {
		return "", ErrScope
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}

// VerifyRefresh is the single entry point for refresh-token checks. It
// decodes the token, requires token_type == "refresh" and a non-empty
// subject, loads the user once, and requires the stored refresh token to
// equal the presented string exactly. Every validation failure — decode
// error, wrong type, missing claims, unknown user, binding mismatch — comes
// back as (nil, nil): a replayed rotated-out token is indistinguishable from
// a forged one on purpose. The error return is reserved for store failures.
func (v *Verifier) VerifyRefresh(ctx context.Context, raw string) (*model.User, error) {
	claims, err := v.codec.Decode(raw)
	if err != nil {
		return nil, nil
	}
	sub, _ := claims["sub"].(string)
	tokenType, _ := claims["token_type"].(string)
	if sub == "" || tokenType != TokenTypeRefresh {
		return nil, nil
	}
	u, err := v.users.FindByUsername(ctx, sub)
	if err != nil {
		return nil, err
	}
	if u == nil || u.RefreshToken != raw {
		return nil, nil
	}
	return u, nil
}
