package auth

import (
	"context"

	"github.com/RadislavKrasnov/contacts-api/internal/model"
)

// IdentityCache maps a raw bearer-token string to a previously resolved user.
// It is strictly best-effort: Get reports a miss on any backend trouble and
// Set may silently do nothing.
type IdentityCache interface {
	Get(ctx context.Context, token string) (*model.User, bool)
	Set(ctx context.Context, token string, user *model.User)
}

// Resolver answers "who is calling" for every authenticated endpoint. The
// cache is keyed by the raw token rather than by subject, which trades a
// TTL-bounded staleness window for never having to invalidate on logout.
type Resolver struct {
	verifier *Verifier
	users    UserStore
	cache    IdentityCache
}

func NewResolver(verifier *Verifier, users UserStore, cache IdentityCache) *Resolver {
	return &Resolver{verifier: verifier, users: users, cache: cache}
}

// Resolve turns a raw bearer token into a user. A cache hit returns
// immediately and trusts the previously validated token for the TTL window.
// On a miss the token is decoded as an access token, the subject is looked
// up, and the result is cached. Decode failure, a missing subject, or an
// unknown subject all collapse into ErrUnauthorized so callers cannot tell
// which part of the check failed.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*model.User, error) {
	if r.cache != nil {
		if u, ok := r.cache.Get(ctx, raw); ok {
			return u, nil
		}
	}

	sub, err := r.verifier.VerifyAccess(raw)
	if err != nil {
		return nil, ErrUnauthorized
	}
	u, err := r.users.FindByUsername(ctx, sub)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthorized
	}

	if r.cache != nil {
		r.cache.Set(ctx, raw, u)
	}
	return u, nil
}

// RequireAdmin passes the user through unchanged when their role is admin and
// fails with ErrForbidden otherwise. It is a pure predicate composed after
// resolution, not a separate resolution path.
func (r *Resolver) RequireAdmin(u *model.User) error {
	if u == nil || u.Role != model.RoleAdmin {
		return ErrForbidden
	}
	return nil
}
