// Package cache holds the Redis-backed identity cache that sits in front of
// "current user" resolution. Its absence or failure never changes resolution
// correctness, only performance.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RadislavKrasnov/contacts-api/internal/model"
)

// DefaultTTL is the lifetime of a cached identity entry.
const DefaultTTL = 10 * time.Minute

// callTimeout bounds each Redis round trip so a hung backend degrades to a
// miss instead of blocking resolution.
const callTimeout = 300 * time.Millisecond

// UserCache maps a raw bearer-token string to the resolved user. Payloads are
// JSON; a corrupt payload reads as a miss, never as a user-facing error.
type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New builds a cache over the given client. A nil client yields a cache that
// always misses, so callers do not need to special-case a missing Redis.
func New(rdb *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &UserCache{rdb: rdb, ttl: ttl}
}

// Key builds the cache key for a raw token string.
func Key(token string) string {
	return "user(" + token + ")"
}

// payload round-trips exactly the identity fields downstream code needs.
type payload struct {
	ID        uint64     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Avatar    string     `json:"avatar"`
	Role      model.Role `json:"role"`
	Confirmed bool       `json:"confirmed"`
}

// Get returns the cached identity for a token or reports a miss. Backend
// errors, timeouts and undecodable payloads are all misses.
func (c *UserCache) Get(ctx context.Context, token string) (*model.User, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	bs, err := c.rdb.Get(ctx, Key(token)).Bytes()
	if err != nil {
		return nil, false
	}
	u, err := decodeUser(bs)
	if err != nil {
		return nil, false
	}
	return u, true
}

// Set stores the identity under the token key. Fire and forget: failures are
// swallowed.
func (c *UserCache) Set(ctx context.Context, token string, u *model.User) {
	if c == nil || c.rdb == nil || u == nil {
		return
	}
	bs, err := encodeUser(u)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	_ = c.rdb.SetEx(ctx, Key(token), bs, c.ttl).Err()
}

func encodeUser(u *model.User) ([]byte, error) {
	return json.Marshal(payload{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Role:      u.Role,
		Confirmed: u.Confirmed,
	})
}

func decodeUser(bs []byte) (*model.User, error) {
	var p payload
	if err := json.Unmarshal(bs, &p); err != nil {
		return nil, err
	}
	return &model.User{
		ID:        p.ID,
		Username:  p.Username,
		Email:     p.Email,
		Avatar:    p.Avatar,
		Role:      p.Role,
		Confirmed: p.Confirmed,
	}, nil
}
