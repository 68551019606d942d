package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RadislavKrasnov/contacts-api/internal/model"
)

// fakeUsers is an in-memory UserStore counting lookups.
type fakeUsers struct {
	users map[string]*model.User
	calls int
	err   error
}

func (f *fakeUsers) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.users[username], nil
}

func testVerifier(users *fakeUsers) *Verifier {
	return NewVerifier(testCodec(), users)
}

func TestVerifyAccess_Success(t *testing.T) {
	t.Parallel()

	tok, err := testIssuer().CreateAccessTokenWithTTL("alice", time.Second)
	require.NoError(t, err)

	sub, err := testVerifier(&fakeUsers{}).VerifyAccess(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestVerifyAccess_ExpiresAfterLifetime(t *testing.T) {
	t.Parallel()

	v := testVerifier(&fakeUsers{})
	tok, err := testIssuer().CreateAccessTokenWithTTL("alice", time.Second)
	require.NoError(t, err)

	sub, err := v.VerifyAccess(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)

	time.Sleep(2 * time.Second)

	_, err = v.VerifyAccess(tok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyAccess_MissingSubject(t *testing.T) {
	t.Parallel()

	tok, err := testCodec().Encode(map[string]interface{}{
		"token_type": "access",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, err = testVerifier(&fakeUsers{}).VerifyAccess(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyEmailToken(t *testing.T) {
	t.Parallel()

	v := testVerifier(&fakeUsers{})

	tok, err := testIssuer().CreateEmailToken("a@example.com")
	require.NoError(t, err)

	email, err := v.VerifyEmailToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", email)

	_, err = v.VerifyEmailToken("garbage")
	assert.True(t, errors.Is(err, ErrEmailToken))

	// A reset token decodes fine but carries no subject, so it must be
	// rejected as a confirmation token.
	reset, err := testIssuer().CreatePasswordResetToken("a@example.com")
	require.NoError(t, err)
	_, err = v.VerifyEmailToken(reset)
	assert.True(t, errors.Is(err, ErrEmailToken))
}

func TestVerifyPasswordReset(t *testing.T) {
	t.Parallel()

	v := testVerifier(&fakeUsers{})

	tok, err := testIssuer().CreatePasswordResetToken("a@example.com")
	require.NoError(t, err)

	email, err := v.VerifyPasswordReset(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", email)
}

func TestVerifyPasswordReset_ScopeRequired(t *testing.T) {
	t.Parallel()

	v := testVerifier(&fakeUsers{})

	// Well-formed and unexpired, but no scope claim.
	noScope, err := testCodec().Encode(map[string]interface{}{
		"email": "a@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	_, err = v.VerifyPasswordReset(noScope)
	assert.True(t, errors.Is(err, ErrScope))

	// Wrong scope value.
	wrongScope, err := testCodec().Encode(map[string]interface{}{
		"email": "a@example.com",
		"scope": "something_else",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	_, err = v.VerifyPasswordReset(wrongScope)
	assert.True(t, errors.Is(err, ErrScope))

	// Decode failure is not a scope error.
	_, err = v.VerifyPasswordReset("garbage")
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.False(t, errors.Is(err, ErrScope))
}

func TestVerifyRefresh_Binding(t *testing.T) {
	t.Parallel()

	issuer := testIssuer()
	alice := &model.User{ID: 1, Username: "alice", Email: "alice@example.com", Role: model.RoleUser}
	store := &fakeUsers{users: map[string]*model.User{"alice": alice}}
	v := testVerifier(store)
	ctx := context.Background()

	// First login binds token #1.
	first, err := issuer.CreateRefreshToken("alice")
	require.NoError(t, err)
	alice.RefreshToken = first

	u, err := v.VerifyRefresh(ctx, first)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "alice", u.Username)

	// Second login overwrites the binding; jwt iat has second precision so
	// force a distinct token.
	second, err := issuer.CreateRefreshTokenWithTTL("alice", 48*time.Hour)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
	alice.RefreshToken = second

	u, err = v.VerifyRefresh(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, u, "rotated-out refresh token must report no session")

	u, err = v.VerifyRefresh(ctx, second)
	require.NoError(t, err)
	require.NotNil(t, u)
}

func TestVerifyRefresh_UniformFailures(t *testing.T) {
	t.Parallel()

	issuer := testIssuer()
	alice := &model.User{ID: 1, Username: "alice"}
	store := &fakeUsers{users: map[string]*model.User{"alice": alice}}
	v := testVerifier(store)
	ctx := context.Background()

	// Decode failure.
	u, err := v.VerifyRefresh(ctx, "garbage")
	require.NoError(t, err)
	assert.Nil(t, u)

	// Access token where refresh is expected: wrong token_type.
	access, err := issuer.CreateAccessToken("alice")
	require.NoError(t, err)
	u, err = v.VerifyRefresh(ctx, access)
	require.NoError(t, err)
	assert.Nil(t, u)

	// Valid refresh token for an unknown user.
	ghost, err := issuer.CreateRefreshToken("ghost")
	require.NoError(t, err)
	u, err = v.VerifyRefresh(ctx, ghost)
	require.NoError(t, err)
	assert.Nil(t, u)

	// Valid refresh token, but nothing bound on the user record.
	bound, err := issuer.CreateRefreshToken("alice")
	require.NoError(t, err)
	alice.RefreshToken = ""
	u, err = v.VerifyRefresh(ctx, bound)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestVerifyRefresh_StoreError(t *testing.T) {
	t.Parallel()

	issuer := testIssuer()
	store := &fakeUsers{err: errors.New("db down")}
	v := testVerifier(store)

	tok, err := issuer.CreateRefreshToken("alice")
	require.NoError(t, err)

	_, err = v.VerifyRefresh(context.Background(), tok)
	require.Error(t, err, "infrastructure failures must surface, not read as no-session")
}
