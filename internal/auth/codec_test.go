package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodec() *Codec { return NewCodec("test-secret", "HS256") }

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	c := testCodec()
	exp := time.Now().UTC().Add(time.Hour).Unix()
	tok, err := c.Encode(jwt.MapClaims{"sub": "alice", "token_type": "access", "exp": exp})
	require.NoError(t, err)

	claims, err := c.Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims["sub"])
	assert.Equal(t, "access", claims["token_type"])
	// Numbers come back as float64 from JSON.
	assert.Equal(t, float64(exp), claims["exp"])
}

func TestCodec_InjectsNoTimeFields(t *testing.T) {
	t.Parallel()

	c := testCodec()
	tok, err := c.Encode(jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)

	claims, err := c.Decode(tok)
	require.NoError(t, err)
	_, hasIat := claims["iat"]
	assert.False(t, hasIat, "codec must not stamp iat on its own")
}

func TestCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := testCodec().Encode(jwt.MapClaims{"sub": "alice", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)

	_, err = NewCodec("other-secret", "HS256").Decode(tok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestCodec_Malformed(t *testing.T) {
	t.Parallel()

	_, err := testCodec().Decode("not.a.jwt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestCodec_Expired(t *testing.T) {
	t.Parallel()

	c := testCodec()
	tok, err := c.Encode(jwt.MapClaims{"sub": "alice", "exp": time.Now().Add(-time.Minute).Unix()})
	require.NoError(t, err)

	_, err = c.Decode(tok)
	require.Error(t, err, "expiry is checked as part of decode")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestCodec_AlgorithmMismatch(t *testing.T) {
	t.Parallel()

	tok, err := testCodec().Encode(jwt.MapClaims{"sub": "alice", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)

	_, err = NewCodec("test-secret", "HS512").Decode(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
