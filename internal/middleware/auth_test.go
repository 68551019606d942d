package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RadislavKrasnov/contacts-api/internal/auth"
	"github.com/RadislavKrasnov/contacts-api/internal/model"
)

type stubUsers struct {
	users map[string]*model.User
}

func (s *stubUsers) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.users[username], nil
}

func testResolver(users map[string]*model.User) (*auth.Resolver, *auth.Issuer) {
	codec := auth.NewCodec("test-secret", "HS256")
	issuer := auth.NewIssuer(codec, time.Hour, 7*24*time.Hour)
	store := &stubUsers{users: users}
	return auth.NewResolver(auth.NewVerifier(codec, store), store, nil), issuer
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, *model.User) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *model.User
	err := mw(func(c echo.Context) error {
		seen = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return rec, seen
}

func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()

	alice := &model.User{ID: 1, Username: "alice", Role: model.RoleUser}
	resolver, issuer := testResolver(map[string]*model.User{"alice": alice})
	tok, err := issuer.CreateAccessToken("alice")
	require.NoError(t, err)

	rec, seen := invoke(t, Auth(resolver), "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "alice", seen.Username)
}

func TestAuth_MissingBearer(t *testing.T) {
	t.Parallel()

	resolver, _ := testResolver(nil)

	rec, seen := invoke(t, Auth(resolver), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Nil(t, seen)
}

func TestAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	resolver, _ := testResolver(nil)

	rec, seen := invoke(t, Auth(resolver), "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Nil(t, seen)
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	resolver, _ := testResolver(nil)
	mw := RequireAdmin(resolver)

	e := echo.New()
	run := func(u *model.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user", u)
		err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
		require.NoError(t, err)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, run(&model.User{Role: model.RoleUser}).Code)
	assert.Equal(t, http.StatusOK, run(&model.User{Role: model.RoleAdmin}).Code)
}
