package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/RadislavKrasnov/contacts-api/internal/auth"
	"github.com/RadislavKrasnov/contacts-api/internal/config"
	"github.com/RadislavKrasnov/contacts-api/internal/mail"
	"github.com/RadislavKrasnov/contacts-api/internal/model"
	"github.com/RadislavKrasnov/contacts-api/internal/repository"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Issuer   *auth.Issuer
	Verifier *auth.Verifier
	Mail     *mail.Publisher
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, issuer *auth.Issuer, verifier *auth.Verifier, mailer *mail.Publisher) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Issuer: issuer, Verifier: verifier, Mail: mailer}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
type loginReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type emailReq struct {
	Email string `json:"email"`
}
type resetPasswordReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// tokenResp is the wire shape of every issued token pair.
type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Register creates a user and queues the confirmation email.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email/password required"})
	}
	role := model.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if role != model.RoleAdmin {
		role = model.RoleUser
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if existing, err := h.Users.FindByEmail(ctx, req.Email); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if existing != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "user with such email already exists"})
	}
	if existing, err := h.Users.FindByUsername(ctx, req.Username); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if existing != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "user with such username already exists"})
	}

	hashed, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	u, err := h.Users.Create(ctx, req.Username, req.Email, hashed, role, "")
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) || errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	h.sendConfirmation(ctx, u)
	return c.JSON(http.StatusCreated, u)
}

// Login verifies credentials, binds a fresh refresh token to the user and
// returns the bearer pair. Bad username and bad password share one message.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByUsername(ctx, req.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u == nil || !auth.VerifyPassword(u.HashedPassword, req.Password) {
		c.Response().Header().Set("WWW-Authenticate", "Bearer")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect login or password"})
	}
	if !u.Confirmed {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "email is not verified"})
	}

	access, err := h.Issuer.CreateAccessToken(u.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := h.Issuer.CreateRefreshToken(u.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	// Overwrite the stored binding: the previous refresh token stops verifying.
	if err := h.Users.StoreRefreshToken(ctx, u.Username, refresh); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, tokenResp{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	})
}

// ConfirmEmail flips the confirmed flag for the email inside the token.
func (h *AuthHandler) ConfirmEmail(c echo.Context) error {
	email, err := h.Verifier.VerifyEmailToken(c.Param("token"))
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": auth.ErrEmailToken.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "verification error"})
	}
	if u.Confirmed {
		return c.JSON(http.StatusOK, echo.Map{"message": "your email is already verified"})
	}
	if err := h.Users.ConfirmEmail(ctx, email); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm email failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "email is verified successfully"})
}

// RequestEmail re-sends the confirmation link. The response does not reveal
// whether the address exists.
func (h *AuthHandler) RequestEmail(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u != nil {
		if u.Confirmed {
			return c.JSON(http.StatusOK, echo.Map{"message": "your email is already verified"})
		}
		h.sendConfirmation(ctx, u)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "check your email for verification"})
}

// RefreshToken exchanges a valid, still-bound refresh token for a new access
// token. The refresh token itself is returned unchanged; rotation happens at
// login via overwrite.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	raw := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Verifier.VerifyRefresh(ctx, raw)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired refresh token"})
	}

	access, err := h.Issuer.CreateAccessToken(u.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{
		AccessToken:  access,
		RefreshToken: raw,
		TokenType:    "bearer",
	})
}

// PasswordResetRequest emails a 30-minute reset token.
func (h *AuthHandler) PasswordResetRequest(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	token, err := h.Issuer.CreatePasswordResetToken(u.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue reset token failed"})
	}
	_ = h.Mail.Publish(ctx, mail.Message{
		Kind:        mail.KindPasswordReset,
		To:          u.Email,
		Token:       token,
		Host:        h.Cfg.BaseURL,
		RequestedAt: time.Now().UTC(),
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "reset link sent"})
}

// ResetPassword sets a new password for the email inside a reset-scoped
// token. A wrong scope is forbidden, not unauthorized: the token decoded
// fine, it just is not a reset token.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil || req.Token == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token/new_password required"})
	}

	email, err := h.Verifier.VerifyPasswordReset(req.Token)
	if err != nil {
		if errors.Is(err, auth.ErrScope) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": auth.ErrScope.Error()})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.ErrInvalidToken.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	hashed, err := auth.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	if err := h.Users.ResetPassword(ctx, email, hashed); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset password failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password was reset"})
}

// sendConfirmation queues a confirmation email; failures are logged inside
// the publisher and never fail the request.
func (h *AuthHandler) sendConfirmation(ctx context.Context, u *model.User) {
	token, err := h.Issuer.CreateEmailToken(u.Email)
	if err != nil {
		return
	}
	_ = h.Mail.Publish(ctx, mail.Message{
		Kind:        mail.KindConfirmation,
		To:          u.Email,
		Username:    u.Username,
		Token:       token,
		Host:        h.Cfg.BaseURL,
		RequestedAt: time.Now().UTC(),
	})
}

// reqCtx bounds handler DB work to 5 seconds.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
