package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RadislavKrasnov/contacts-api/internal/middleware"
	"github.com/RadislavKrasnov/contacts-api/internal/repository"
	"github.com/RadislavKrasnov/contacts-api/internal/storage"
)

// UserHandler serves the authenticated user's own profile.
type UserHandler struct {
	Users    *repository.UserRepo
	Uploader *storage.AvatarUploader
}

func NewUserHandler(users *repository.UserRepo, uploader *storage.AvatarUploader) *UserHandler {
	return &UserHandler{Users: users, Uploader: uploader}
}

// Me returns the resolved identity. On a warm cache this endpoint never
// touches the database.
func (h *UserHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// UpdateAvatar uploads a new avatar image and stores its URL. The route is
// admin-guarded by middleware; the handler itself only does the thin work.
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	u := middleware.CurrentUser(c)

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "open upload failed"})
	}
	defer func() { _ = src.Close() }()

	ctx, cancel := reqCtx(c)
	defer cancel()

	url, err := h.Uploader.Upload(ctx, u.Username, src, fh.Header.Get("Content-Type"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload avatar failed"})
	}
	updated, err := h.Users.UpdateAvatar(ctx, u.Email, url)
	if err != nil || updated == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save avatar failed"})
	}
	return c.JSON(http.StatusOK, updated)
}
