package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/RadislavKrasnov/contacts-api/internal/middleware"
	"github.com/RadislavKrasnov/contacts-api/internal/model"
	"github.com/RadislavKrasnov/contacts-api/internal/repository"
)

// ContactHandler exposes per-user contact CRUD. Every operation is scoped to
// the resolved user; correctness reduces to calling the right repository
// method.
type ContactHandler struct {
	Contacts *repository.ContactRepo
}

func NewContactHandler(contacts *repository.ContactRepo) *ContactHandler {
	return &ContactHandler{Contacts: contacts}
}

type contactReq struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Birthday       string `json:"birthday"` // YYYY-MM-DD
	AdditionalInfo string `json:"additional_info"`
}

func (req *contactReq) toModel(userID uint64) (model.Contact, error) {
	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		return model.Contact{}, err
	}
	return model.Contact{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Birthday:       birthday,
		AdditionalInfo: req.AdditionalInfo,
		UserID:         userID,
	}, nil
}

// List returns a page of contacts (?skip=&limit=).
func (h *ContactHandler) List(c echo.Context) error {
	u := middleware.CurrentUser(c)
	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	contacts, err := h.Contacts.List(ctx, u.ID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	return c.JSON(http.StatusOK, contacts)
}

// Get returns one contact by id.
func (h *ContactHandler) Get(c echo.Context) error {
	u := middleware.CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid contact id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	contact, err := h.Contacts.GetByID(ctx, id, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if contact == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "contact not found"})
	}
	return c.JSON(http.StatusOK, contact)
}

// Create inserts a new contact.
func (h *ContactHandler) Create(c echo.Context) error {
	u := middleware.CurrentUser(c)
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	contact, err := req.toModel(u.ID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid birthday, expected YYYY-MM-DD"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	created, err := h.Contacts.Create(ctx, contact)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create contact failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// Update overwrites a contact.
func (h *ContactHandler) Update(c echo.Context) error {
	u := middleware.CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid contact id"})
	}
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	contact, err := req.toModel(u.ID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid birthday, expected YYYY-MM-DD"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	updated, err := h.Contacts.Update(ctx, id, contact)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update contact failed"})
	}
	if updated == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "contact not found"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a contact and returns the removed row.
func (h *ContactHandler) Delete(c echo.Context) error {
	u := middleware.CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid contact id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	deleted, err := h.Contacts.Delete(ctx, id, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete contact failed"})
	}
	if deleted == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "contact not found"})
	}
	return c.JSON(http.StatusOK, deleted)
}

// Search filters by first_name/last_name/email query params.
func (h *ContactHandler) Search(c echo.Context) error {
	u := middleware.CurrentUser(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	contacts, err := h.Contacts.Search(ctx, u.ID,
		c.QueryParam("first_name"), c.QueryParam("last_name"), c.QueryParam("email"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	return c.JSON(http.StatusOK, contacts)
}

// UpcomingBirthdays lists contacts with a birthday in the next 7 days.
func (h *ContactHandler) UpcomingBirthdays(c echo.Context) error {
	u := middleware.CurrentUser(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	contacts, err := h.Contacts.UpcomingBirthdays(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	return c.JSON(http.StatusOK, contacts)
}
