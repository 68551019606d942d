package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler verifies database connectivity for load balancers and
// monitoring.
type HealthHandler struct {
	DB *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler { return &HealthHandler{DB: db} }

// Healthchecker runs SELECT 1 against the database.
func (h *HealthHandler) Healthchecker(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var one int
	if err := h.DB.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil || one != 1 {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error connecting to the database"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Welcome to the Contacts API!"})
}
