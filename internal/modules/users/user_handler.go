package users

import (
	"errors"
	"net/http"

	"quickdeliver/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for user administration.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new user handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the user routes. All of them require a bearer token;
// list, update and delete are additionally admin-gated in the service.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListUsers)
	g.GET("/by-email/:emailAddress", h.GetUserByEmail)
	g.GET("/:userId", h.GetUser)
	g.PUT("/:userId", h.UpdateUser)
	g.DELETE("/:userId", h.DeleteUser)
}

func callerRole(c echo.Context) models.Role {
	return models.Role(c.Get("userRole").(string))
}

func (h *Handler) ListUsers(c echo.Context) error {
	list, err := h.svc.ListAll(c.Request().Context(), callerRole(c))
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Access denied"})
		}
		c.Logger().Error("Handler.ListUsers: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list users"})
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetUser(c echo.Context) error {
	u, err := h.svc.GetByID(c.Request().Context(), c.Param("userId"))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidID):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid user ID format"})
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "User not found"})
		}
		c.Logger().Error("Handler.GetUser: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve user"})
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) GetUserByEmail(c echo.Context) error {
	u, err := h.svc.GetByEmail(c.Request().Context(), c.Param("emailAddress"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "User not found"})
		}
		c.Logger().Error("Handler.GetUserByEmail: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve user"})
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	u, err := h.svc.Update(c.Request().Context(), callerRole(c), c.Param("userId"), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Access denied"})
		case errors.Is(err, models.ErrInvalidID):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid user ID format"})
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "User not found"})
		case errors.Is(err, models.ErrEmailTaken):
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Email already registered"})
		}
		c.Logger().Error("Handler.UpdateUser: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update user"})
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), callerRole(c), c.Param("userId")); err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Access denied"})
		case errors.Is(err, models.ErrInvalidID):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid user ID format"})
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "User not found"})
		}
		c.Logger().Error("Handler.DeleteUser: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to delete user"})
	}
	return c.NoContent(http.StatusNoContent)
}
