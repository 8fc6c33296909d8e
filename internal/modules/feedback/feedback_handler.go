package feedback

import (
	"errors"
	"net/http"

	"quickdeliver/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for feedback.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new feedback handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the feedback routes. Reads are public lookups by
// foreign key; submission requires a bearer token.
func (h *Handler) RegisterRoutes(public, protected *echo.Group) {
	public.GET("/driver/:driverId", h.GetByDriver)
	public.GET("/customer/:customerId", h.GetByCustomer)
	public.GET("/delivery/:deliveryId", h.GetByDelivery)

	protected.POST("/submit", h.SubmitFeedback)
}

func (h *Handler) SubmitFeedback(c echo.Context) error {
	userID := c.Get("userID").(string)
	role := models.Role(c.Get("userRole").(string))

	var req models.SubmitFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	fb, err := h.svc.Submit(c.Request().Context(), userID, role, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "You can only submit feedback for your own delivered delivery"})
		case errors.Is(err, models.ErrInvalidID):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid delivery ID format"})
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Delivery not found"})
		case errors.Is(err, models.ErrNotYetDelivered):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Cannot submit feedback until delivery is marked as delivered"})
		case errors.Is(err, models.ErrFeedbackExists):
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Feedback already submitted for this delivery"})
		}
		c.Logger().Error("Handler.SubmitFeedback: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to submit feedback"})
	}

	return c.JSON(http.StatusCreated, fb)
}

func (h *Handler) GetByDriver(c echo.Context) error {
	feedbacks, err := h.svc.ListByDriver(c.Request().Context(), c.Param("driverId"))
	if err != nil {
		if errors.Is(err, models.ErrInvalidID) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid driver ID format"})
		}
		c.Logger().Error("Handler.GetByDriver: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve feedback"})
	}
	return c.JSON(http.StatusOK, feedbacks)
}

func (h *Handler) GetByCustomer(c echo.Context) error {
	feedbacks, err := h.svc.ListByCustomer(c.Request().Context(), c.Param("customerId"))
	if err != nil {
		if errors.Is(err, models.ErrInvalidID) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid customer ID format"})
		}
		c.Logger().Error("Handler.GetByCustomer: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve feedback"})
	}
	return c.JSON(http.StatusOK, feedbacks)
}

func (h *Handler) GetByDelivery(c echo.Context) error {
	fb, err := h.svc.GetByDelivery(c.Request().Context(), c.Param("deliveryId"))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidID):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid delivery ID format"})
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Feedback not found"})
		}
		c.Logger().Error("Handler.GetByDelivery: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve feedback"})
	}
	return c.JSON(http.StatusOK, fb)
}
