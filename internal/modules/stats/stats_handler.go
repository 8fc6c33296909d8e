package stats

import (
	"errors"
	"net/http"

	"quickdeliver/internal/models"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for the reporting views.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new stats handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the reporting routes. The per-principal stats endpoint
// needs a token; the per-driver and per-customer aggregates are public reads,
// as is the global breakdown.
func (h *Handler) RegisterRoutes(public, protected *echo.Group) {
	protected.GET("/stats", h.GetUserStats)

	public.GET("/app-stats", h.GetAppStats)
	public.GET("/driver/:driverId/average-rating", h.GetDriverAverageRating)
	public.GET("/driver/:driverId/completed-deliveries", h.GetDriverCompletedDeliveries)
	public.GET("/customer/:customerId/feedback-summary", h.GetCustomerFeedbackSummary)
	public.GET("/customer/:customerId/deliveries", h.GetCustomerDeliveryCount)
}

func (h *Handler) GetUserStats(c echo.Context) error {
	userID := c.Get("userID").(string)
	role := models.Role(c.Get("userRole").(string))
	email := c.Get("userEmail").(string)

	s, err := h.svc.UserStats(c.Request().Context(), userID, role, email)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Invalid role"})
		}
		c.Logger().Error("Handler.GetUserStats: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to compute stats"})
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) GetAppStats(c echo.Context) error {
	s, err := h.svc.AppStats(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.GetAppStats: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to compute app stats"})
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) GetDriverAverageRating(c echo.Context) error {
	s, err := h.svc.DriverAverageRating(c.Request().Context(), c.Param("driverId"))
	if err != nil {
		if errors.Is(err, models.ErrInvalidID) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid driver ID format"})
		}
		c.Logger().Error("Handler.GetDriverAverageRating: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to compute average rating"})
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) GetDriverCompletedDeliveries(c echo.Context) error {
	s, err := h.svc.DriverCompletedDeliveries(c.Request().Context(), c.Param("driverId"))
	if err != nil {
		if errors.Is(err, models.ErrInvalidID) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid driver ID format"})
		}
		c.Logger().Error("Handler.GetDriverCompletedDeliveries: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to count completed deliveries"})
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) GetCustomerFeedbackSummary(c echo.Context) error {
	s, err := h.svc.CustomerFeedbackSummary(c.Request().Context(), c.Param("customerId"))
	if err != nil {
		if errors.Is(err, models.ErrInvalidID) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid customer ID format"})
		}
		c.Logger().Error("Handler.GetCustomerFeedbackSummary: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to summarize feedback"})
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) GetCustomerDeliveryCount(c echo.Context) error {
	s, err := h.svc.CustomerDeliveryCount(c.Request().Context(), c.Param("customerId"))
	if err != nil {
		if errors.Is(err, models.ErrInvalidID) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid customer ID format"})
		}
		c.Logger().Error("Handler.GetCustomerDeliveryCount: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to count deliveries"})
	}
	return c.JSON(http.StatusOK, s)
}
