package admin

import (
	"errors"
	"net/http"

	"quickdeliver/internal/models"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for the admin analytics listings.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new admin handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the admin routes on the token-protected group; the
// admin role itself is enforced in the service.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/deliveries/driver/:driverId", h.GetDeliveriesByDriver)
	g.GET("/deliveries/customer/:customerId", h.GetDeliveriesByCustomer)
	g.GET("/feedbacks/driver/:driverId", h.GetFeedbackByDriver)
	g.GET("/feedbacks/customer/:customerId", h.GetFeedbackByCustomer)
}

func (h *Handler) respond(c echo.Context, payload interface{}, err error, op string) error {
	if err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Admins only"})
		case errors.Is(err, models.ErrInvalidID):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid ID format"})
		}
		c.Logger().Error(op+": ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve records"})
	}
	return c.JSON(http.StatusOK, payload)
}

func callerRole(c echo.Context) models.Role {
	return models.Role(c.Get("userRole").(string))
}

func (h *Handler) GetDeliveriesByDriver(c echo.Context) error {
	list, err := h.svc.DeliveriesByDriver(c.Request().Context(), callerRole(c), c.Param("driverId"))
	return h.respond(c, list, err, "Handler.GetDeliveriesByDriver")
}

func (h *Handler) GetDeliveriesByCustomer(c echo.Context) error {
	list, err := h.svc.DeliveriesByCustomer(c.Request().Context(), callerRole(c), c.Param("customerId"))
	return h.respond(c, list, err, "Handler.GetDeliveriesByCustomer")
}

func (h *Handler) GetFeedbackByDriver(c echo.Context) error {
	list, err := h.svc.FeedbackByDriver(c.Request().Context(), callerRole(c), c.Param("driverId"))
	return h.respond(c, list, err, "Handler.GetFeedbackByDriver")
}

func (h *Handler) GetFeedbackByCustomer(c echo.Context) error {
	list, err := h.svc.FeedbackByCustomer(c.Request().Context(), callerRole(c), c.Param("customerId"))
	return h.respond(c, list, err, "Handler.GetFeedbackByCustomer")
}
