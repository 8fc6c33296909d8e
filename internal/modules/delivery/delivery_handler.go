package delivery

import (
	"errors"
	"net/http"

	"quickdeliver/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for the delivery lifecycle.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate // For request body validation
}

// NewHandler creates a new delivery handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the delivery routes. The pending job board is public by
// design (agents browse open work before committing); everything else requires
// a bearer token.
func (h *Handler) RegisterRoutes(public, protected *echo.Group) {
	public.GET("/pending", h.ListPending)

	protected.POST("", h.CreateDelivery)
	protected.GET("/my", h.ListMine)
	protected.GET("/customer", h.ListCustomerDeliveries)
	protected.POST("/:deliveryId/accept", h.AcceptDelivery)
	protected.PATCH("/:deliveryId/status", h.UpdateStatus)
	protected.GET("/:deliveryId", h.GetDelivery)
}

func principal(c echo.Context) (string, models.Role) {
	return c.Get("userID").(string), models.Role(c.Get("userRole").(string))
}

func (h *Handler) CreateDelivery(c echo.Context) error {
	userID, role := principal(c)

	var req models.CreateDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	d, err := h.svc.Create(c.Request().Context(), userID, role, req)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Only customers can create deliveries"})
		}
		c.Logger().Error("Handler.CreateDelivery: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create delivery"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"message": "Delivery created", "delivery_id": d.ID})
}

func (h *Handler) ListPending(c echo.Context) error {
	deliveries, err := h.svc.ListPending(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.ListPending: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list pending deliveries"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"pending_deliveries": deliveries})
}

func (h *Handler) AcceptDelivery(c echo.Context) error {
	userID, role := principal(c)
	deliveryID := c.Param("deliveryId")

	if err := h.svc.Accept(c.Request().Context(), deliveryID, userID, role); err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Only delivery agents can accept deliveries"})
		case errors.Is(err, models.ErrInvalidID):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid delivery ID format"})
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Delivery not found"})
		case errors.Is(err, models.ErrDeliveryTaken):
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Delivery already accepted"})
		}
		c.Logger().Error("Handler.AcceptDelivery: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to accept delivery"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"message": "Delivery accepted"})
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	userID, role := principal(c)
	deliveryID := c.Param("deliveryId")

	var req models.StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	if err := h.svc.UpdateStatus(c.Request().Context(), deliveryID, userID, role, req.Status); err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Only the assigned agent can update this delivery"})
		case errors.Is(err, models.ErrInvalidID):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid delivery ID format"})
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Delivery not found"})
		case errors.Is(err, models.ErrInvalidTransition):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid status transition"})
		}
		c.Logger().Error("Handler.UpdateStatus: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update status"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"message": "Status updated to " + req.Status})
}

func (h *Handler) ListMine(c echo.Context) error {
	userID, role := principal(c)

	deliveries, err := h.svc.ListMine(c.Request().Context(), userID, role)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Access denied"})
		}
		c.Logger().Error("Handler.ListMine: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve deliveries"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"deliveries": deliveries})
}

// ListCustomerDeliveries mirrors ListMine but is customer-only; /my serves
// whichever role the caller has, /customer is pinned to customers.
func (h *Handler) ListCustomerDeliveries(c echo.Context) error {
	userID, role := principal(c)
	if role != models.RoleCustomer {
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Only customers can see their deliveries"})
	}

	deliveries, err := h.svc.ListMine(c.Request().Context(), userID, role)
	if err != nil {
		c.Logger().Error("Handler.ListCustomerDeliveries: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve deliveries"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"deliveries": deliveries})
}

func (h *Handler) GetDelivery(c echo.Context) error {
	userID, role := principal(c)
	deliveryID := c.Param("deliveryId")

	d, err := h.svc.GetByID(c.Request().Context(), deliveryID, userID, role)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Only customers can view their deliveries"})
		case errors.Is(err, models.ErrInvalidID):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid delivery ID format"})
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Delivery not found"})
		}
		c.Logger().Error("Handler.GetDelivery: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve delivery"})
	}
	return c.JSON(http.StatusOK, d)
}
