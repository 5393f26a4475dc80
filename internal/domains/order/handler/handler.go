package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/order/model"
	"github.com/agustxnpm/foodflow-sub003/internal/domains/order/service"
	"github.com/agustxnpm/foodflow-sub003/internal/shared/middleware"
	"github.com/agustxnpm/foodflow-sub003/internal/shared/response"
)

// Handler exposes the order workflow API. Responses always carry the fully
// recalculated order so the client never needs a follow-up read.
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// -------------------------------------------------------------------
// LIFECYCLE
// -------------------------------------------------------------------

// CreateOrder handles POST /api/v1/orders.
func (h *Handler) CreateOrder(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.Unauthorized(c, "missing tenant")
		return
	}

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, err := h.service.Create(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, order.ToResponse())
}

// GetOrder handles GET /api/v1/orders/:id.
func (h *Handler) GetOrder(c *gin.Context) {
	tenantID, orderID, ok := h.scope(c)
	if !ok {
		return
	}

	order, err := h.service.Get(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order.ToResponse())
}

// ListOrders handles GET /api/v1/orders.
func (h *Handler) ListOrders(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.Unauthorized(c, "missing tenant")
		return
	}

	orders, err := h.service.ListOpen(c.Request.Context(), tenantID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]*model.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ToResponse())
	}
	response.SuccessWithMeta(c, http.StatusOK, out, &response.Meta{Total: len(out)})
}

// DeleteOrder handles DELETE /api/v1/orders/:id.
func (h *Handler) DeleteOrder(c *gin.Context) {
	tenantID, orderID, ok := h.scope(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenantID, orderID); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": orderID})
}

// -------------------------------------------------------------------
// ITEMS
// -------------------------------------------------------------------

// AddItem handles POST /api/v1/orders/:id/items.
func (h *Handler) AddItem(c *gin.Context) {
	tenantID, orderID, ok := h.scope(c)
	if !ok {
		return
	}

	var req model.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, err := h.service.AddItem(c.Request.Context(), tenantID, orderID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order.ToResponse())
}

// UpdateItemQuantity handles PATCH /api/v1/orders/:id/items/:lineId.
func (h *Handler) UpdateItemQuantity(c *gin.Context) {
	tenantID, orderID, ok := h.scope(c)
	if !ok {
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		response.BadRequest(c, "invalid line id")
		return
	}

	var req model.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.service.UpdateItemQuantity(c.Request.Context(), tenantID, orderID, lineID, req.Quantity)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order.ToResponse())
}

// RemoveItem handles DELETE /api/v1/orders/:id/items/:lineId.
func (h *Handler) RemoveItem(c *gin.Context) {
	tenantID, orderID, ok := h.scope(c)
	if !ok {
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		response.BadRequest(c, "invalid line id")
		return
	}

	order, err := h.service.RemoveItem(c.Request.Context(), tenantID, orderID, lineID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order.ToResponse())
}

// Recalculate handles POST /api/v1/orders/:id/recalculate.
func (h *Handler) Recalculate(c *gin.Context) {
	tenantID, orderID, ok := h.scope(c)
	if !ok {
		return
	}

	order, err := h.service.Recalculate(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order.ToResponse())
}

// -------------------------------------------------------------------
// MANUAL DISCOUNTS
// -------------------------------------------------------------------

// ApplyLineDiscount handles POST /api/v1/orders/:id/items/:lineId/discount.
func (h *Handler) ApplyLineDiscount(c *gin.Context) {
	tenantID, orderID, ok := h.scope(c)
	if !ok {
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		response.BadRequest(c, "invalid line id")
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "missing user")
		return
	}

	var req model.ManualDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, err := h.service.ApplyLineDiscount(c.Request.Context(), tenantID, orderID, lineID, userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order.ToResponse())
}

// ApplyGlobalDiscount handles POST /api/v1/orders/:id/discount.
func (h *Handler) ApplyGlobalDiscount(c *gin.Context) {
	tenantID, orderID, ok := h.scope(c)
	if !ok {
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "missing user")
		return
	}

	var req model.ManualDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, err := h.service.ApplyGlobalDiscount(c.Request.Context(), tenantID, orderID, userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order.ToResponse())
}

// -------------------------------------------------------------------
// HELPERS
// -------------------------------------------------------------------

func (h *Handler) scope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.Unauthorized(c, "missing tenant")
		return uuid.Nil, uuid.Nil, false
	}
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, orderID, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var orderErr *model.OrderError
	if errors.As(err, &orderErr) {
		switch orderErr.Code {
		case model.ErrCodeOrderNotFound, model.ErrCodeLineNotFound, model.ErrCodeProductNotFound:
			response.ErrorResponse(c, http.StatusNotFound, orderErr.Code, orderErr.Message)
		case model.ErrCodeNonPositiveQuantity, model.ErrCodeInvalidDiscount, model.ErrCodeInvalidOrder:
			details := ""
			if orderErr.Err != nil {
				details = orderErr.Err.Error()
			}
			response.ErrorWithDetails(c, http.StatusBadRequest, orderErr.Code, orderErr.Message, details)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, orderErr.Code, orderErr.Message)
		}
		return
	}
	response.InternalServerError(c, "something went wrong")
}
