package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/model"
	"github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/service"
	"github.com/agustxnpm/foodflow-sub003/internal/shared/middleware"
	"github.com/agustxnpm/foodflow-sub003/internal/shared/response"
)

// AdminHandler exposes the promotion catalog management API. Every route is
// tenant-scoped: the tenant id comes from the authenticated token, never
// from the request body.
type AdminHandler struct {
	service service.ServiceInterface
}

func NewAdminHandler(service service.ServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// -------------------------------------------------------------------
// CREATE & UPDATE
// -------------------------------------------------------------------

// CreatePromotion handles POST /api/v1/promotions.
func (h *AdminHandler) CreatePromotion(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.Unauthorized(c, "missing tenant")
		return
	}

	var req model.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	promo, err := h.service.Create(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, promo.ToResponse())
}

// UpdatePromotion handles PUT /api/v1/promotions/:id.
func (h *AdminHandler) UpdatePromotion(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.Unauthorized(c, "missing tenant")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	var req model.UpdatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	promo, err := h.service.Update(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, promo.ToResponse())
}

// UpdateStatus handles PATCH /api/v1/promotions/:id/status.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.Unauthorized(c, "missing tenant")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	promo, err := h.service.UpdateStatus(c.Request.Context(), tenantID, id, model.Status(req.Status))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, promo.ToResponse())
}

// -------------------------------------------------------------------
// READ & DELETE
// -------------------------------------------------------------------

// GetPromotion handles GET /api/v1/promotions/:id.
func (h *AdminHandler) GetPromotion(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.Unauthorized(c, "missing tenant")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	promo, err := h.service.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, promo.ToResponse())
}

// ListPromotions handles GET /api/v1/promotions.
func (h *AdminHandler) ListPromotions(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.Unauthorized(c, "missing tenant")
		return
	}

	promos, err := h.service.List(c.Request.Context(), tenantID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]*model.PromotionResponse, 0, len(promos))
	for _, p := range promos {
		out = append(out, p.ToResponse())
	}
	response.SuccessWithMeta(c, http.StatusOK, out, &response.Meta{Total: len(out)})
}

// DeletePromotion handles DELETE /api/v1/promotions/:id.
func (h *AdminHandler) DeletePromotion(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.Unauthorized(c, "missing tenant")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

// -------------------------------------------------------------------
// ERROR MAPPING
// -------------------------------------------------------------------

func (h *AdminHandler) handleError(c *gin.Context, err error) {
	var promoErr *model.PromotionError
	if errors.As(err, &promoErr) {
		switch promoErr.Code {
		case model.ErrCodeInvalidPromotion:
			details := ""
			if promoErr.Err != nil {
				details = promoErr.Err.Error()
			}
			response.ErrorWithDetails(c, http.StatusBadRequest, promoErr.Code, promoErr.Message, details)
		case model.ErrCodeDuplicateName:
			response.ErrorResponse(c, http.StatusConflict, promoErr.Code, promoErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, promoErr.Code, promoErr.Message)
		}
		return
	}

	if errors.Is(err, model.ErrPromotionNotFound) {
		response.NotFound(c, "promotion not found")
		return
	}
	response.InternalServerError(c, "something went wrong")
}
