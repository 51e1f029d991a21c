package coupon

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"funbook/internal/middleware"
	"funbook/internal/pkg/response"
	"funbook/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/coupons/validate", h.validate)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/coupons", h.create)
	rg.GET("/coupons", h.list)
}

func (h *Handler) validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	v, err := h.service.Validate(c.Request.Context(), req.Code, req.ActivityID, req.OrderAmount, middleware.UserID(c))
	if err != nil {
		status, code := couponErrorStatus(err)
		response.Error(c, status, code, err.Error())
		return
	}

	response.Success(c, http.StatusOK, v)
}

func (h *Handler) create(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if details := validator.Validate(&req); details != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid coupon payload", details)
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to create coupon")
		return
	}

	response.Success(c, http.StatusCreated, created)
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	coupons, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to list coupons")
		return
	}

	response.Success(c, http.StatusOK, coupons)
}

func couponErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "COUPON_NOT_FOUND"
	case errors.Is(err, ErrInactive),
		errors.Is(err, ErrNotYetValid),
		errors.Is(err, ErrExpired),
		errors.Is(err, ErrExhausted),
		errors.Is(err, ErrAlreadyUsed),
		errors.Is(err, ErrMinOrder),
		errors.Is(err, ErrNotApplicable):
		return http.StatusConflict, "COUPON_NOT_ELIGIBLE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
