package loyalty

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"funbook/internal/middleware"
	"funbook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/loyalty/status", h.status)
	rg.GET("/loyalty/history", h.history)
	rg.POST("/loyalty/redeem", h.redeem)
}

func (h *Handler) status(c *gin.Context) {
	st, err := h.service.Status(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to load loyalty status")
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) history(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.service.History(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to load point history")
		return
	}
	response.Success(c, http.StatusOK, entries)
}

func (h *Handler) redeem(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.service.Redeem(c.Request.Context(), middleware.UserID(c), req.BookingID, req.Points)
	if err != nil {
		switch {
		case errors.Is(err, ErrMinRedemption), errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrBookingNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
		case errors.Is(err, ErrInsufficientPoints), errors.Is(err, ErrBookingPaid):
			response.Error(c, http.StatusConflict, "BUSINESS_RULE", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to redeem points")
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}
