package giftcard

import (
	"errors"
	"net/http"

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
	rg.GET("/gift-cards/:code", h.validate)
	rg.GET("/gift-cards/:code/transactions", h.transactions)
	rg.POST("/gift-cards", h.issue)
	rg.POST("/gift-cards/apply", h.apply)
}

func (h *Handler) validate(c *gin.Context) {
	v, err := h.service.Validate(c.Request.Context(), c.Param("code"))
	if err != nil {
		status, code := errorStatus(err)
		response.Error(c, status, code, err.Error())
		return
	}
	response.Success(c, http.StatusOK, v)
}

func (h *Handler) transactions(c *gin.Context) {
	txns, err := h.service.Transactions(c.Request.Context(), c.Param("code"))
	if err != nil {
		status, code := errorStatus(err)
		response.Error(c, status, code, err.Error())
		return
	}
	response.Success(c, http.StatusOK, txns)
}

func (h *Handler) issue(c *gin.Context) {
	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if details := validator.Validate(&req); details != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid gift card payload", details)
		return
	}

	card, err := h.service.Issue(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to issue gift card")
		return
	}
	response.Success(c, http.StatusCreated, card)
}

func (h *Handler) apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.service.Apply(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, code := errorStatus(err)
		response.Error(c, status, code, err.Error())
		return
	}
	response.Success(c, http.StatusOK, res)
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrBookingNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, ErrCancelled), errors.Is(err, ErrExpired),
		errors.Is(err, ErrNoBalance), errors.Is(err, ErrBookingPaid),
		errors.Is(err, ErrNothingToPay):
		return http.StatusConflict, "BUSINESS_RULE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
