package payment

import (
	"errors"
	"io"
	"net/http"

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
	rg.POST("/payments/initiate", h.initiate)
	rg.POST("/payments/verify", h.verify)
}

// RegisterWebhookRoutes registers the unauthenticated gateway callback.
func (h *Handler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/webhook", h.webhook)
}

func (h *Handler) initiate(c *gin.Context) {
	var req InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	params, err := h.service.Initiate(c.Request.Context(), req.BookingID, middleware.UserID(c))
	if err != nil {
		status, code := errorStatus(err)
		response.Error(c, status, code, err.Error())
		return
	}
	response.Success(c, http.StatusOK, params)
}

func (h *Handler) verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.HandleCompletion(c.Request.Context(), req.OrderID, req.PaymentID, req.Signature); err != nil {
		status, code := errorStatus(err)
		response.Error(c, status, code, err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verified": true})
}

func (h *Handler) webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "cannot read body")
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if err := h.service.HandleWebhook(c.Request.Context(), body, signature); err != nil {
		status, code := errorStatus(err)
		response.Error(c, status, code, err.Error())
		return
	}
	c.Status(http.StatusOK)
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrBookingNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, ErrInvalidSignature):
		return http.StatusBadRequest, "INVALID_SIGNATURE"
	case errors.Is(err, ErrBookingCancelled), errors.Is(err, ErrAlreadyPaid),
		errors.Is(err, ErrNoRefundable):
		return http.StatusConflict, "BUSINESS_RULE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
