package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"funbook/internal/middleware"
	"funbook/internal/modules/availability"
	"funbook/internal/modules/coupon"
	"funbook/internal/pkg/response"
)

type Handler struct {
	service *Service
	avail   AvailabilityChecker
}

func NewHandler(service *Service, avail AvailabilityChecker) *Handler {
	return &Handler{service: service, avail: avail}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.create)
	rg.GET("/bookings", h.list)
	rg.GET("/bookings/:id", h.get)
	rg.POST("/bookings/:id/cancel", h.cancel)
	rg.POST("/bookings/availability", h.checkAvailability)
}

func (h *Handler) RegisterOperationalRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:id/check-in", h.checkIn)
	rg.POST("/bookings/:id/complete", h.complete)
}

func (h *Handler) create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	b, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.service.MyBookings(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid booking id")
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid booking id")
		return
	}

	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id, middleware.UserID(c), req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) checkIn(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid booking id")
		return
	}

	b, err := h.service.CheckIn(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) complete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid booking id")
		return
	}

	b, err := h.service.Complete(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) checkAvailability(c *gin.Context) {
	var req CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.avail.Check(c.Request.Context(), req.ActivityID, req.Date, req.TimeSlot, req.Participants)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, availability.ErrNoSchedule), errors.Is(err, availability.ErrInsufficientSpots):
			response.Error(c, http.StatusConflict, "NOT_AVAILABLE", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "availability check failed")
		}
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrActivityNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrActivityInactive),
		errors.Is(err, ErrParticipantBounds),
		errors.Is(err, ErrNoSpots),
		errors.Is(err, ErrNotCancellable),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, availability.ErrNoSchedule),
		errors.Is(err, availability.ErrInsufficientSpots):
		response.Error(c, http.StatusConflict, "BUSINESS_RULE", err.Error())
	case errors.Is(err, coupon.ErrNotFound),
		errors.Is(err, coupon.ErrInactive),
		errors.Is(err, coupon.ErrNotYetValid),
		errors.Is(err, coupon.ErrExpired),
		errors.Is(err, coupon.ErrExhausted),
		errors.Is(err, coupon.ErrAlreadyUsed),
		errors.Is(err, coupon.ErrMinOrder),
		errors.Is(err, coupon.ErrNotApplicable):
		response.Error(c, http.StatusConflict, "COUPON_NOT_ELIGIBLE", err.Error())
	case errors.Is(err, availability.ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "operation failed")
	}
}
