package review

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
	rg.POST("/reviews", h.create)
}

// RegisterPublicRoutes registers listing, which needs no authentication.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/activities/:id/reviews", h.listByActivity)
}

func (h *Handler) create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	rv, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, code := errorStatus(err)
		response.Error(c, status, code, err.Error())
		return
	}
	response.Success(c, http.StatusCreated, rv)
}

func (h *Handler) listByActivity(c *gin.Context) {
	activityID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid activity id")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	reviews, err := h.service.ListByActivity(c.Request.Context(), activityID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to list reviews")
		return
	}
	response.Success(c, http.StatusOK, reviews)
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrRatingOutOfRange):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, ErrActivityNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, ErrAlreadyReviewed):
		return http.StatusConflict, "ALREADY_REVIEWED"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
