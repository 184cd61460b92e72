package assist

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"disaster-response/internal/pkg/apperrors"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Offer(c *gin.Context) {
	var req OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	offer, err := h.service.Offer(c.Request.Context(), req)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offer)
}

func (h *Handler) ListForSOS(c *gin.Context) {
	availableOnly := c.DefaultQuery("available_only", "true") == "true"
	offers, err := h.service.ListForSOS(c.Request.Context(), c.Param("id"), availableOnly)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers, "count": len(offers)})
}

func (h *Handler) Accept(c *gin.Context) {
	offer, err := h.service.Accept(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}
