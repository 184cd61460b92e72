package resource

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"disaster-response/internal/common"
	"disaster-response/internal/pkg/apperrors"
)

type Handler struct {
	service         Service
	defaultRadiusKM float64
}

func NewHandler(service Service, defaultRadiusKM float64) *Handler {
	if defaultRadiusKM <= 0 {
		defaultRadiusKM = 10.0
	}
	return &Handler{service: service, defaultRadiusKM: defaultRadiusKM}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	r, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) Get(c *gin.Context) {
	r, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) List(c *gin.Context) {
	var status *Status
	if v := c.Query("status"); v != "" {
		s := Status(v)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "invalid status filter"}})
			return
		}
		status = &s
	}
	var resourceType *Type
	if v := c.Query("type"); v != "" {
		t := Type(v)
		if !t.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "invalid type filter"}})
			return
		}
		resourceType = &t
	}

	resources, err := h.service.ListAll(c.Request.Context(), status, resourceType)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": resources, "count": len(resources)})
}

func (h *Handler) UpdateLocation(c *gin.Context) {
	var req LocationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	r, err := h.service.UpdateLocation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	r, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Nearby serves the resource locator: available resources within radius_km of
// the given point, nearest first.
func (h *Handler) Nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "latitude is required"}})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "longitude is required"}})
		return
	}

	radius := h.defaultRadiusKM
	if v := c.Query("radius_km"); v != "" {
		radius, err = strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "radius_km must be a number"}})
			return
		}
	}

	status := StatusAvailable
	statusFilter := &status
	if v := c.Query("status"); v != "" {
		s := Status(v)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "invalid status filter"}})
			return
		}
		statusFilter = &s
	}
	var resourceType *Type
	if v := c.Query("type"); v != "" {
		t := Type(v)
		if !t.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "invalid type filter"}})
			return
		}
		resourceType = &t
	}

	nearby, err := h.service.FindNearby(c.Request.Context(), common.NewLocation(lat, lng), radius, statusFilter, resourceType)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": nearby, "count": len(nearby)})
}

func (h *Handler) GetLocation(c *gin.Context) {
	loc, err := h.service.GetLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resource_id": c.Param("id"), "latitude": loc.Lat, "longitude": loc.Lng})
}
