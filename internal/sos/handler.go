package sos

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"disaster-response/internal/alert"
	"disaster-response/internal/common"
	"disaster-response/internal/pkg/apperrors"
)

type Handler struct {
	service Service
	alerts  alert.Service
}

func NewHandler(service Service, alerts alert.Service) *Handler {
	return &Handler{service: service, alerts: alerts}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	report, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *Handler) Get(c *gin.Context) {
	report, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) ListActive(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	reports, err := h.service.ListActive(c.Request.Context(), limit)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

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
	radius, _ := strconv.ParseFloat(c.DefaultQuery("radius_km", "5.0"), 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	nearby, err := h.service.Nearby(c.Request.Context(), common.NewLocation(lat, lng), radius, c.Query("status_filter"), limit)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": nearby, "count": len(nearby)})
}

func (h *Handler) ByType(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "true") == "true"
	reports, err := h.service.ByType(c.Request.Context(), EmergencyType(c.Param("emergency_type")), activeOnly)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	report, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Acknowledge(c *gin.Context) {
	report, err := h.service.Acknowledge(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Resolve(c *gin.Context) {
	report, err := h.service.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Clustered(c *gin.Context) {
	radius, _ := strconv.ParseFloat(c.DefaultQuery("cluster_radius_km", "2.0"), 64)
	clusters, err := h.service.Clustered(c.Request.Context(), radius)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clusters": clusters, "count": len(clusters)})
}

func (h *Handler) NearbyResources(c *gin.Context) {
	radius, _ := strconv.ParseFloat(c.DefaultQuery("radius_km", "10.0"), 64)
	nearby, err := h.service.NearbyResources(c.Request.Context(), c.Param("id"), radius)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": nearby, "count": len(nearby)})
}

func (h *Handler) Analytics(c *gin.Context) {
	analytics, err := h.service.Analytics(c.Request.Context())
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

type broadcastRequest struct {
	SOSReportID    string      `json:"sos_report_id" binding:"required"`
	AlertType      alert.Type  `json:"alert_type" binding:"required"`
	Message        string      `json:"message" binding:"required"`
	BroadcastScope alert.Scope `json:"broadcast_scope"`
}

// BroadcastAlert lets emergency officials push a manual alert about a report.
func (h *Handler) BroadcastAlert(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	report, err := h.service.GetByID(c.Request.Context(), req.SOSReportID)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	b, err := h.alerts.Broadcast(c.Request.Context(), alert.Params{
		SOSReportID:     report.ID,
		AlertType:       req.AlertType,
		Message:         req.Message,
		Scope:           req.BroadcastScope,
		BroadcasterType: "emergency_official",
		Location:        report.Location(),
	})
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) ListAlerts(c *gin.Context) {
	alerts, err := h.alerts.ListBySOS(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}
