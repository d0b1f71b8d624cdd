package handler

import (
	"net/http"

	"tourportal/internal/auth"
	"tourportal/internal/middleware"
	"tourportal/internal/service"
	"tourportal/pkg/pagination"
	"tourportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

type trackPageViewRequest struct {
	Page string `json:"page" binding:"required"`
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := middleware.RequireRoles(auth.RoleSuperAdmin, auth.RoleContentAdmin)

	router.GET("/audit-logs", staff, h.ListAuditLogs)
	router.GET("/analytics/visitors", staff, h.VisitorAnalytics)

	// Page view tracking is open to anonymous visitors
	router.POST("/track", middleware.OptionalPrincipal(), h.TrackPageView)
}

// ListAuditLogs handles GET /audit-logs
// @Summary      List audit logs
// @Description  Paginated audit trail, newest first, filterable by module and action
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        module  query     string  false  "Module filter"
// @Param        action  query     string  false  "Action filter"
// @Success      200     {object}  response.Response{data=response.PagedData}
// @Router       /audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), c.Query("module"), c.Query("action"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, logs, total, p.Page, p.Limit))
}

// TrackPageView handles POST /track
// @Summary      Record page view
// @Description  Records a visitor page view. Works for anonymous visitors too.
// @Tags         audit
// @Accept       json
// @Produce      json
// @Param        payload  body      trackPageViewRequest  true  "Tracked Page"
// @Success      202      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /track [post]
func (h *AuditHandler) TrackPageView(c *gin.Context) {
	var req trackPageViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.auditService.RecordPageView(c.Request.Context(), middleware.CurrentPrincipal(c), req.Page); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, response.Success(http.StatusAccepted, "recorded"))
}

// VisitorAnalytics handles GET /analytics/visitors
// @Summary      Visitor analytics
// @Description  Page view total and per-day series for a time range
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "Range start (RFC3339 or YYYY-MM-DD, default 30 days ago)"
// @Param        to    query     string  false  "Range end, exclusive (default now)"
// @Success      200   {object}  response.Response{data=service.VisitorAnalyticsResponse}
// @Failure      400   {object}  response.Response
// @Router       /analytics/visitors [get]
func (h *AuditHandler) VisitorAnalytics(c *gin.Context) {
	from, to, err := parseTimeRange(c)
	if err != nil {
		writeError(c, err)
		return
	}

	analytics, err := h.auditService.GetVisitorAnalytics(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, analytics))
}
