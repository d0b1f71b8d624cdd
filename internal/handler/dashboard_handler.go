package handler

import (
	"net/http"
	"strconv"

	"tourportal/internal/auth"
	"tourportal/internal/middleware"
	"tourportal/internal/service"
	"tourportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard", middleware.RequireRoles(auth.RoleSuperAdmin, auth.RoleContentAdmin, auth.RoleBusinessOwner))
	{
		dashboard.GET("", h.Overview)
		dashboard.GET("/moderation", h.ModerationQueue)
	}
}

// Overview handles GET /dashboard
// @Summary      Dashboard overview
// @Description  Commerce figures scoped to the caller; staff additionally see platform-wide content tallies
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "Range start (RFC3339 or YYYY-MM-DD, default 30 days ago)"
// @Param        to    query     string  false  "Range end, exclusive (default now)"
// @Success      200   {object}  response.Response{data=service.DashboardResponse}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	from, to, err := parseTimeRange(c)
	if err != nil {
		writeError(c, err)
		return
	}

	overview, err := h.dashboardService.GetOverview(c.Request.Context(), middleware.CurrentPrincipal(c), from, to)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, overview))
}

// ModerationQueue handles GET /dashboard/moderation
// @Summary      Moderation queue
// @Description  Draft records across every content module, newest first
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max items (default 20)"
// @Success      200    {object}  response.Response{data=[]repository.ModerationItem}
// @Failure      403    {object}  response.Response
// @Router       /dashboard/moderation [get]
func (h *DashboardHandler) ModerationQueue(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	queue, err := h.dashboardService.GetModerationQueue(c.Request.Context(), middleware.CurrentPrincipal(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, queue))
}
