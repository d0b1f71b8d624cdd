package handler

import (
	"net/http"

	"tourportal/internal/auth"
	"tourportal/internal/middleware"
	"tourportal/internal/service"
	"tourportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type FeeHandler struct {
	feeService service.FeeService
}

func NewFeeHandler(feeService service.FeeService) *FeeHandler {
	return &FeeHandler{feeService: feeService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *FeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Rule catalog administration is super_admin only
	rules := router.Group("/fee-rules", middleware.RequireRoles(auth.RoleSuperAdmin))
	{
		rules.GET("", h.ListRules)
		rules.POST("", h.CreateRule)
		rules.PUT("/:id", h.UpdateRule)
		rules.DELETE("/:id", h.DeleteRule)
	}

	// Owners read their estimated obligations; staff may inspect too
	router.GET("/my-fees", middleware.RequireRoles(auth.RoleSuperAdmin, auth.RoleContentAdmin, auth.RoleBusinessOwner), h.OwnerSummary)
}

// ListRules handles GET /fee-rules
// @Summary      List fee rules
// @Description  Full rule catalog, every status included
// @Tags         fees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.FeeRuleResponse}
// @Router       /fee-rules [get]
func (h *FeeHandler) ListRules(c *gin.Context) {
	rules, err := h.feeService.ListFeeRules(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rules))
}

// CreateRule handles POST /fee-rules
// @Summary      Create fee rule
// @Tags         fees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateFeeRuleRequest  true  "Create Fee Rule Payload"
// @Success      201      {object}  response.Response{data=service.FeeRuleResponse}
// @Failure      400      {object}  response.Response
// @Router       /fee-rules [post]
func (h *FeeHandler) CreateRule(c *gin.Context) {
	var req service.CreateFeeRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rule, err := h.feeService.CreateFeeRule(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rule))
}

// UpdateRule handles PUT /fee-rules/:id
// @Summary      Update fee rule
// @Tags         fees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Fee Rule ID"
// @Param        payload  body      service.UpdateFeeRuleRequest  true  "Update Fee Rule Payload"
// @Success      200      {object}  response.Response{data=service.FeeRuleResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /fee-rules/{id} [put]
func (h *FeeHandler) UpdateRule(c *gin.Context) {
	var req service.UpdateFeeRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rule, err := h.feeService.UpdateFeeRule(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rule))
}

// DeleteRule handles DELETE /fee-rules/:id
// @Summary      Delete fee rule
// @Tags         fees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Fee Rule ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /fee-rules/{id} [delete]
func (h *FeeHandler) DeleteRule(c *gin.Context) {
	err := h.feeService.DeleteFeeRule(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Fee rule deleted successfully"))
}

// OwnerSummary handles GET /my-fees
// @Summary      Owner fee summary
// @Description  Estimated fee obligations over the caller's business scope for a time range
// @Tags         fees
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "Range start (RFC3339 or YYYY-MM-DD, default 30 days ago)"
// @Param        to    query     string  false  "Range end, exclusive (default now)"
// @Success      200   {object}  response.Response{data=service.FeeSummaryResponse}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /my-fees [get]
func (h *FeeHandler) OwnerSummary(c *gin.Context) {
	from, to, err := parseTimeRange(c)
	if err != nil {
		writeError(c, err)
		return
	}

	summary, err := h.feeService.OwnerFeeSummary(c.Request.Context(), middleware.CurrentPrincipal(c), from, to)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
