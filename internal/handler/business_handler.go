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

type BusinessHandler struct {
	businessService service.BusinessService
}

func NewBusinessHandler(businessService service.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *BusinessHandler) RegisterRoutes(router *gin.RouterGroup) {
	businesses := router.Group("/businesses")
	{
		// Public directory
		businesses.GET("", h.List)
		businesses.GET("/:id", h.GetByID)

		// Owner self-registration and staff management
		staffOrOwner := middleware.RequireRoles(auth.RoleSuperAdmin, auth.RoleContentAdmin, auth.RoleBusinessOwner)
		businesses.POST("", staffOrOwner, h.Create)
		businesses.PUT("/:id", staffOrOwner, h.Update)
		businesses.DELETE("/:id", staffOrOwner, h.Delete)
	}

	router.GET("/my-businesses", middleware.RequireRoles(auth.RoleBusinessOwner), h.ListMine)
}

// Create handles POST /businesses
// @Summary      Create business
// @Description  Registers a business. Owners register their own; staff may assign any owner.
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateBusinessRequest  true  "Create Business Payload"
// @Success      201      {object}  response.Response{data=service.BusinessResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /businesses [post]
func (h *BusinessHandler) Create(c *gin.Context) {
	var req service.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	business, err := h.businessService.Create(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, business))
}

// Update handles PUT /businesses/:id
// @Summary      Update business
// @Description  Updates a business. Owners may only touch businesses inside their scope.
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Business ID"
// @Param        payload  body      service.UpdateBusinessRequest  true  "Update Business Payload"
// @Success      200      {object}  response.Response{data=service.BusinessResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /businesses/{id} [put]
func (h *BusinessHandler) Update(c *gin.Context) {
	var req service.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	business, err := h.businessService.Update(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, business))
}

// Delete handles DELETE /businesses/:id
// @Summary      Delete business
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Business ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /businesses/{id} [delete]
func (h *BusinessHandler) Delete(c *gin.Context) {
	err := h.businessService.Delete(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Business deleted successfully"))
}

// GetByID handles GET /businesses/:id
// @Summary      Get business by ID
// @Tags         businesses
// @Produce      json
// @Param        id   path      string  true  "Business ID"
// @Success      200  {object}  response.Response{data=service.BusinessResponse}
// @Failure      404  {object}  response.Response
// @Router       /businesses/{id} [get]
func (h *BusinessHandler) GetByID(c *gin.Context) {
	business, err := h.businessService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, business))
}

// List handles GET /businesses
// @Summary      List businesses
// @Description  Paginated public directory with optional name search and status filter
// @Tags         businesses
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Name search"
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  response.Response{data=response.PagedData}
// @Router       /businesses [get]
func (h *BusinessHandler) List(c *gin.Context) {
	p := pagination.Parse(c)

	businesses, total, err := h.businessService.List(c.Request.Context(), p.Page, p.Limit, c.Query("search"), c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, businesses, total, p.Page, p.Limit))
}

// ListMine handles GET /my-businesses
// @Summary      List own businesses
// @Description  Lists every business owned by the authenticated owner
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.BusinessResponse}
// @Failure      401  {object}  response.Response
// @Router       /my-businesses [get]
func (h *BusinessHandler) ListMine(c *gin.Context) {
	businesses, err := h.businessService.ListMine(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, businesses))
}
