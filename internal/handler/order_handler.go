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

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRoles(auth.RoleSuperAdmin, auth.RoleContentAdmin, auth.RoleBusinessOwner, auth.RoleVisitor)
	adminOrOwner := middleware.RequireRoles(auth.RoleSuperAdmin, auth.RoleContentAdmin, auth.RoleBusinessOwner)

	orders := router.Group("/orders")
	{
		orders.POST("", anyRole, h.Create)
		orders.GET("", anyRole, h.List)
		orders.GET("/:id", anyRole, h.GetByID)
		orders.POST("/:id/cancel", anyRole, h.Cancel)
		orders.PUT("/:id", adminOrOwner, h.AdminUpdate)
		orders.DELETE("/:id", middleware.RequireRoles(auth.RoleSuperAdmin), h.Delete)
	}
}

// Create handles POST /orders
// @Summary      Place order
// @Description  Places a self-service order for an active offer. The total is computed server-side.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateOrderRequest  true  "Create Order Payload"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.CreateSelfService(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// List handles GET /orders
// @Summary      List orders
// @Description  Visitors see their own orders; owners and staff see orders inside their scope.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Reference number search"
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  response.Response{data=response.PagedData}
// @Failure      403     {object}  response.Response
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.OrderListFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}

	orders, total, err := h.orderService.List(c.Request.Context(), middleware.CurrentPrincipal(c), filter, p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, orders, total, p.Page, p.Limit))
}

// GetByID handles GET /orders/:id
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	order, err := h.orderService.GetByID(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// Cancel handles POST /orders/:id/cancel
// @Summary      Cancel own order
// @Description  Cancels the caller's own pending order. A reason is required.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Order ID"
// @Param        payload  body      service.CancelOrderRequest  true  "Cancellation Payload"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req service.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.CancelOwn(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// AdminUpdate handles PUT /orders/:id
// @Summary      Update order
// @Description  Administrative order correction: status, quantity, unit price. Scope enforced.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Order ID"
// @Param        payload  body      service.AdminUpdateOrderRequest  true  "Update Order Payload"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /orders/{id} [put]
func (h *OrderHandler) AdminUpdate(c *gin.Context) {
	var req service.AdminUpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.AdminUpdate(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// Delete handles DELETE /orders/:id
// @Summary      Delete order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	err := h.orderService.Delete(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Order deleted successfully"))
}
