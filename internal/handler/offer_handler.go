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

type OfferHandler struct {
	offerService service.OfferService
}

func NewOfferHandler(offerService service.OfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *OfferHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Public storefront: active offers of published businesses only
	router.GET("/offers", h.ListPublished)

	manage := router.Group("/manage/offers", middleware.RequireRoles(auth.RoleSuperAdmin, auth.RoleContentAdmin, auth.RoleBusinessOwner))
	{
		manage.GET("", h.ListScoped)
		manage.POST("", h.Create)
		manage.PUT("/:id", h.Update)
		manage.DELETE("/:id", h.Delete)
	}
}

// ListPublished handles GET /offers
// @Summary      List published offers
// @Description  Storefront listing of active offers whose business is published
// @Tags         offers
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Name search"
// @Success      200     {object}  response.Response{data=response.PagedData}
// @Router       /offers [get]
func (h *OfferHandler) ListPublished(c *gin.Context) {
	p := pagination.Parse(c)

	offers, total, err := h.offerService.ListPublished(c.Request.Context(), p.Page, p.Limit, c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, offers, total, p.Page, p.Limit))
}

// ListScoped handles GET /manage/offers
// @Summary      List offers in scope
// @Description  Lists offers limited to the caller's business scope, all statuses
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Name search"
// @Success      200     {object}  response.Response{data=response.PagedData}
// @Failure      403     {object}  response.Response
// @Router       /manage/offers [get]
func (h *OfferHandler) ListScoped(c *gin.Context) {
	p := pagination.Parse(c)

	offers, total, err := h.offerService.ListScoped(c.Request.Context(), middleware.CurrentPrincipal(c), p.Page, p.Limit, c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, offers, total, p.Page, p.Limit))
}

// Create handles POST /manage/offers
// @Summary      Create offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateOfferRequest  true  "Create Offer Payload"
// @Success      201      {object}  response.Response{data=service.OfferResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /manage/offers [post]
func (h *OfferHandler) Create(c *gin.Context) {
	var req service.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	offer, err := h.offerService.Create(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, offer))
}

// Update handles PUT /manage/offers/:id
// @Summary      Update offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Offer ID"
// @Param        payload  body      service.UpdateOfferRequest  true  "Update Offer Payload"
// @Success      200      {object}  response.Response{data=service.OfferResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /manage/offers/{id} [put]
func (h *OfferHandler) Update(c *gin.Context) {
	var req service.UpdateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	offer, err := h.offerService.Update(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, offer))
}

// Delete handles DELETE /manage/offers/:id
// @Summary      Delete offer
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Offer ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /manage/offers/{id} [delete]
func (h *OfferHandler) Delete(c *gin.Context) {
	err := h.offerService.Delete(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Offer deleted successfully"))
}
