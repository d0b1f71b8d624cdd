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

type ContentHandler struct {
	contentService service.ContentService
}

func NewContentHandler(contentService service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ContentHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := middleware.RequireRoles(auth.RoleSuperAdmin, auth.RoleContentAdmin)

	attractions := router.Group("/attractions")
	{
		attractions.GET("", h.ListAttractions)
		attractions.POST("", staff, h.CreateAttraction)
		attractions.PUT("/:id", staff, h.UpdateAttraction)
		attractions.DELETE("/:id", staff, h.DeleteAttraction)
	}

	events := router.Group("/events")
	{
		events.GET("", h.ListEvents)
		events.POST("", staff, h.CreateEvent)
		events.PUT("/:id", staff, h.UpdateEvent)
		events.DELETE("/:id", staff, h.DeleteEvent)
	}
}

// ListAttractions handles GET /attractions
// @Summary      List attractions
// @Tags         content
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Name search"
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  response.Response{data=response.PagedData}
// @Router       /attractions [get]
func (h *ContentHandler) ListAttractions(c *gin.Context) {
	p := pagination.Parse(c)

	items, total, err := h.contentService.ListAttractions(c.Request.Context(), p.Page, p.Limit, c.Query("search"), c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, items, total, p.Page, p.Limit))
}

// CreateAttraction handles POST /attractions
// @Summary      Create attraction
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ContentRequest  true  "Attraction Payload"
// @Success      201      {object}  response.Response{data=service.ContentResponse}
// @Failure      400      {object}  response.Response
// @Router       /attractions [post]
func (h *ContentHandler) CreateAttraction(c *gin.Context) {
	var req service.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.contentService.CreateAttraction(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateAttraction handles PUT /attractions/:id
// @Summary      Update attraction
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true  "Attraction ID"
// @Param        payload  body      service.ContentRequest  true  "Attraction Payload"
// @Success      200      {object}  response.Response{data=service.ContentResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /attractions/{id} [put]
func (h *ContentHandler) UpdateAttraction(c *gin.Context) {
	var req service.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.contentService.UpdateAttraction(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteAttraction handles DELETE /attractions/:id
// @Summary      Delete attraction
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Attraction ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /attractions/{id} [delete]
func (h *ContentHandler) DeleteAttraction(c *gin.Context) {
	err := h.contentService.DeleteAttraction(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Attraction deleted successfully"))
}

// ListEvents handles GET /events
// @Summary      List events
// @Tags         content
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Name search"
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  response.Response{data=response.PagedData}
// @Router       /events [get]
func (h *ContentHandler) ListEvents(c *gin.Context) {
	p := pagination.Parse(c)

	items, total, err := h.contentService.ListEvents(c.Request.Context(), p.Page, p.Limit, c.Query("search"), c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, items, total, p.Page, p.Limit))
}

// CreateEvent handles POST /events
// @Summary      Create event
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ContentRequest  true  "Event Payload"
// @Success      201      {object}  response.Response{data=service.ContentResponse}
// @Failure      400      {object}  response.Response
// @Router       /events [post]
func (h *ContentHandler) CreateEvent(c *gin.Context) {
	var req service.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.contentService.CreateEvent(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateEvent handles PUT /events/:id
// @Summary      Update event
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true  "Event ID"
// @Param        payload  body      service.ContentRequest  true  "Event Payload"
// @Success      200      {object}  response.Response{data=service.ContentResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /events/{id} [put]
func (h *ContentHandler) UpdateEvent(c *gin.Context) {
	var req service.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.contentService.UpdateEvent(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteEvent handles DELETE /events/:id
// @Summary      Delete event
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /events/{id} [delete]
func (h *ContentHandler) DeleteEvent(c *gin.Context) {
	err := h.contentService.DeleteEvent(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Event deleted successfully"))
}
