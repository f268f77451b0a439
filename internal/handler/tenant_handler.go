package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoscope/internal/authz"
	"invoscope/internal/middleware"
	"invoscope/internal/service"
	"invoscope/pkg/pagination"
	"invoscope/pkg/response"
)

type TenantHandler struct {
	tenantService service.TenantService
}

func NewTenantHandler(tenantService service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// RegisterRoutes binds the tenant endpoints. Tenant management is a
// Super Admin surface.
func (h *TenantHandler) RegisterRoutes(router *gin.RouterGroup) {
	tenants := router.Group("/tenants", middleware.RequireRoles(authz.RoleSuperAdmin))
	{
		tenants.GET("", h.ListTenants)
		tenants.GET("/:id", h.GetTenant)
		tenants.POST("", h.CreateTenant)
		tenants.PUT("/:id", h.UpdateTenant)
		tenants.DELETE("/:id", h.DeleteTenant)
	}
}

// CreateTenant handles POST /tenants
// @Summary      Create tenant
// @Description  Creates a tenant, deriving a stable lowercase alias from the name
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateTenantRequest  true  "Create Tenant Payload"
// @Success      201      {object}  response.Envelope{data=service.TenantResponse}
// @Failure      400      {object}  response.Envelope
// @Router       /tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req service.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tenant))
}

// ListTenants handles GET /tenants
// @Summary      List tenants
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Envelope{data=response.ListData}
// @Failure      500    {object}  response.Envelope
// @Router       /tenants [get]
func (h *TenantHandler) ListTenants(c *gin.Context) {
	p := pagination.Parse(c)
	tenants, total, err := h.tenantService.ListTenants(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.List(http.StatusOK, tenants, total, p.Page, p.Limit))
}

// GetTenant handles GET /tenants/:id
// @Summary      Get tenant
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Tenant ID"
// @Success      200  {object}  response.Envelope{data=service.TenantResponse}
// @Failure      404  {object}  response.Envelope
// @Router       /tenants/{id} [get]
func (h *TenantHandler) GetTenant(c *gin.Context) {
	tenant, err := h.tenantService.GetTenant(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Tenant not found"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tenant))
}

// UpdateTenant handles PUT /tenants/:id
// @Summary      Update tenant
// @Description  Updates tenant profile fields; the alias stays stable on rename
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Tenant ID"
// @Param        payload  body      service.UpdateTenantRequest  true  "Update Tenant Payload"
// @Success      200      {object}  response.Envelope{data=service.TenantResponse}
// @Failure      400      {object}  response.Envelope
// @Router       /tenants/{id} [put]
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	var req service.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tenant, err := h.tenantService.UpdateTenant(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tenant))
}

// DeleteTenant handles DELETE /tenants/:id
// @Summary      Delete tenant
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Tenant ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /tenants/{id} [delete]
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	if err := h.tenantService.DeleteTenant(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Tenant deleted"}))
}
