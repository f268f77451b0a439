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

type SecretHandler struct {
	secretService service.SecretService
}

func NewSecretHandler(secretService service.SecretService) *SecretHandler {
	return &SecretHandler{secretService: secretService}
}

// RegisterRoutes binds the tenant secret endpoints, Admin and up only.
func (h *SecretHandler) RegisterRoutes(router *gin.RouterGroup) {
	secrets := router.Group("/secrets", middleware.RequireRoles(authz.RoleSuperAdmin, authz.RoleAdmin))
	{
		secrets.GET("", h.ListSecrets)
		secrets.GET("/:id", h.GetSecret)
		secrets.POST("", h.CreateSecret)
		secrets.PUT("/:id", h.UpdateSecret)
		secrets.DELETE("/:id", h.DeleteSecret)
	}
}

// CreateSecret handles POST /secrets
// @Summary      Create secret
// @Description  Stores a named secret in the caller's tenant; responses mask the value
// @Tags         secrets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateSecretRequest  true  "Create Secret Payload"
// @Success      201      {object}  response.Envelope{data=service.SecretResponse}
// @Failure      400      {object}  response.Envelope
// @Router       /secrets [post]
func (h *SecretHandler) CreateSecret(c *gin.Context) {
	var req service.CreateSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	secret, err := h.secretService.CreateSecret(c.Request.Context(), req, middleware.TenantScope(c), middleware.UserIDFrom(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, secret))
}

// ListSecrets handles GET /secrets
// @Summary      List secrets
// @Description  Lists the tenant's secrets with masked values
// @Tags         secrets
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Envelope{data=response.ListData}
// @Failure      500    {object}  response.Envelope
// @Router       /secrets [get]
func (h *SecretHandler) ListSecrets(c *gin.Context) {
	p := pagination.Parse(c)
	secrets, total, err := h.secretService.ListSecrets(c.Request.Context(), middleware.TenantScope(c), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.List(http.StatusOK, secrets, total, p.Page, p.Limit))
}

// GetSecret handles GET /secrets/:id
// @Summary      Get secret
// @Description  Returns a single secret with its value revealed
// @Tags         secrets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Secret ID"
// @Success      200  {object}  response.Envelope{data=service.SecretResponse}
// @Failure      404  {object}  response.Envelope
// @Router       /secrets/{id} [get]
func (h *SecretHandler) GetSecret(c *gin.Context) {
	secret, err := h.secretService.GetSecret(c.Request.Context(), c.Param("id"), middleware.TenantScope(c))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Secret not found"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, secret))
}

// UpdateSecret handles PUT /secrets/:id
// @Summary      Update secret
// @Tags         secrets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Secret ID"
// @Param        payload  body      service.UpdateSecretRequest  true  "Update Secret Payload"
// @Success      200      {object}  response.Envelope{data=service.SecretResponse}
// @Failure      400      {object}  response.Envelope
// @Router       /secrets/{id} [put]
func (h *SecretHandler) UpdateSecret(c *gin.Context) {
	var req service.UpdateSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	secret, err := h.secretService.UpdateSecret(c.Request.Context(), c.Param("id"), req, middleware.TenantScope(c), middleware.UserIDFrom(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, secret))
}

// DeleteSecret handles DELETE /secrets/:id
// @Summary      Delete secret
// @Tags         secrets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Secret ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /secrets/{id} [delete]
func (h *SecretHandler) DeleteSecret(c *gin.Context) {
	if err := h.secretService.DeleteSecret(c.Request.Context(), c.Param("id"), middleware.TenantScope(c), middleware.UserIDFrom(c)); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Secret deleted"}))
}
