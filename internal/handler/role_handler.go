package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoscope/internal/middleware"
	"invoscope/internal/repository"
	"invoscope/pkg/response"
)

type RoleHandler struct {
	roleRepo repository.RoleRepository
}

func NewRoleHandler(roleRepo repository.RoleRepository) *RoleHandler {
	return &RoleHandler{roleRepo: roleRepo}
}

func (h *RoleHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/roles", middleware.RequireRoles(), h.ListRoles)
}

// ListRoles handles GET /roles
// @Summary      List roles
// @Description  Returns the fixed role reference list; roles are seeded, never user-created
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=[]model.Role}
// @Failure      500  {object}  response.Envelope
// @Router       /roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, roles))
}
