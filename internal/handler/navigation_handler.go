package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoscope/internal/authz"
	"invoscope/internal/middleware"
	"invoscope/pkg/response"
)

type NavigationHandler struct{}

func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

func (h *NavigationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/navigation", middleware.RequireRoles(), h.GetNavigation)
}

// GetNavigation handles GET /navigation
// @Summary      Navigation entries
// @Description  Returns the navigation entries the caller's roles allow; entries whose role requirements are not met are omitted, never disabled
// @Tags         navigation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=[]authz.NavEntry}
// @Router       /navigation [get]
func (h *NavigationHandler) GetNavigation(c *gin.Context) {
	nav := authz.FilterNav(authz.Navigation(), middleware.RolesFrom(c))
	c.JSON(http.StatusOK, response.Success(http.StatusOK, nav))
}
