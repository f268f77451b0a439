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

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit", middleware.RequireRoles(authz.RoleSuperAdmin, authz.RoleAdmin), h.ListAuditLogs)
}

// ListAuditLogs handles GET /audit
// @Summary      List audit logs
// @Description  Lists recorded mutations in the caller's tenant scope, newest first
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Envelope{data=response.ListData}
// @Failure      500    {object}  response.Envelope
// @Router       /audit [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)
	logs, total, err := h.auditService.List(c.Request.Context(), middleware.TenantScope(c), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.List(http.StatusOK, logs, total, p.Page, p.Limit))
}
