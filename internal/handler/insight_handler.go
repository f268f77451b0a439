package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"invoscope/internal/middleware"
	"invoscope/internal/service"
	"invoscope/pkg/response"
)

type InsightHandler struct {
	insightService service.InsightService
}

func NewInsightHandler(insightService service.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// RegisterRoutes binds the insight endpoints, available to any
// authenticated user within their tenant scope.
func (h *InsightHandler) RegisterRoutes(router *gin.RouterGroup) {
	insights := router.Group("/insights", middleware.RequireRoles())
	{
		insights.GET("/vendors", h.VendorTotals)
		insights.GET("/customers", h.CustomerTotals)
		insights.GET("/monthly", h.MonthlyBreakdown)
	}
}

func windowDays(c *gin.Context) int {
	days, _ := strconv.Atoi(c.Query("days"))
	return days
}

// VendorTotals handles GET /insights/vendors
// @Summary      Vendor totals over a trailing window
// @Description  Sums invoice totals per vendor over the trailing window, ordered by total descending
// @Tags         insights
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Trailing window in days (default 30)"
// @Success      200   {object}  response.Envelope{data=[]service.EntityTotalResponse}
// @Failure      500   {object}  response.Envelope
// @Router       /insights/vendors [get]
func (h *InsightHandler) VendorTotals(c *gin.Context) {
	rows, err := h.insightService.VendorTotals(c.Request.Context(), middleware.TenantScope(c), windowDays(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// CustomerTotals handles GET /insights/customers
// @Summary      Customer totals over a trailing window
// @Description  Sums invoice totals per customer over the trailing window, ordered by total descending
// @Tags         insights
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Trailing window in days (default 30)"
// @Success      200   {object}  response.Envelope{data=[]service.EntityTotalResponse}
// @Failure      500   {object}  response.Envelope
// @Router       /insights/customers [get]
func (h *InsightHandler) CustomerTotals(c *gin.Context) {
	rows, err := h.insightService.CustomerTotals(c.Request.Context(), middleware.TenantScope(c), windowDays(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// MonthlyBreakdown handles GET /insights/monthly
// @Summary      Monthly breakdown for one vendor or customer
// @Description  Groups one entity's invoices by calendar month over the trailing window, with summed totals and ascending issue dates per month
// @Tags         insights
// @Produce      json
// @Security     BearerAuth
// @Param        name  query     string  true   "Vendor or customer name (exact match)"
// @Param        by    query     string  false  "Grouping side: vendor (default) or customer"
// @Param        days  query     int     false  "Trailing window in days (default 30)"
// @Success      200   {object}  response.Envelope{data=[]service.MonthlyBreakdownResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /insights/monthly [get]
func (h *InsightHandler) MonthlyBreakdown(c *gin.Context) {
	byCustomer := c.Query("by") == "customer"
	rows, err := h.insightService.MonthlyBreakdown(c.Request.Context(), middleware.TenantScope(c), windowDays(c), byCustomer, c.Query("name"))
	if err != nil {
		if errors.Is(err, service.ErrEntityNameRequired) {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}
