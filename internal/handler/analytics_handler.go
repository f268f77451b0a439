package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"invoscope/internal/middleware"
	"invoscope/internal/service"
	"invoscope/pkg/response"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// RegisterRoutes binds the analytics endpoints. Any authenticated user can
// read analytics; the tenant scope from the token bounds what they see.
func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/analytics", middleware.RequireRoles())
	{
		analytics.GET("/summary", h.GetSummary)
		analytics.GET("/status-distribution", h.GetStatusDistribution)
		analytics.GET("/monthly-trends", h.GetMonthlyTrends)
		analytics.GET("/top-vendors", h.GetTopVendors)
		analytics.GET("/top-customers", h.GetTopCustomers)
		analytics.GET("/dashboard", h.GetDashboard)
	}
}

// GetSummary handles GET /analytics/summary
// @Summary      Invoice summary statistics
// @Description  Returns raw invoice counts and amount sums for the caller's tenant scope
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=model.SummaryStats}
// @Failure      500  {object}  response.Envelope
// @Router       /analytics/summary [get]
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	stats, err := h.analyticsService.GetSummary(c.Request.Context(), middleware.TenantScope(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// GetStatusDistribution handles GET /analytics/status-distribution
// @Summary      Invoice status distribution
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=[]model.StatusCount}
// @Failure      500  {object}  response.Envelope
// @Router       /analytics/status-distribution [get]
func (h *AnalyticsHandler) GetStatusDistribution(c *gin.Context) {
	dist, err := h.analyticsService.GetStatusDistribution(c.Request.Context(), middleware.TenantScope(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, dist))
}

// GetMonthlyTrends handles GET /analytics/monthly-trends
// @Summary      Monthly invoice trends
// @Description  Returns per-month invoice counts and totals for a year, defaulting to the current year
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        year  query     int  false  "Calendar year"
// @Success      200   {object}  response.Envelope{data=[]model.MonthlyTrendRow}
// @Failure      500   {object}  response.Envelope
// @Router       /analytics/monthly-trends [get]
func (h *AnalyticsHandler) GetMonthlyTrends(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	trends, err := h.analyticsService.GetMonthlyTrends(c.Request.Context(), middleware.TenantScope(c), year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, trends))
}

// GetTopVendors handles GET /analytics/top-vendors
// @Summary      Top vendors by invoice total
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=[]model.EntityTotalRow}
// @Failure      500  {object}  response.Envelope
// @Router       /analytics/top-vendors [get]
func (h *AnalyticsHandler) GetTopVendors(c *gin.Context) {
	rows, err := h.analyticsService.GetTopVendors(c.Request.Context(), middleware.TenantScope(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// GetTopCustomers handles GET /analytics/top-customers
// @Summary      Top customers by invoice total
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=[]model.EntityTotalRow}
// @Failure      500  {object}  response.Envelope
// @Router       /analytics/top-customers [get]
func (h *AnalyticsHandler) GetTopCustomers(c *gin.Context) {
	rows, err := h.analyticsService.GetTopCustomers(c.Request.Context(), middleware.TenantScope(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// GetDashboard handles GET /analytics/dashboard
// @Summary      Dashboard analytics
// @Description  Returns the transformed dashboard payload: headline summary, status percentages, monthly trend labels and top entities
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=model.AnalyticsData}
// @Failure      500  {object}  response.Envelope
// @Router       /analytics/dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	data, err := h.analyticsService.GetDashboard(c.Request.Context(), middleware.TenantScope(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, data))
}
