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

type ImportRequest struct {
	FeedURL string `json:"feed_url" binding:"required,url"`
}

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	importService  service.ImportService
}

func NewInvoiceHandler(invoiceService service.InvoiceService, importService service.ImportService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, importService: importService}
}

// RegisterRoutes binds invoice endpoints. Every authenticated role can read
// and write invoices; hard deletes and feed imports need Admin.
func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/invoices", middleware.RequireRoles())
	{
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.POST("", h.CreateInvoice)
		invoices.PUT("/:id", h.UpdateInvoice)
		invoices.PUT("/:id/archive", h.ArchiveInvoice)
		invoices.PUT("/:id/restore", h.RestoreInvoice)
	}

	admin := router.Group("/invoices", middleware.RequireRoles(authz.RoleSuperAdmin, authz.RoleAdmin))
	{
		admin.DELETE("/:id", h.DeleteInvoice)
		admin.POST("/import", h.ImportInvoices)
	}
}

// CreateInvoice handles POST /invoices
// @Summary      Create invoice
// @Description  Creates an invoice, computing line amounts, tax and total, and assigning a per-tenant invoice number
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateInvoiceRequest  true  "Create Invoice Payload"
// @Success      201      {object}  response.Envelope{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Envelope
// @Router       /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, middleware.TenantScope(c), middleware.UserIDFrom(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// ListInvoices handles GET /invoices
// @Summary      List invoices
// @Description  Lists invoices in the caller's tenant scope with status, vendor, customer and archived filters
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "Status filter (PAID, UNPAID, OVERDUE)"
// @Param        vendor    query     string  false  "Vendor name filter"
// @Param        customer  query     string  false  "Customer name filter"
// @Param        archived  query     bool    false  "Archived filter"
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  response.Envelope{data=response.ListData}
// @Failure      500       {object}  response.Envelope
// @Router       /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.InvoiceFilter{
		Status:       c.Query("status"),
		VendorName:   c.Query("vendor"),
		CustomerName: c.Query("customer"),
		Page:         p.Page,
		Limit:        p.Limit,
	}
	if raw, ok := c.GetQuery("archived"); ok {
		archived := raw == "true" || raw == "1"
		filter.Archived = &archived
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), filter, middleware.TenantScope(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.List(http.StatusOK, invoices, total, p.Page, p.Limit))
}

// GetInvoice handles GET /invoices/:id
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Envelope{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Envelope
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"), middleware.TenantScope(c))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Invoice not found"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// UpdateInvoice handles PUT /invoices/:id
// @Summary      Update invoice
// @Description  Updates invoice fields and re-prices when line items, discount or tax rate change; archived invoices reject updates
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Invoice ID"
// @Param        payload  body      service.UpdateInvoiceRequest  true  "Update Invoice Payload"
// @Success      200      {object}  response.Envelope{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Envelope
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var req service.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.Param("id"), req, middleware.TenantScope(c), middleware.UserIDFrom(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// ArchiveInvoice handles PUT /invoices/:id/archive
// @Summary      Archive invoice
// @Description  Archives an invoice, removing it from listings and aggregations without deleting it
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /invoices/{id}/archive [put]
func (h *InvoiceHandler) ArchiveInvoice(c *gin.Context) {
	if err := h.invoiceService.ArchiveInvoice(c.Request.Context(), c.Param("id"), middleware.TenantScope(c), middleware.UserIDFrom(c)); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Invoice archived"}))
}

// RestoreInvoice handles PUT /invoices/:id/restore
// @Summary      Restore invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /invoices/{id}/restore [put]
func (h *InvoiceHandler) RestoreInvoice(c *gin.Context) {
	if err := h.invoiceService.RestoreInvoice(c.Request.Context(), c.Param("id"), middleware.TenantScope(c), middleware.UserIDFrom(c)); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Invoice restored"}))
}

// DeleteInvoice handles DELETE /invoices/:id
// @Summary      Delete invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.Param("id"), middleware.TenantScope(c), middleware.UserIDFrom(c)); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Invoice deleted"}))
}

// ImportInvoices handles POST /invoices/import
// @Summary      Import invoices from a feed
// @Description  Fetches a JSON invoice feed with retry on transient failures and stores the valid records in the caller's tenant
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      ImportRequest  true  "Feed Location"
// @Success      200      {object}  response.Envelope{data=service.ImportResult}
// @Failure      400      {object}  response.Envelope
// @Failure      502      {object}  response.Envelope
// @Router       /invoices/import [post]
func (h *InvoiceHandler) ImportInvoices(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.importService.ImportFromFeed(c.Request.Context(), req.FeedURL, middleware.TenantScope(c), middleware.UserIDFrom(c))
	if err != nil {
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
