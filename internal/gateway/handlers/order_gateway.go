package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meditrack-system/internal/database/models"
	"meditrack-system/internal/services/orders"
	"meditrack-system/internal/services/reports"
)

type OrderHTTPHandler struct {
	orders  *orders.Service
	reports *reports.Service
}

func NewOrderHTTPHandler(ordersSvc *orders.Service, reportsSvc *reports.Service) *OrderHTTPHandler {
	return &OrderHTTPHandler{orders: ordersSvc, reports: reportsSvc}
}

func (h *OrderHTTPHandler) CreateOrder(c *gin.Context) {
	var in orders.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orders.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}

	h.reports.InvalidateCaches(c.Request.Context())
	created(c, order)
}

func (h *OrderHTTPHandler) GetOrder(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, order)
}

func (h *OrderHTTPHandler) ListOrders(c *gin.Context) {
	p := bindPagination(c)
	opts := orders.ListOptions{Page: p.Page, PageSize: p.PageSize}
	if status := c.Query("status"); status != "" {
		s := models.OrderStatus(status)
		opts.Status = &s
	}

	orderRows, total, err := h.orders.List(c.Request.Context(), opts)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orderRows,
		"meta":    listMeta(total, p),
	})
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

func (h *OrderHTTPHandler) UpdateStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequest(c, "Invalid order ID")
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		fail(c, err)
		return
	}

	h.reports.InvalidateCaches(c.Request.Context())
	success(c, order)
}

// CancelOrder handles DELETE as cancellation; orders are never hard-deleted.
func (h *OrderHTTPHandler) CancelOrder(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orders.Cancel(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	h.reports.InvalidateCaches(c.Request.Context())
	success(c, order)
}

type paymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
}

func (h *OrderHTTPHandler) UpdatePaymentStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequest(c, "Invalid order ID")
		return
	}

	var req paymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orders.UpdatePaymentStatus(c.Request.Context(), id, req.PaymentStatus)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, order)
}
