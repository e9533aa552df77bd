package handlers

import (
	"github.com/gin-gonic/gin"

	"meditrack-system/internal/services/reports"
	"meditrack-system/internal/services/restock"
	"meditrack-system/internal/services/sales"
	"meditrack-system/internal/services/stock"
)

type SalesHTTPHandler struct {
	recorder *sales.Recorder
	ingestor *restock.Ingestor
	ledger   *stock.Ledger
	reports  *reports.Service
}

func NewSalesHTTPHandler(recorder *sales.Recorder, ingestor *restock.Ingestor, ledger *stock.Ledger, reportsSvc *reports.Service) *SalesHTTPHandler {
	return &SalesHTTPHandler{recorder: recorder, ingestor: ingestor, ledger: ledger, reports: reportsSvc}
}

type recordSaleRequest struct {
	Items []sales.SaleItem `json:"items"`
}

func (h *SalesHTTPHandler) RecordSale(c *gin.Context) {
	var req recordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	receipt, err := h.recorder.RecordSale(c.Request.Context(), req.Items)
	if err != nil {
		fail(c, err)
		return
	}

	h.reports.InvalidateCaches(c.Request.Context())
	created(c, receipt)
}

type restockRequest struct {
	Tag        string `json:"tag"`
	Quantity   int    `json:"quantity"`
	SupplierID *int64 `json:"supplierId"`
}

func (h *SalesHTTPHandler) IngestRestock(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.ingestor.IngestRestock(c.Request.Context(), req.Tag, req.Quantity, req.SupplierID)
	if err != nil {
		fail(c, err)
		return
	}

	h.reports.InvalidateCaches(c.Request.Context())
	success(c, result)
}

type adjustStockRequest struct {
	Delta int `json:"delta"`
}

// AdjustStock is the manual correction entry point; it goes through the same
// ledger as sales and restocks.
func (h *SalesHTTPHandler) AdjustStock(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequest(c, "Invalid product ID")
		return
	}

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	newQty, err := h.ledger.ApplyDelta(c.Request.Context(), id, req.Delta)
	if err != nil {
		fail(c, err)
		return
	}

	h.reports.InvalidateCaches(c.Request.Context())
	success(c, gin.H{"productId": id, "quantity": newQty})
}
