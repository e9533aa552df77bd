package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meditrack-system/internal/services/catalog"
	"meditrack-system/internal/services/reports"
)

type ProductHTTPHandler struct {
	catalog *catalog.Service
	reports *reports.Service
}

func NewProductHTTPHandler(catalogSvc *catalog.Service, reportsSvc *reports.Service) *ProductHTTPHandler {
	return &ProductHTTPHandler{catalog: catalogSvc, reports: reportsSvc}
}

func (h *ProductHTTPHandler) CreateProduct(c *gin.Context) {
	var in catalog.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}

	h.reports.InvalidateCaches(c.Request.Context())
	created(c, product)
}

func (h *ProductHTTPHandler) GetProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequest(c, "Invalid product ID")
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, product)
}

func (h *ProductHTTPHandler) GetProductBySKU(c *gin.Context) {
	product, err := h.catalog.GetProductBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, product)
}

func (h *ProductHTTPHandler) GetProductByBarcode(c *gin.Context) {
	product, err := h.catalog.GetProductByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, product)
}

func (h *ProductHTTPHandler) ListProducts(c *gin.Context) {
	p := bindPagination(c)
	products, total, err := h.catalog.ListProducts(c.Request.Context(), catalog.ListOptions{
		Category:   c.Query("category"),
		SearchTerm: c.Query("search"),
		Page:       p.Page,
		PageSize:   p.PageSize,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
		"meta":    listMeta(total, p),
	})
}

func (h *ProductHTTPHandler) UpdateProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequest(c, "Invalid product ID")
		return
	}

	var in catalog.ProductUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}

	h.reports.InvalidateCaches(c.Request.Context())
	success(c, product)
}

func (h *ProductHTTPHandler) DeleteProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequest(c, "Invalid product ID")
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	h.reports.InvalidateCaches(c.Request.Context())
	success(c, gin.H{"deleted": id})
}
