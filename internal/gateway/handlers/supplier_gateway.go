package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meditrack-system/internal/services/catalog"
)

type SupplierHTTPHandler struct {
	catalog *catalog.Service
}

func NewSupplierHTTPHandler(catalogSvc *catalog.Service) *SupplierHTTPHandler {
	return &SupplierHTTPHandler{catalog: catalogSvc}
}

func (h *SupplierHTTPHandler) CreateSupplier(c *gin.Context) {
	var in catalog.SupplierInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	supplier, err := h.catalog.CreateSupplier(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, supplier)
}

func (h *SupplierHTTPHandler) GetSupplier(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequest(c, "Invalid supplier ID")
		return
	}

	supplier, err := h.catalog.GetSupplier(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, supplier)
}

func (h *SupplierHTTPHandler) ListSuppliers(c *gin.Context) {
	p := bindPagination(c)
	suppliers, total, err := h.catalog.ListSuppliers(c.Request.Context(), catalog.ListOptions{
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
		"data":    suppliers,
		"meta":    listMeta(total, p),
	})
}

func (h *SupplierHTTPHandler) UpdateSupplier(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequest(c, "Invalid supplier ID")
		return
	}

	var in catalog.SupplierInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	supplier, err := h.catalog.UpdateSupplier(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, supplier)
}

func (h *SupplierHTTPHandler) DeleteSupplier(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequest(c, "Invalid supplier ID")
		return
	}

	if err := h.catalog.DeleteSupplier(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"deleted": id})
}
