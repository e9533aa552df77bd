// Package catalog is the CRUD surface over products and suppliers. Stock
// quantity changes do not happen here; they belong to the stock ledger.
package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"meditrack-system/internal/database/models"
	"meditrack-system/internal/services/errs"
)

// DefaultExpiryDays pads new products without an explicit expiry date one
// year out, matching how stock arrives in practice.
const DefaultExpiryDays = 365

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type ProductInput struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	SKU          string           `json:"sku"`
	Barcode      string           `json:"barcode"`
	BatchNumber  string           `json:"batchNumber"`
	Manufacturer string           `json:"manufacturer"`
	Price        decimal.Decimal  `json:"price"`
	CostPrice    decimal.Decimal  `json:"costPrice"`
	Quantity     int              `json:"quantity"`
	ReorderLevel int              `json:"reorderLevel"`
	ExpiryDate   *time.Time       `json:"expiryDate"`
	Location     *string          `json:"location"`
	Image        *string          `json:"image"`
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Name == "" || in.SKU == "" || in.Barcode == "" {
		return nil, errs.InvalidInput("name, sku and barcode are required")
	}
	if in.Quantity < 0 {
		return nil, errs.InvalidInput("quantity must not be negative")
	}
	if in.ReorderLevel < 0 {
		return nil, errs.InvalidInput("reorder level must not be negative")
	}
	if in.Price.IsNegative() || in.CostPrice.IsNegative() {
		return nil, errs.InvalidInput("price and cost price must not be negative")
	}

	expiry := time.Now().UTC().AddDate(0, 0, DefaultExpiryDays)
	if in.ExpiryDate != nil {
		expiry = *in.ExpiryDate
	}

	product := models.Product{
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		SKU:          in.SKU,
		Barcode:      in.Barcode,
		BatchNumber:  in.BatchNumber,
		Manufacturer: in.Manufacturer,
		Price:        in.Price,
		CostPrice:    in.CostPrice,
		Quantity:     in.Quantity,
		ReorderLevel: in.ReorderLevel,
		ExpiryDate:   expiry,
		Location:     in.Location,
		Image:        in.Image,
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, errs.FromStore(err, "product", in.SKU)
	}
	return &product, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("Suppliers").First(&product, id).Error; err != nil {
		return nil, errs.FromStore(err, "product", idKey(id))
	}
	return &product, nil
}

func (s *Service) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	if sku == "" {
		return nil, errs.InvalidInput("sku required")
	}
	var product models.Product
	if err := s.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error; err != nil {
		return nil, errs.FromStore(err, "product", sku)
	}
	return &product, nil
}

func (s *Service) GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	if barcode == "" {
		return nil, errs.InvalidInput("barcode required")
	}
	var product models.Product
	if err := s.db.WithContext(ctx).Where("barcode = ?", barcode).First(&product).Error; err != nil {
		return nil, errs.FromStore(err, "product", barcode)
	}
	return &product, nil
}

type ListOptions struct {
	Category   string
	SearchTerm string
	Page       int
	PageSize   int
}

func (s *Service) ListProducts(ctx context.Context, opts ListOptions) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Product{})
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}
	if opts.SearchTerm != "" {
		searchTerm := "%" + opts.SearchTerm + "%"
		query = query.Where(
			"name LIKE ? OR sku LIKE ? OR barcode LIKE ? OR manufacturer LIKE ?",
			searchTerm, searchTerm, searchTerm, searchTerm,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.FromStore(err, "product", "")
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	if err := query.Order("id ASC").Offset(offset).Limit(pageSize).Find(&products).Error; err != nil {
		return nil, 0, errs.FromStore(err, "product", "")
	}
	return products, total, nil
}

type ProductUpdate struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category"`
	BatchNumber  *string          `json:"batchNumber"`
	Manufacturer *string          `json:"manufacturer"`
	Price        *decimal.Decimal `json:"price"`
	CostPrice    *decimal.Decimal `json:"costPrice"`
	ReorderLevel *int             `json:"reorderLevel"`
	ExpiryDate   *time.Time       `json:"expiryDate"`
	Location     *string          `json:"location"`
	Image        *string          `json:"image"`
}

// UpdateProduct applies a partial update. Quantity is deliberately absent:
// stock moves only through the ledger.
func (s *Service) UpdateProduct(ctx context.Context, id int64, in ProductUpdate) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, errs.FromStore(err, "product", idKey(id))
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.BatchNumber != nil {
		product.BatchNumber = *in.BatchNumber
	}
	if in.Manufacturer != nil {
		product.Manufacturer = *in.Manufacturer
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, errs.InvalidInput("price must not be negative")
		}
		product.Price = *in.Price
	}
	if in.CostPrice != nil {
		if in.CostPrice.IsNegative() {
			return nil, errs.InvalidInput("cost price must not be negative")
		}
		product.CostPrice = *in.CostPrice
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, errs.InvalidInput("reorder level must not be negative")
		}
		product.ReorderLevel = *in.ReorderLevel
	}
	if in.ExpiryDate != nil {
		product.ExpiryDate = *in.ExpiryDate
	}
	if in.Location != nil {
		product.Location = in.Location
	}
	if in.Image != nil {
		product.Image = in.Image
	}

	if err := s.db.WithContext(ctx).Save(&product).Error; err != nil {
		return nil, errs.FromStore(err, "product", product.SKU)
	}
	return &product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return errs.FromStore(res.Error, "product", idKey(id))
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("product", idKey(id))
	}
	return nil
}

type SupplierInput struct {
	Name          string  `json:"name"`
	ContactPerson string  `json:"contactPerson"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	ProductIDs    []int64 `json:"productIds"`
}

func (s *Service) CreateSupplier(ctx context.Context, in SupplierInput) (*models.Supplier, error) {
	if in.Name == "" {
		return nil, errs.InvalidInput("supplier name required")
	}

	supplier := models.Supplier{
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&supplier).Error; err != nil {
			return errs.FromStore(err, "supplier", in.Name)
		}
		if len(in.ProductIDs) == 0 {
			return nil
		}
		var products []models.Product
		if err := tx.Find(&products, in.ProductIDs).Error; err != nil {
			return errs.FromStore(err, "product", "")
		}
		if len(products) != len(in.ProductIDs) {
			return errs.InvalidInput("one or more product ids do not exist")
		}
		return tx.Model(&supplier).Association("Products").Append(&products)
	})
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (s *Service) GetSupplier(ctx context.Context, id int64) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.WithContext(ctx).Preload("Products").First(&supplier, id).Error; err != nil {
		return nil, errs.FromStore(err, "supplier", idKey(id))
	}
	return &supplier, nil
}

func (s *Service) ListSuppliers(ctx context.Context, opts ListOptions) ([]models.Supplier, int64, error) {
	var suppliers []models.Supplier
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Supplier{})
	if opts.SearchTerm != "" {
		searchTerm := "%" + opts.SearchTerm + "%"
		query = query.Where(
			"name LIKE ? OR contact_person LIKE ? OR email LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.FromStore(err, "supplier", "")
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	if err := query.Order("id ASC").Offset(offset).Limit(pageSize).Find(&suppliers).Error; err != nil {
		return nil, 0, errs.FromStore(err, "supplier", "")
	}
	return suppliers, total, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, id int64, in SupplierInput) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		return nil, errs.FromStore(err, "supplier", idKey(id))
	}

	if in.Name != "" {
		supplier.Name = in.Name
	}
	if in.ContactPerson != "" {
		supplier.ContactPerson = in.ContactPerson
	}
	if in.Email != "" {
		supplier.Email = in.Email
	}
	if in.Phone != "" {
		supplier.Phone = in.Phone
	}
	if in.Address != "" {
		supplier.Address = in.Address
	}

	if err := s.db.WithContext(ctx).Save(&supplier).Error; err != nil {
		return nil, errs.FromStore(err, "supplier", supplier.Name)
	}
	return &supplier, nil
}

func (s *Service) DeleteSupplier(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Supplier{}, id)
	if res.Error != nil {
		return errs.FromStore(res.Error, "supplier", idKey(id))
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("supplier", idKey(id))
	}
	return nil
}

func idKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
