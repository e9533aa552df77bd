package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	Description  string `gorm:"type:text" json:"description"`
	Category     string `gorm:"size:255" json:"category"`
	SKU          string `gorm:"size:50;uniqueIndex;not null" json:"sku"`
	Barcode      string `gorm:"size:50;uniqueIndex;not null" json:"barcode"`
	BatchNumber  string `gorm:"size:50" json:"batchNumber"`
	Manufacturer string `gorm:"size:255" json:"manufacturer"`

	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CostPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"costPrice"`

	Quantity     int `gorm:"not null;default:0" json:"quantity"`
	ReorderLevel int `gorm:"not null;default:0" json:"reorderLevel"`

	ExpiryDate time.Time `gorm:"type:date" json:"expiryDate"`
	Location   *string   `gorm:"size:255" json:"location,omitempty"`
	Image      *string   `gorm:"size:512" json:"image,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Suppliers []Supplier `gorm:"many2many:supplier_products" json:"suppliers,omitempty"`
}

type Supplier struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string `gorm:"size:255;not null" json:"name"`
	ContactPerson string `gorm:"size:255" json:"contactPerson"`
	Email         string `gorm:"size:255" json:"email"`
	Phone         string `gorm:"size:20" json:"phone"`
	Address       string `gorm:"size:255" json:"address"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Products []Product `gorm:"many2many:supplier_products" json:"products,omitempty"`
	Orders   []Order   `gorm:"foreignKey:SupplierID" json:"orders,omitempty"`
}
