package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesData is an append-only ledger of completed sale lines. Rows are never
// updated or deleted, and current stock is never recomputed from them.
type SalesData struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID    int64           `gorm:"not null;index" json:"productId"`
	QuantitySold int             `gorm:"not null" json:"quantitySold"`
	Revenue      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"revenue"`
	Date         time.Time       `gorm:"type:date;not null;index" json:"date"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
