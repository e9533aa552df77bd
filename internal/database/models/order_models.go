package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
)

type Order struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber   string          `gorm:"size:20;uniqueIndex;not null" json:"orderNumber"`
	SupplierID    int64           `gorm:"not null;index" json:"supplierId"`
	Status        OrderStatus     `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaymentStatus PaymentStatus   `gorm:"size:10;not null;default:'pending'" json:"paymentStatus"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"totalAmount"`

	ExpectedDelivery *time.Time `gorm:"type:date" json:"expectedDelivery,omitempty"`
	Notes            *string    `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Supplier *Supplier   `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"orderId"`
	ProductID int64 `gorm:"not null" json:"productId"`
	Quantity  int   `gorm:"not null;default:1" json:"quantity"`

	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unitPrice"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"totalPrice"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// ValidTransition reports whether an order may move from one status to
// another. Transitions only move forward; cancellation is terminal and
// allowed from any state except delivered.
func ValidTransition(from, to OrderStatus) bool {
	if from == to {
		return false
	}
	if to == OrderStatusCancelled {
		return from != OrderStatusDelivered && from != OrderStatusCancelled
	}
	order := map[OrderStatus]int{
		OrderStatusPending:   0,
		OrderStatusApproved:  1,
		OrderStatusShipped:   2,
		OrderStatusDelivered: 3,
	}
	fromRank, ok := order[from]
	if !ok {
		return false
	}
	toRank, ok := order[to]
	if !ok {
		return false
	}
	return toRank == fromRank+1
}
