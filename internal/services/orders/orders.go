package orders

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"meditrack-system/internal/database/models"
	"meditrack-system/internal/services/errs"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type LineInput struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type CreateInput struct {
	SupplierID       int64       `json:"supplierId"`
	Items            []LineInput `json:"items"`
	ExpectedDelivery *time.Time  `json:"expectedDelivery"`
	Notes            *string     `json:"notes"`
}

// Create records a manual purchase order in pending/pending state.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Order, error) {
	if in.SupplierID == 0 {
		return nil, errs.InvalidInput("supplier_id required")
	}
	if len(in.Items) == 0 {
		return nil, errs.InvalidInput("order must have at least one item")
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, errs.InvalidInput("item quantity must be greater than 0")
		}
		if item.UnitPrice.IsNegative() {
			return nil, errs.InvalidInput("item unit price must not be negative")
		}
	}

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Supplier{}).Where("id = ?", in.SupplierID).Count(&count).Error; err != nil {
			return errs.FromStore(err, "supplier", idKey(in.SupplierID))
		}
		if count == 0 {
			return errs.NotFound("supplier", idKey(in.SupplierID))
		}

		var err error
		order, err = CreateTx(tx, in.SupplierID, models.OrderStatusPending, models.PaymentStatusPending, in.Items)
		if err != nil {
			return err
		}
		if in.ExpectedDelivery != nil || in.Notes != nil {
			updates := map[string]interface{}{}
			if in.ExpectedDelivery != nil {
				updates["expected_delivery"] = *in.ExpectedDelivery
				order.ExpectedDelivery = in.ExpectedDelivery
			}
			if in.Notes != nil {
				updates["notes"] = *in.Notes
				order.Notes = in.Notes
			}
			if err := tx.Model(order).Updates(updates).Error; err != nil {
				return errs.FromStore(err, "order", order.OrderNumber)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CreateTx inserts an order and its items inside the caller's transaction.
// The human-readable order number is derived from the row id the store's
// identity sequence assigned, so concurrent creators cannot collide; the
// placeholder written first only exists inside the transaction.
func CreateTx(tx *gorm.DB, supplierID int64, status models.OrderStatus, payment models.PaymentStatus, items []LineInput) (*models.Order, error) {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := models.Order{
		OrderNumber:   fmt.Sprintf("TMP-%d", time.Now().UnixNano()),
		SupplierID:    supplierID,
		Status:        status,
		PaymentStatus: payment,
		TotalAmount:   total,
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, errs.FromStore(err, "order", "")
	}

	order.OrderNumber = fmt.Sprintf("ORD%04d", order.ID)
	if err := tx.Model(&order).Update("order_number", order.OrderNumber).Error; err != nil {
		return nil, errs.FromStore(err, "order", order.OrderNumber)
	}

	for _, item := range items {
		line := models.OrderItem{
			OrderID:    order.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		if err := tx.Create(&line).Error; err != nil {
			return nil, errs.FromStore(err, "order item", order.OrderNumber)
		}
		order.Items = append(order.Items, line)
	}
	return &order, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items.Product").
		First(&order, id).Error
	if err != nil {
		return nil, errs.FromStore(err, "order", idKey(id))
	}
	return &order, nil
}

type ListOptions struct {
	Status   *models.OrderStatus
	Page     int
	PageSize int
}

func (s *Service) List(ctx context.Context, opts ListOptions) ([]models.Order, int64, error) {
	var orderRows []models.Order
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Order{}).Preload("Supplier").Preload("Items")
	if opts.Status != nil {
		query = query.Where("status = ?", *opts.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.FromStore(err, "order", "")
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

	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&orderRows).Error; err != nil {
		return nil, 0, errs.FromStore(err, "order", "")
	}
	return orderRows, total, nil
}

// UpdateStatus enforces the one-directional lifecycle: pending, approved,
// shipped, delivered. Cancellation is terminal and cannot be applied to a
// delivered order.
func (s *Service) UpdateStatus(ctx context.Context, id int64, to models.OrderStatus) (*models.Order, error) {
	switch to {
	case models.OrderStatusPending, models.OrderStatusApproved, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
	default:
		return nil, errs.InvalidInput("unknown order status %q", to)
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			return errs.FromStore(err, "order", idKey(id))
		}
		if !models.ValidTransition(order.Status, to) {
			return errs.InvalidInput("order %s cannot move from %s to %s", order.OrderNumber, order.Status, to)
		}
		order.Status = to
		return errs.FromStore(tx.Model(&order).Update("status", to).Error, "order", order.OrderNumber)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) Cancel(ctx context.Context, id int64) (*models.Order, error) {
	return s.UpdateStatus(ctx, id, models.OrderStatusCancelled)
}

func (s *Service) UpdatePaymentStatus(ctx context.Context, id int64, to models.PaymentStatus) (*models.Order, error) {
	switch to {
	case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusPartial:
	default:
		return nil, errs.InvalidInput("unknown payment status %q", to)
	}

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, errs.FromStore(err, "order", idKey(id))
	}
	order.PaymentStatus = to
	if err := s.db.WithContext(ctx).Model(&order).Update("payment_status", to).Error; err != nil {
		return nil, errs.FromStore(err, "order", order.OrderNumber)
	}
	return &order, nil
}

func idKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
