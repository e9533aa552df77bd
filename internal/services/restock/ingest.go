// Package restock handles inbound stock, typically fired by the RFID reader
// at goods-in scanning a product tag.
package restock

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"meditrack-system/internal/database/models"
	"meditrack-system/internal/services/errs"
	"meditrack-system/internal/services/orders"
	"meditrack-system/internal/services/stock"
)

type Result struct {
	Product     models.Product `json:"product"`
	NewQuantity int            `json:"newQuantity"`
	Order       *models.Order  `json:"order,omitempty"`
}

type Ingestor struct {
	db     *gorm.DB
	ledger *stock.Ledger
}

func NewIngestor(db *gorm.DB, ledger *stock.Ledger) *Ingestor {
	return &Ingestor{db: db, ledger: ledger}
}

// IngestRestock resolves the tag to a product by SKU and increments its
// stock. When a supplier is given, an approved and paid order (cost price x
// quantity) with a single item is written in the same transaction, so the
// audit trail and the stock change always agree.
func (g *Ingestor) IngestRestock(ctx context.Context, tag string, quantity int, supplierID *int64) (*Result, error) {
	if tag == "" {
		return nil, errs.InvalidInput("tag required")
	}
	if quantity <= 0 {
		return nil, errs.InvalidInput("quantity must be greater than 0")
	}

	var result Result
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("sku = ?", tag).First(&product).Error; err != nil {
			return errs.FromStore(err, "product", tag)
		}

		newQty, err := g.ledger.ApplyDeltaTx(tx, product.ID, quantity)
		if err != nil {
			return err
		}
		product.Quantity = newQty
		result.Product = product
		result.NewQuantity = newQty

		if supplierID == nil {
			return nil
		}

		var count int64
		supplierKey := strconv.FormatInt(*supplierID, 10)
		if err := tx.Model(&models.Supplier{}).Where("id = ?", *supplierID).Count(&count).Error; err != nil {
			return errs.FromStore(err, "supplier", supplierKey)
		}
		if count == 0 {
			return errs.NotFound("supplier", supplierKey)
		}

		order, err := orders.CreateTx(tx, *supplierID,
			models.OrderStatusApproved, models.PaymentStatusPaid,
			[]orders.LineInput{{
				ProductID: product.ID,
				Quantity:  quantity,
				UnitPrice: product.CostPrice,
			}})
		if err != nil {
			return err
		}
		result.Order = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
