// Package stock owns every quantity change on a product. All mutations go
// through a single conditional read-modify-write so the non-negative stock
// invariant holds under concurrent sales and restocks.
package stock

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"meditrack-system/internal/database/models"
	"meditrack-system/internal/services/errs"
)

type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// ApplyDelta adjusts a product's quantity by delta (negative for sale,
// positive for restock) and returns the new quantity. A delta that would
// drive the quantity negative fails with InsufficientStockError and leaves
// the row untouched. delta == 0 is a probe: it succeeds and does not bump
// updated_at.
func (l *Ledger) ApplyDelta(ctx context.Context, productID int64, delta int) (int, error) {
	var quantity int
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		quantity, txErr = l.ApplyDeltaTx(tx, productID, delta)
		return txErr
	})
	return quantity, err
}

// ApplyDeltaTx is ApplyDelta inside a caller-owned transaction. Multi-item
// sales and restock order creation use it so their stock changes commit or
// roll back with the rest of the operation.
func (l *Ledger) ApplyDeltaTx(tx *gorm.DB, productID int64, delta int) (int, error) {
	if delta == 0 {
		var product models.Product
		if err := tx.Select("quantity").First(&product, productID).Error; err != nil {
			return 0, errs.FromStore(err, "product", idKey(productID))
		}
		return product.Quantity, nil
	}

	// The guard rides on the UPDATE itself, so concurrent callers cannot
	// interleave a stale read between check and write.
	res := tx.Model(&models.Product{}).
		Where("id = ? AND quantity + ? >= 0", productID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return 0, errs.FromStore(res.Error, "product", idKey(productID))
	}

	if res.RowsAffected == 0 {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, errs.NotFound("product", idKey(productID))
			}
			return 0, errs.FromStore(err, "product", idKey(productID))
		}
		return 0, &errs.InsufficientStockError{
			SKU:       product.SKU,
			Available: product.Quantity,
			Requested: -delta,
		}
	}

	var product models.Product
	if err := tx.Select("quantity").First(&product, productID).Error; err != nil {
		return 0, errs.FromStore(err, "product", idKey(productID))
	}
	return product.Quantity, nil
}

func idKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
