// Package sales commits sales against the catalog: validate every line,
// decrement stock through the ledger, and append one SalesData row per line.
// The whole call runs in one transaction so a multi-item sale is
// all-or-nothing from any reader's point of view.
package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"meditrack-system/internal/database/models"
	"meditrack-system/internal/services/errs"
	"meditrack-system/internal/services/stock"
)

type SaleItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type ReceiptLine struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type Receipt struct {
	Lines        []ReceiptLine   `json:"lines"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	Date         time.Time       `json:"date"`
}

type Recorder struct {
	db     *gorm.DB
	ledger *stock.Ledger
}

func NewRecorder(db *gorm.DB, ledger *stock.Ledger) *Recorder {
	return &Recorder{db: db, ledger: ledger}
}

// RecordSale resolves every SKU and checks availability before any write,
// then decrements stock and appends ledger rows. The validation pass alone
// cannot stop a concurrent sale from draining stock between passes, so the
// commit pass re-asserts availability through the ledger's conditional
// decrement; if any line fails, the transaction rolls back and no stock or
// SalesData change survives.
func (r *Recorder) RecordSale(ctx context.Context, items []SaleItem) (*Receipt, error) {
	if len(items) == 0 {
		return nil, errs.InvalidInput("sale must have at least one item")
	}
	for _, item := range items {
		if item.SKU == "" {
			return nil, errs.InvalidInput("item sku required")
		}
		if item.Quantity <= 0 {
			return nil, errs.InvalidInput("quantity for %q must be greater than 0", item.SKU)
		}
	}

	saleDate := today()
	receipt := &Receipt{Date: saleDate, TotalRevenue: decimal.Zero}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := make([]models.Product, 0, len(items))
		for _, item := range items {
			var product models.Product
			if err := tx.Where("sku = ?", item.SKU).First(&product).Error; err != nil {
				return errs.FromStore(err, "product", item.SKU)
			}
			if product.Quantity < item.Quantity {
				return &errs.InsufficientStockError{
					SKU:       item.SKU,
					Available: product.Quantity,
					Requested: item.Quantity,
				}
			}
			products = append(products, product)
		}

		for i, item := range items {
			product := products[i]
			if _, err := r.ledger.ApplyDeltaTx(tx, product.ID, -item.Quantity); err != nil {
				return err
			}

			revenue := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			entry := models.SalesData{
				ProductID:    product.ID,
				QuantitySold: item.Quantity,
				Revenue:      revenue,
				Date:         saleDate,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return errs.FromStore(err, "sales entry", item.SKU)
			}

			receipt.Lines = append(receipt.Lines, ReceiptLine{
				SKU:       product.SKU,
				Name:      product.Name,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
				Revenue:   revenue,
			})
			receipt.TotalRevenue = receipt.TotalRevenue.Add(revenue)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
