// Package alerts derives low-stock and expiring-soon alerts from the current
// product snapshot. Nothing is persisted; every call reflects live state.
package alerts

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"meditrack-system/internal/database/models"
	"meditrack-system/internal/services/errs"
)

const DefaultExpiryWindowDays = 90

type Alert struct {
	Product        models.Product `json:"product"`
	IsLowStock     bool           `json:"isLowStock"`
	IsExpiringSoon bool           `json:"isExpiringSoon"`
	// DaysToExpiry is negative for already-expired products; callers use the
	// sign to tell expired from expiring.
	DaysToExpiry int `json:"daysToExpiry"`
}

type Options struct {
	LowStockOnly     bool
	ExpiryWindowDays int
}

type Evaluator struct {
	db *gorm.DB
}

func NewEvaluator(db *gorm.DB) *Evaluator {
	return &Evaluator{db: db}
}

// Evaluate returns one alert per product that is low on stock (quantity at
// or below its reorder level), close to expiry within the window, or both.
func (e *Evaluator) Evaluate(ctx context.Context, opts Options) ([]Alert, error) {
	window := opts.ExpiryWindowDays
	if window <= 0 {
		window = DefaultExpiryWindowDays
	}
	now := time.Now().UTC()
	todayDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	cutoff := todayDate.AddDate(0, 0, window)

	query := e.db.WithContext(ctx).Model(&models.Product{})
	if opts.LowStockOnly {
		query = query.Where("quantity <= reorder_level")
	} else {
		query = query.Where("quantity <= reorder_level OR expiry_date <= ?", cutoff)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, errs.FromStore(err, "product", "")
	}

	result := make([]Alert, 0, len(products))
	for _, product := range products {
		alert := Alert{
			Product:        product,
			IsLowStock:     product.Quantity <= product.ReorderLevel,
			IsExpiringSoon: !product.ExpiryDate.After(cutoff),
			DaysToExpiry:   int(product.ExpiryDate.Sub(todayDate).Hours() / 24),
		}
		result = append(result, alert)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Product.ID < result[j].Product.ID
	})
	return result, nil
}
