package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"meditrack-system/internal/database"
	"meditrack-system/internal/database/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	return NewService(db, nil, Thresholds{LowStockCount: 10, ExpiryWindowDays: 30}), db
}

func seedProduct(t *testing.T, db *gorm.DB, sku string, quantity, expiryInDays int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:       "Product " + sku,
		SKU:        sku,
		Barcode:    "BC-" + sku,
		Price:      decimal.NewFromInt(2),
		Quantity:   quantity,
		ExpiryDate: today().AddDate(0, 0, expiryInDays),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedSale(t *testing.T, db *gorm.DB, productID int64, units int, revenue int64, daysAgo int) {
	t.Helper()
	entry := &models.SalesData{
		ProductID:    productID,
		QuantitySold: units,
		Revenue:      decimal.NewFromInt(revenue),
		Date:         today().AddDate(0, 0, -daysAgo),
	}
	require.NoError(t, db.Create(entry).Error)
}

func TestTopSellingProductsOrdersByUnits(t *testing.T) {
	svc, db := newService(t)
	first := seedProduct(t, db, "P1", 100, 400)
	second := seedProduct(t, db, "P2", 100, 400)
	third := seedProduct(t, db, "P3", 100, 400)

	seedSale(t, db, first.ID, 5, 10, 0)
	seedSale(t, db, first.ID, 5, 10, 1)
	seedSale(t, db, second.ID, 4, 8, 0)
	seedSale(t, db, third.ID, 12, 24, 2)

	top, err := svc.TopSellingProducts(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, third.ID, top[0].Product.ID)
	assert.Equal(t, 12, top[0].SoldUnits)
	assert.Equal(t, first.ID, top[1].Product.ID)
	assert.Equal(t, 10, top[1].SoldUnits)
}

func TestTopSellingProductsTieBreaksByID(t *testing.T) {
	svc, db := newService(t)
	first := seedProduct(t, db, "P1", 100, 400)
	second := seedProduct(t, db, "P2", 100, 400)

	seedSale(t, db, second.ID, 7, 14, 0)
	seedSale(t, db, first.ID, 7, 14, 0)

	top, err := svc.TopSellingProducts(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, first.ID, top[0].Product.ID, "equal units resolve by ascending product id")
	assert.Equal(t, second.ID, top[1].Product.ID)
}

func TestSalesChartZeroFillsQuietDays(t *testing.T) {
	svc, db := newService(t)
	product := seedProduct(t, db, "P1", 100, 400)

	seedSale(t, db, product.ID, 3, 6, 0)
	seedSale(t, db, product.ID, 2, 4, 3)

	points, err := svc.SalesChart(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, points, 8, "trailing window includes today")

	for i := 1; i < len(points); i++ {
		prev, err := time.Parse("2006-01-02", points[i-1].Date)
		require.NoError(t, err)
		cur, err := time.Parse("2006-01-02", points[i].Date)
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, cur.Sub(prev), "series must be continuous")
	}

	last := points[len(points)-1]
	assert.Equal(t, 3, last.Units)
	assert.True(t, last.Revenue.Equal(decimal.NewFromInt(6)))

	fourthFromEnd := points[len(points)-4]
	assert.Equal(t, 2, fourthFromEnd.Units)

	var quiet int
	for _, p := range points {
		if p.Units == 0 {
			assert.True(t, p.Revenue.Equal(decimal.Zero))
			quiet++
		}
	}
	assert.Equal(t, 6, quiet)
}

func TestDashboardCounts(t *testing.T) {
	svc, db := newService(t)

	seedProduct(t, db, "LOW", 5, 400)
	seedProduct(t, db, "EXP", 50, 10)
	seedProduct(t, db, "FINE", 50, 400)

	supplier := &models.Supplier{Name: "PharmaDirect"}
	require.NoError(t, db.Create(supplier).Error)
	require.NoError(t, db.Create(&models.Order{
		OrderNumber: "ORD0001",
		SupplierID:  supplier.ID,
		Status:      models.OrderStatusPending,
		TotalAmount: decimal.NewFromInt(1),
	}).Error)
	require.NoError(t, db.Create(&models.Order{
		OrderNumber: "ORD0002",
		SupplierID:  supplier.ID,
		Status:      models.OrderStatusDelivered,
		TotalAmount: decimal.NewFromInt(1),
	}).Error)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.LowStockItems)
	assert.Equal(t, int64(1), stats.ExpiringItems)
	assert.Equal(t, int64(1), stats.PendingOrders)
}

func TestDashboardThresholdIsStrictlyBelow(t *testing.T) {
	svc, db := newService(t)
	seedProduct(t, db, "AT", 10, 400)
	seedProduct(t, db, "BELOW", 9, 400)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.LowStockItems, "quantity equal to the threshold does not count")
}

func TestReportsWorkWithoutRedis(t *testing.T) {
	svc, db := newService(t)
	product := seedProduct(t, db, "P1", 100, 400)
	seedSale(t, db, product.ID, 1, 2, 0)

	// nil redis client disables caching, not the reports
	_, err := svc.TopSellingProducts(context.Background(), 0)
	require.NoError(t, err)
	_, err = svc.SalesChart(context.Background(), 0)
	require.NoError(t, err)
	_, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	svc.InvalidateCaches(context.Background())
}
