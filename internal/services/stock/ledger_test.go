package stock

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"meditrack-system/internal/database"
	"meditrack-system/internal/database/models"
	"meditrack-system/internal/services/errs"
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
	// single connection keeps the in-memory database alive and serializes
	// the concurrent writers in the tests below
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, sku string, quantity int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     "Product " + sku,
		SKU:      sku,
		Barcode:  "BC-" + sku,
		Price:    decimal.NewFromInt(5),
		Quantity: quantity,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestApplyDeltaIncrementsAndDecrements(t *testing.T) {
	db := testDB(t)
	ledger := NewLedger(db)
	product := seedProduct(t, db, "AMX-500", 10)

	qty, err := ledger.ApplyDelta(context.Background(), product.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, qty)

	qty, err = ledger.ApplyDelta(context.Background(), product.ID, -12)
	require.NoError(t, err)
	assert.Equal(t, 3, qty)
}

func TestApplyDeltaRejectsOverdraw(t *testing.T) {
	db := testDB(t)
	ledger := NewLedger(db)
	product := seedProduct(t, db, "IBU-200", 6)

	_, err := ledger.ApplyDelta(context.Background(), product.ID, -10)
	var insufficient *errs.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "IBU-200", insufficient.SKU)
	assert.Equal(t, 6, insufficient.Available)
	assert.Equal(t, 10, insufficient.Requested)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 6, reloaded.Quantity, "failed delta must leave the row untouched")
}

func TestApplyDeltaDrainToZero(t *testing.T) {
	db := testDB(t)
	ledger := NewLedger(db)
	product := seedProduct(t, db, "PCM-650", 4)

	qty, err := ledger.ApplyDelta(context.Background(), product.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
}

func TestApplyDeltaZeroIsAProbe(t *testing.T) {
	db := testDB(t)
	ledger := NewLedger(db)
	product := seedProduct(t, db, "CET-10", 7)

	qty, err := ledger.ApplyDelta(context.Background(), product.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, qty)
}

func TestApplyDeltaUnknownProduct(t *testing.T) {
	db := testDB(t)
	ledger := NewLedger(db)

	_, err := ledger.ApplyDelta(context.Background(), 9999, -1)
	var notFound *errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "product", notFound.Resource)
}

func TestApplyDeltaConcurrentDecrements(t *testing.T) {
	db := testDB(t)
	ledger := NewLedger(db)
	const stock = 20
	product := seedProduct(t, db, "VITC-1G", stock)

	errsCh := make(chan error, stock)
	for i := 0; i < stock; i++ {
		go func() {
			_, err := ledger.ApplyDelta(context.Background(), product.ID, -1)
			errsCh <- err
		}()
	}
	for i := 0; i < stock; i++ {
		require.NoError(t, <-errsCh)
	}

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 0, reloaded.Quantity)
}

func TestApplyDeltaConcurrentOverdrawFailsExactlyOnce(t *testing.T) {
	db := testDB(t)
	ledger := NewLedger(db)
	const stock = 8
	product := seedProduct(t, db, "ZNC-50", stock)

	errsCh := make(chan error, stock+1)
	for i := 0; i < stock+1; i++ {
		go func() {
			_, err := ledger.ApplyDelta(context.Background(), product.ID, -1)
			errsCh <- err
		}()
	}

	var failures int
	for i := 0; i < stock+1; i++ {
		if err := <-errsCh; err != nil {
			var insufficient *errs.InsufficientStockError
			require.ErrorAs(t, err, &insufficient)
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 0, reloaded.Quantity)
}
