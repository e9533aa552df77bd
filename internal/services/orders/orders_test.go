package orders

import (
	"context"
	"fmt"
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
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedSupplier(t *testing.T, db *gorm.DB, name string) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{Name: name}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

func seedProduct(t *testing.T, db *gorm.DB, sku string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:    "Product " + sku,
		SKU:     sku,
		Barcode: "BC-" + sku,
		Price:   decimal.NewFromInt(4),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestCreateOrder(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	supplier := seedSupplier(t, db, "PharmaDirect")
	product := seedProduct(t, db, "AMX-500")

	order, err := svc.Create(context.Background(), CreateInput{
		SupplierID: supplier.ID,
		Items: []LineInput{
			{ProductID: product.ID, Quantity: 3, UnitPrice: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("ORD%04d", order.ID), order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(6)))
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].TotalPrice.Equal(decimal.NewFromInt(6)))
}

func TestCreateOrderValidation(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	supplier := seedSupplier(t, db, "PharmaDirect")
	product := seedProduct(t, db, "AMX-500")

	var invalid *errs.InvalidInputError

	_, err := svc.Create(context.Background(), CreateInput{SupplierID: supplier.ID})
	assert.ErrorAs(t, err, &invalid)

	_, err = svc.Create(context.Background(), CreateInput{
		SupplierID: supplier.ID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 0, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.ErrorAs(t, err, &invalid)

	_, err = svc.Create(context.Background(), CreateInput{
		SupplierID: supplier.ID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}},
	})
	assert.ErrorAs(t, err, &invalid)

	var notFound *errs.NotFoundError
	_, err = svc.Create(context.Background(), CreateInput{
		SupplierID: 9999,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.ErrorAs(t, err, &notFound)
}

func TestOrderNumbersAreSequentialAndUnique(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	supplier := seedSupplier(t, db, "PharmaDirect")
	product := seedProduct(t, db, "AMX-500")

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		order, err := svc.Create(context.Background(), CreateInput{
			SupplierID: supplier.ID,
			Items:      []LineInput{{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
		})
		require.NoError(t, err)
		assert.False(t, seen[order.OrderNumber], "duplicate order number %s", order.OrderNumber)
		seen[order.OrderNumber] = true
		assert.Regexp(t, `^ORD\d{4,}$`, order.OrderNumber)
	}
}

func TestUpdateStatusLifecycle(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	supplier := seedSupplier(t, db, "PharmaDirect")
	product := seedProduct(t, db, "AMX-500")

	order, err := svc.Create(context.Background(), CreateInput{
		SupplierID: supplier.ID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	for _, next := range []models.OrderStatus{
		models.OrderStatusApproved, models.OrderStatusShipped, models.OrderStatusDelivered,
	} {
		updated, err := svc.UpdateStatus(context.Background(), order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// delivered is terminal
	var invalid *errs.InvalidInputError
	_, err = svc.Cancel(context.Background(), order.ID)
	assert.ErrorAs(t, err, &invalid)
}

func TestUpdateStatusRejectsSkips(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	supplier := seedSupplier(t, db, "PharmaDirect")
	product := seedProduct(t, db, "AMX-500")

	order, err := svc.Create(context.Background(), CreateInput{
		SupplierID: supplier.ID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	var invalid *errs.InvalidInputError
	_, err = svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusDelivered)
	require.ErrorAs(t, err, &invalid)

	reloaded, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status)
}

func TestCancelPendingOrder(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	supplier := seedSupplier(t, db, "PharmaDirect")
	product := seedProduct(t, db, "AMX-500")

	order, err := svc.Create(context.Background(), CreateInput{
		SupplierID: supplier.ID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	var invalid *errs.InvalidInputError
	_, err = svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusApproved)
	assert.ErrorAs(t, err, &invalid, "cancelled orders cannot resume the lifecycle")
}

func TestListOrdersFilterByStatus(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	supplier := seedSupplier(t, db, "PharmaDirect")
	product := seedProduct(t, db, "AMX-500")

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), CreateInput{
			SupplierID: supplier.ID,
			Items:      []LineInput{{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
		})
		require.NoError(t, err)
	}
	approved, err := svc.Create(context.Background(), CreateInput{
		SupplierID: supplier.ID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), approved.ID, models.OrderStatusApproved)
	require.NoError(t, err)

	status := models.OrderStatusPending
	rows, total, err := svc.List(context.Background(), ListOptions{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 3)

	rows, total, err = svc.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, rows, 4)
}

func TestUpdatePaymentStatus(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	supplier := seedSupplier(t, db, "PharmaDirect")
	product := seedProduct(t, db, "AMX-500")

	order, err := svc.Create(context.Background(), CreateInput{
		SupplierID: supplier.ID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdatePaymentStatus(context.Background(), order.ID, models.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)

	var invalid *errs.InvalidInputError
	_, err = svc.UpdatePaymentStatus(context.Background(), order.ID, models.PaymentStatus("refunded"))
	assert.ErrorAs(t, err, &invalid)
}
