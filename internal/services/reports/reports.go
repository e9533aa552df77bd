// Package reports serves read-only aggregations over the catalog and the
// sales ledger. Results are cached in redis the same way list endpoints are
// cached elsewhere in the system; writers invalidate after committing.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"meditrack-system/internal/database/models"
	"meditrack-system/internal/services/errs"
)

const (
	REPORTS_CACHE_PREFIX    = "reports:"
	TOP_SELLERS_CACHE_KEY   = "reports:top-sellers"
	SALES_CHART_CACHE_KEY   = "reports:sales-chart"
	DASHBOARD_CACHE_KEY     = "reports:dashboard"
	REPORTS_CACHE_TTL_SHORT = 5 * time.Minute
)

const (
	DefaultTopSellerLimit = 5
	DefaultChartDays      = 7
)

type Thresholds struct {
	// Dashboard thresholds; deliberately not the per-product reorder level
	// the alert evaluator uses.
	LowStockCount    int
	ExpiryWindowDays int
}

type Service struct {
	db         *gorm.DB
	redis      *redis.Client
	thresholds Thresholds
}

func NewService(db *gorm.DB, redisClient *redis.Client, thresholds Thresholds) *Service {
	if thresholds.LowStockCount <= 0 {
		thresholds.LowStockCount = 10
	}
	if thresholds.ExpiryWindowDays <= 0 {
		thresholds.ExpiryWindowDays = 30
	}
	return &Service{db: db, redis: redisClient, thresholds: thresholds}
}

// InvalidateCaches drops the report caches. Writers (sales, restock,
// catalog mutations) call this after a successful commit.
func (s *Service) InvalidateCaches(ctx context.Context) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx,
		TOP_SELLERS_CACHE_KEY,
		fmt.Sprintf("%s:%d", TOP_SELLERS_CACHE_KEY, DefaultTopSellerLimit),
		SALES_CHART_CACHE_KEY,
		fmt.Sprintf("%s:%d", SALES_CHART_CACHE_KEY, DefaultChartDays),
		DASHBOARD_CACHE_KEY,
	)
}

type TopSeller struct {
	Product   models.Product `json:"product"`
	SoldUnits int            `json:"soldUnits"`
}

// TopSellingProducts sums units sold per product, descending, with product
// id ascending as a deterministic tie-break.
func (s *Service) TopSellingProducts(ctx context.Context, limit int) ([]TopSeller, error) {
	if limit <= 0 {
		limit = DefaultTopSellerLimit
	}

	cacheKey := fmt.Sprintf("%s:%d", TOP_SELLERS_CACHE_KEY, limit)
	var cached []TopSeller
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	type row struct {
		ProductID int64
		Total     int
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&models.SalesData{}).
		Select("product_id, SUM(quantity_sold) AS total").
		Group("product_id").
		Order("total DESC, product_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, errs.FromStore(err, "sales data", "")
	}

	result := make([]TopSeller, 0, len(rows))
	for _, r := range rows {
		var product models.Product
		if err := s.db.WithContext(ctx).First(&product, r.ProductID).Error; err != nil {
			return nil, errs.FromStore(err, "product", fmt.Sprint(r.ProductID))
		}
		result = append(result, TopSeller{Product: product, SoldUnits: r.Total})
	}

	s.cacheSet(ctx, cacheKey, result)
	return result, nil
}

type ChartPoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Units   int             `json:"units"`
}

// SalesChart returns one point per day over the trailing window, oldest
// first. Days without sales are zero-filled so the series is continuous.
func (s *Service) SalesChart(ctx context.Context, windowDays int) ([]ChartPoint, error) {
	if windowDays <= 0 {
		windowDays = DefaultChartDays
	}

	cacheKey := fmt.Sprintf("%s:%d", SALES_CHART_CACHE_KEY, windowDays)
	var cached []ChartPoint
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	todayDate := today()
	start := todayDate.AddDate(0, 0, -windowDays)

	type row struct {
		Date    time.Time
		Revenue decimal.Decimal
		Units   int
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&models.SalesData{}).
		Select("date, SUM(revenue) AS revenue, SUM(quantity_sold) AS units").
		Where("date >= ? AND date <= ?", start, todayDate).
		Group("date").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, errs.FromStore(err, "sales data", "")
	}

	byDay := make(map[string]row, len(rows))
	for _, r := range rows {
		byDay[r.Date.Format("2006-01-02")] = r
	}

	points := make([]ChartPoint, 0, windowDays+1)
	for day := start; !day.After(todayDate); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		point := ChartPoint{Date: key, Revenue: decimal.Zero}
		if r, ok := byDay[key]; ok {
			point.Revenue = r.Revenue
			point.Units = r.Units
		}
		points = append(points, point)
	}

	s.cacheSet(ctx, cacheKey, points)
	return points, nil
}

type DashboardStats struct {
	TotalProducts int64 `json:"totalProducts"`
	LowStockItems int64 `json:"lowStockItems"`
	ExpiringItems int64 `json:"expiringItems"`
	PendingOrders int64 `json:"pendingOrders"`
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var cached DashboardStats
	if s.cacheGet(ctx, DASHBOARD_CACHE_KEY, &cached) {
		return &cached, nil
	}

	var stats DashboardStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, errs.FromStore(err, "product", "")
	}
	if err := db.Model(&models.Product{}).
		Where("quantity < ?", s.thresholds.LowStockCount).
		Count(&stats.LowStockItems).Error; err != nil {
		return nil, errs.FromStore(err, "product", "")
	}
	cutoff := today().AddDate(0, 0, s.thresholds.ExpiryWindowDays)
	if err := db.Model(&models.Product{}).
		Where("expiry_date <= ?", cutoff).
		Count(&stats.ExpiringItems).Error; err != nil {
		return nil, errs.FromStore(err, "product", "")
	}
	if err := db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, errs.FromStore(err, "order", "")
	}

	s.cacheSet(ctx, DASHBOARD_CACHE_KEY, &stats)
	return &stats, nil
}

func (s *Service) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if s.redis == nil {
		return false
	}
	data, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(data), out) == nil
}

func (s *Service) cacheSet(ctx context.Context, key string, val interface{}) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = s.redis.Set(ctx, key, data, REPORTS_CACHE_TTL_SHORT)
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
