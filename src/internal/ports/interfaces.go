package ports

import (
	"context"

	"github.com/streampulse/streampulse/src/internal/domain"
)

// AnalyticsRepository exposes the read-only aggregate queries served by the
// API. Every method runs exactly one statement; none of them mutate data.
type AnalyticsRepository interface {
	SubscriptionCounts(ctx context.Context) ([]domain.SubscriptionMetric, error)
	TopContent(ctx context.Context) ([]domain.RatedContent, error)
	RevenueTrend(ctx context.Context, startDate, endDate string) ([]domain.DailyRevenue, error)
	WeeklyRevenue(ctx context.Context) ([]domain.WeeklyRevenue, error)
	WatchCountsByGenre(ctx context.Context) ([]domain.GenreWatchCount, error)
	UserStats(ctx context.Context, userID int64) (*domain.UserStats, error)
	PopularContentTrend(ctx context.Context) ([]domain.MonthlyWatchCount, error)
	PaymentMethodDistribution(ctx context.Context) ([]domain.MethodCount, error)
}

// SeedStore inserts one fixture group at a time and reports the store-assigned
// surrogate IDs in input order. Each call is a single transaction: either every
// row in the group lands or none do.
type SeedStore interface {
	InsertSubscriptions(ctx context.Context, rows []domain.SubscriptionSeed) ([]int64, error)
	InsertUsers(ctx context.Context, rows []domain.UserSeed) ([]int64, error)
	InsertContent(ctx context.Context, rows []domain.ContentSeed) ([]int64, error)
	InsertWatchHistory(ctx context.Context, rows []domain.WatchSeed) ([]int64, error)
	InsertReviews(ctx context.Context, rows []domain.ReviewSeed) ([]int64, error)
	InsertPayments(ctx context.Context, rows []domain.PaymentSeed) ([]int64, error)
}
