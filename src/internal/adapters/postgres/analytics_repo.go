package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/streampulse/streampulse/src/internal/domain"
)

type PostgresAnalyticsRepo struct {
	db *sql.DB
}

func NewAnalyticsRepo(db *sql.DB) *PostgresAnalyticsRepo {
	return &PostgresAnalyticsRepo{db: db}
}

func (r *PostgresAnalyticsRepo) SubscriptionCounts(ctx context.Context) ([]domain.SubscriptionMetric, error) {
	query := `
		SELECT s.name, COUNT(*) AS user_count
		FROM users u
		JOIN subscriptions s ON u.subscription_id = s.subscription_id
		GROUP BY s.name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metrics := []domain.SubscriptionMetric{}
	for rows.Next() {
		var m domain.SubscriptionMetric
		if err := rows.Scan(&m.Subscription, &m.UserCount); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

func (r *PostgresAnalyticsRepo) TopContent(ctx context.Context) ([]domain.RatedContent, error) {
	query := `
		SELECT title, genre, rating
		FROM content
		ORDER BY rating DESC
		LIMIT 10
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.RatedContent{}
	for rows.Next() {
		var c domain.RatedContent
		if err := rows.Scan(&c.Title, &c.Genre, &c.Rating); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *PostgresAnalyticsRepo) RevenueTrend(ctx context.Context, startDate, endDate string) ([]domain.DailyRevenue, error) {
	query := `
		SELECT DATE(p.payment_date) AS date, SUM(p.amount) AS revenue
		FROM paymenthistory p
		WHERE DATE(p.payment_date) BETWEEN $1 AND $2
		GROUP BY DATE(p.payment_date)
		ORDER BY DATE(p.payment_date)
	`
	rows, err := r.db.QueryContext(ctx, query, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trend := []domain.DailyRevenue{}
	for rows.Next() {
		var day time.Time
		var rev domain.DailyRevenue
		if err := rows.Scan(&day, &rev.Revenue); err != nil {
			return nil, err
		}
		rev.Date = day.Format("2006-01-02")
		trend = append(trend, rev)
	}
	return trend, rows.Err()
}

func (r *PostgresAnalyticsRepo) WeeklyRevenue(ctx context.Context) ([]domain.WeeklyRevenue, error) {
	query := `
		SELECT DATE_TRUNC('week', payment_date) AS week, SUM(amount) AS total_revenue
		FROM paymenthistory
		GROUP BY DATE_TRUNC('week', payment_date)
		ORDER BY week
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trend := []domain.WeeklyRevenue{}
	for rows.Next() {
		var w domain.WeeklyRevenue
		if err := rows.Scan(&w.Week, &w.TotalRevenue); err != nil {
			return nil, err
		}
		trend = append(trend, w)
	}
	return trend, rows.Err()
}

func (r *PostgresAnalyticsRepo) WatchCountsByGenre(ctx context.Context) ([]domain.GenreWatchCount, error) {
	query := `
		SELECT c.genre, COUNT(*) AS watch_count
		FROM watchhistory w
		JOIN content c ON w.content_id = c.content_id
		GROUP BY c.genre
		ORDER BY watch_count DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []domain.GenreWatchCount{}
	for rows.Next() {
		var g domain.GenreWatchCount
		if err := rows.Scan(&g.Genre, &g.WatchCount); err != nil {
			return nil, err
		}
		counts = append(counts, g)
	}
	return counts, rows.Err()
}

func (r *PostgresAnalyticsRepo) UserStats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	stats := &domain.UserStats{
		UserID:         userID,
		WatchHistory:   []domain.WatchEvent{},
		PaymentHistory: []domain.PaymentEvent{},
	}

	watchQuery := `
		SELECT c.title, w.progress, w.watched_on
		FROM watchhistory w
		JOIN content c ON w.content_id = c.content_id
		WHERE w.user_id = $1
		ORDER BY w.watched_on DESC
	`
	rows, err := r.db.QueryContext(ctx, watchQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e domain.WatchEvent
		if err := rows.Scan(&e.Title, &e.Progress, &e.WatchedOn); err != nil {
			return nil, err
		}
		stats.WatchHistory = append(stats.WatchHistory, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	paymentQuery := `
		SELECT amount, method, payment_date
		FROM paymenthistory
		WHERE user_id = $1
		ORDER BY payment_date DESC
	`
	rows, err = r.db.QueryContext(ctx, paymentQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e domain.PaymentEvent
		if err := rows.Scan(&e.Amount, &e.Method, &e.PaymentDate); err != nil {
			return nil, err
		}
		stats.PaymentHistory = append(stats.PaymentHistory, e)
	}
	return stats, rows.Err()
}

func (r *PostgresAnalyticsRepo) PopularContentTrend(ctx context.Context) ([]domain.MonthlyWatchCount, error) {
	query := `
		SELECT DATE_TRUNC('month', w.watched_on) AS month, c.title, COUNT(*) AS watch_count
		FROM watchhistory w
		JOIN content c ON w.content_id = c.content_id
		GROUP BY DATE_TRUNC('month', w.watched_on), c.title
		ORDER BY month, watch_count DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trend := []domain.MonthlyWatchCount{}
	for rows.Next() {
		var m domain.MonthlyWatchCount
		if err := rows.Scan(&m.Month, &m.Title, &m.WatchCount); err != nil {
			return nil, err
		}
		trend = append(trend, m)
	}
	return trend, rows.Err()
}

func (r *PostgresAnalyticsRepo) PaymentMethodDistribution(ctx context.Context) ([]domain.MethodCount, error) {
	query := `
		SELECT method, COUNT(*) AS count
		FROM paymenthistory
		GROUP BY method
		ORDER BY count DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dist := []domain.MethodCount{}
	for rows.Next() {
		var m domain.MethodCount
		if err := rows.Scan(&m.Method, &m.Count); err != nil {
			return nil, err
		}
		dist = append(dist, m)
	}
	return dist, rows.Err()
}
