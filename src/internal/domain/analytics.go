package domain

import "time"

// Row types returned by the aggregate queries. JSON tags match the API
// contract consumed by the dashboard.

type SubscriptionMetric struct {
	Subscription string `json:"subscription"`
	UserCount    int64  `json:"user_count"`
}

type RatedContent struct {
	Title  string  `json:"title"`
	Genre  string  `json:"genre"`
	Rating float64 `json:"rating"`
}

type DailyRevenue struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Revenue float64 `json:"revenue"`
}

type WeeklyRevenue struct {
	Week         time.Time `json:"week"`
	TotalRevenue float64   `json:"total_revenue"`
}

type GenreWatchCount struct {
	Genre      string `json:"genre"`
	WatchCount int64  `json:"watch_count"`
}

type WatchEvent struct {
	Title     string    `json:"title"`
	Progress  float64   `json:"progress"`
	WatchedOn time.Time `json:"watched_on"`
}

type PaymentEvent struct {
	Amount      float64   `json:"amount"`
	Method      string    `json:"method"`
	PaymentDate time.Time `json:"payment_date"`
}

type UserStats struct {
	UserID         int64          `json:"user_id"`
	WatchHistory   []WatchEvent   `json:"watch_history"`
	PaymentHistory []PaymentEvent `json:"payment_history"`
}

type MonthlyWatchCount struct {
	Month      time.Time `json:"month"`
	Title      string    `json:"title"`
	WatchCount int64     `json:"watch_count"`
}

type MethodCount struct {
	Method string `json:"method"`
	Count  int64  `json:"count"`
}
