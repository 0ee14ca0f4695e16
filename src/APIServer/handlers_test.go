package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streampulse/streampulse/src/internal/domain"
)

// stubRepo returns canned rows, records query parameters, and fails every
// method when err is set.
type stubRepo struct {
	err error

	subscriptions []domain.SubscriptionMetric
	topContent    []domain.RatedContent
	revenue       []domain.DailyRevenue
	weekly        []domain.WeeklyRevenue
	genres        []domain.GenreWatchCount
	userStats     *domain.UserStats
	popular       []domain.MonthlyWatchCount
	methods       []domain.MethodCount

	gotStart, gotEnd string
	gotUserID        int64
}

func (s *stubRepo) SubscriptionCounts(ctx context.Context) ([]domain.SubscriptionMetric, error) {
	return s.subscriptions, s.err
}

func (s *stubRepo) TopContent(ctx context.Context) ([]domain.RatedContent, error) {
	return s.topContent, s.err
}

func (s *stubRepo) RevenueTrend(ctx context.Context, startDate, endDate string) ([]domain.DailyRevenue, error) {
	s.gotStart, s.gotEnd = startDate, endDate
	return s.revenue, s.err
}

func (s *stubRepo) WeeklyRevenue(ctx context.Context) ([]domain.WeeklyRevenue, error) {
	return s.weekly, s.err
}

func (s *stubRepo) WatchCountsByGenre(ctx context.Context) ([]domain.GenreWatchCount, error) {
	return s.genres, s.err
}

func (s *stubRepo) UserStats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	s.gotUserID = userID
	return s.userStats, s.err
}

func (s *stubRepo) PopularContentTrend(ctx context.Context) ([]domain.MonthlyWatchCount, error) {
	return s.popular, s.err
}

func (s *stubRepo) PaymentMethodDistribution(ctx context.Context) ([]domain.MethodCount, error) {
	return s.methods, s.err
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

func doRequest(t *testing.T, repo *stubRepo, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(repo, stubPinger{}, zerolog.Nop())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSubscriptionsEndpoint(t *testing.T) {
	repo := &stubRepo{subscriptions: []domain.SubscriptionMetric{
		{Subscription: "Premium", UserCount: 12},
		{Subscription: "Basic", UserCount: 7},
	}}
	rec := doRequest(t, repo, "/api/subscriptions")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Premium", got[0]["subscription"])
	assert.Equal(t, float64(12), got[0]["user_count"])
}

func TestTopContentEndpoint(t *testing.T) {
	repo := &stubRepo{topContent: []domain.RatedContent{
		{Title: "Deep Water", Genre: "Drama", Rating: 9.1},
		{Title: "Night Shift", Genre: "Thriller", Rating: 8.2},
	}}
	rec := doRequest(t, repo, "/api/top-content")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.RatedContent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i].Rating, got[i-1].Rating)
	}
}

func TestRevenueTrendsDefaultRange(t *testing.T) {
	repo := &stubRepo{revenue: []domain.DailyRevenue{}}
	rec := doRequest(t, repo, "/api/revenue-trends")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-09-01", repo.gotStart)
	assert.Equal(t, "2024-09-30", repo.gotEnd)
}

func TestRevenueTrendsExplicitRange(t *testing.T) {
	repo := &stubRepo{revenue: []domain.DailyRevenue{{Date: "2024-10-02", Revenue: 42.5}}}
	rec := doRequest(t, repo, "/api/revenue-trends?start_date=2024-10-01&end_date=2024-10-31")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-10-01", repo.gotStart)
	assert.Equal(t, "2024-10-31", repo.gotEnd)

	var got []domain.DailyRevenue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 42.5, got[0].Revenue)
}

func TestRevenueTrendsRejectsBadDate(t *testing.T) {
	repo := &stubRepo{}
	rec := doRequest(t, repo, "/api/revenue-trends?start_date=yesterday")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestEmptyResultIsJSONArray(t *testing.T) {
	repo := &stubRepo{genres: []domain.GenreWatchCount{}}
	rec := doRequest(t, repo, "/api/watch-history-genre")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestUserStatsEndpoint(t *testing.T) {
	repo := &stubRepo{userStats: &domain.UserStats{
		UserID: 42,
		WatchHistory: []domain.WatchEvent{
			{Title: "Deep Water", Progress: 0.8, WatchedOn: time.Date(2024, 9, 10, 20, 0, 0, 0, time.UTC)},
		},
		PaymentHistory: []domain.PaymentEvent{},
	}}
	rec := doRequest(t, repo, "/api/user-stats/42")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), repo.gotUserID)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, float64(42), got["user_id"])
	assert.Len(t, got["watch_history"], 1)
	assert.Empty(t, got["payment_history"])
	assert.NotNil(t, got["payment_history"])
}

func TestUserStatsRejectsNonIntegerID(t *testing.T) {
	rec := doRequest(t, &stubRepo{}, "/api/user-stats/abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryFailureReturns500WithErrorBody(t *testing.T) {
	repo := &stubRepo{err: errors.New("connection refused")}
	rec := doRequest(t, repo, "/api/payment-method-distribution")

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "connection refused", got["error"])
}

func TestHealthz(t *testing.T) {
	router := NewRouter(&stubRepo{}, stubPinger{}, zerolog.Nop())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	router = NewRouter(&stubRepo{}, stubPinger{err: errors.New("down")}, zerolog.Nop())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAllAggregateEndpointsRespond(t *testing.T) {
	repo := &stubRepo{
		subscriptions: []domain.SubscriptionMetric{},
		topContent:    []domain.RatedContent{},
		revenue:       []domain.DailyRevenue{},
		weekly:        []domain.WeeklyRevenue{},
		genres:        []domain.GenreWatchCount{},
		userStats:     &domain.UserStats{UserID: 1, WatchHistory: []domain.WatchEvent{}, PaymentHistory: []domain.PaymentEvent{}},
		popular:       []domain.MonthlyWatchCount{},
		methods:       []domain.MethodCount{},
	}
	paths := []string{
		"/api/subscriptions",
		"/api/top-content",
		"/api/revenue-trends",
		"/api/payments-trend",
		"/api/watch-history-genre",
		"/api/user-stats/1",
		"/api/popular-content-trend",
		"/api/payment-method-distribution",
	}
	for _, path := range paths {
		rec := doRequest(t, repo, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
