package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/streampulse/streampulse/src/internal/domain"
)

// InMemorySeedStore mirrors the Postgres seed store for tests: each insert
// call is all-or-nothing, and assigned IDs are handed out per table from a
// configurable base so positional bugs don't hide behind 1-based counters.
type InMemorySeedStore struct {
	mu sync.Mutex

	Subscriptions []domain.SubscriptionSeed
	Users         []domain.UserSeed
	Content       []domain.ContentSeed
	WatchHistory  []domain.WatchSeed
	Reviews       []domain.ReviewSeed
	Payments      []domain.PaymentSeed

	// FailTable makes the insert for that table fail before committing rows.
	FailTable string

	nextID map[string]int64
}

// Table name -> first assigned ID. Distinct bases per table so a remapped
// reference can be traced back to the table it came from.
var idBases = map[string]int64{
	"subscriptions":  100,
	"users":          200,
	"content":        300,
	"watchhistory":   400,
	"reviews":        500,
	"paymenthistory": 600,
}

func NewSeedStore() *InMemorySeedStore {
	return &InMemorySeedStore{nextID: make(map[string]int64)}
}

func (s *InMemorySeedStore) assign(table string, n int) ([]int64, error) {
	if s.FailTable == table {
		return nil, errors.New("simulated insert failure: " + table)
	}
	next, ok := s.nextID[table]
	if !ok {
		next = idBases[table]
	}
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, next)
		next++
	}
	s.nextID[table] = next
	return ids, nil
}

func (s *InMemorySeedStore) InsertSubscriptions(ctx context.Context, rows []domain.SubscriptionSeed) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.assign("subscriptions", len(rows))
	if err != nil {
		return nil, err
	}
	s.Subscriptions = append(s.Subscriptions, rows...)
	return ids, nil
}

func (s *InMemorySeedStore) InsertUsers(ctx context.Context, rows []domain.UserSeed) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.assign("users", len(rows))
	if err != nil {
		return nil, err
	}
	s.Users = append(s.Users, rows...)
	return ids, nil
}

func (s *InMemorySeedStore) InsertContent(ctx context.Context, rows []domain.ContentSeed) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.assign("content", len(rows))
	if err != nil {
		return nil, err
	}
	s.Content = append(s.Content, rows...)
	return ids, nil
}

func (s *InMemorySeedStore) InsertWatchHistory(ctx context.Context, rows []domain.WatchSeed) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.assign("watchhistory", len(rows))
	if err != nil {
		return nil, err
	}
	s.WatchHistory = append(s.WatchHistory, rows...)
	return ids, nil
}

func (s *InMemorySeedStore) InsertReviews(ctx context.Context, rows []domain.ReviewSeed) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.assign("reviews", len(rows))
	if err != nil {
		return nil, err
	}
	s.Reviews = append(s.Reviews, rows...)
	return ids, nil
}

func (s *InMemorySeedStore) InsertPayments(ctx context.Context, rows []domain.PaymentSeed) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.assign("paymenthistory", len(rows))
	if err != nil {
		return nil, err
	}
	s.Payments = append(s.Payments, rows...)
	return ids, nil
}
