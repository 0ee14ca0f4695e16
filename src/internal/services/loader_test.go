package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streampulse/streampulse/src/internal/adapters/memory"
	"github.com/streampulse/streampulse/src/internal/domain"
)

func testFixture() *domain.Fixture {
	return &domain.Fixture{
		Subscriptions: []domain.SubscriptionSeed{{Name: "Basic"}, {Name: "Premium"}},
		Users: []domain.UserSeed{
			{Name: "Ana"}, {Name: "Ben"}, {Name: "Cleo"}, {Name: "Dev"},
		},
		Content: []domain.ContentSeed{
			{Title: "Deep Water", Genre: "Drama", Rating: 8.1},
			{Title: "Night Shift", Genre: "Thriller", Rating: 7.4},
			{Title: "Laugh Track", Genre: "Comedy", Rating: 6.9},
		},
		WatchHistory: []domain.WatchSeed{
			{UserID: 2, ContentID: 1, WatchedOn: time.Date(2024, 9, 10, 20, 0, 0, 0, time.UTC), Progress: 0.8},
		},
		Reviews: []domain.ReviewSeed{
			{UserID: 1, ContentID: 3, Rating: 4, ReviewText: "good"},
		},
		Payments: []domain.PaymentSeed{
			{UserID: 4, Amount: 9.99, Method: "card", PaymentDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func newTestLoader(store *memory.InMemorySeedStore) *BulkLoader {
	return NewBulkLoader(store, zerolog.Nop())
}

func TestLoadRemapsPlaceholders(t *testing.T) {
	store := memory.NewSeedStore()
	loader := newTestLoader(store)

	err := loader.Load(context.Background(), testFixture())
	require.NoError(t, err)

	// Memory store assigns users 200.. and content 300.., so the watch row
	// referencing user placeholder 2 / content placeholder 1 must resolve to
	// the 2nd user ID and the 1st content ID.
	require.Len(t, store.WatchHistory, 1)
	assert.Equal(t, int64(201), store.WatchHistory[0].UserID)
	assert.Equal(t, int64(300), store.WatchHistory[0].ContentID)

	require.Len(t, store.Reviews, 1)
	assert.Equal(t, int64(200), store.Reviews[0].UserID)
	assert.Equal(t, int64(302), store.Reviews[0].ContentID)

	require.Len(t, store.Payments, 1)
	assert.Equal(t, int64(203), store.Payments[0].UserID)
}

func TestLoadFansUsersOverSubscriptions(t *testing.T) {
	store := memory.NewSeedStore()
	loader := newTestLoader(store)

	err := loader.Load(context.Background(), testFixture())
	require.NoError(t, err)

	// 2 subscriptions (IDs 100, 101), 4 users: i mod 2 alternates.
	require.Len(t, store.Users, 4)
	want := []int64{100, 101, 100, 101}
	for i, u := range store.Users {
		assert.Equal(t, want[i], u.SubscriptionID, "user %d", i)
	}
}

func TestLoadFanOutIsDeterministic(t *testing.T) {
	first := memory.NewSeedStore()
	second := memory.NewSeedStore()

	require.NoError(t, newTestLoader(first).Load(context.Background(), testFixture()))
	require.NoError(t, newTestLoader(second).Load(context.Background(), testFixture()))

	assert.Equal(t, first.Users, second.Users)
	assert.Equal(t, first.WatchHistory, second.WatchHistory)
}

func TestLoadRejectsOutOfRangeUserReference(t *testing.T) {
	store := memory.NewSeedStore()
	fx := testFixture()
	fx.WatchHistory[0].UserID = 9 // only 4 users

	err := newTestLoader(store).Load(context.Background(), fx)

	var refErr *domain.ReferenceOutOfRangeError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "watchhistory", refErr.Entity)
	assert.Equal(t, "user_id", refErr.Field)
	assert.Equal(t, int64(9), refErr.Index)
	assert.Equal(t, 4, refErr.Available)

	// Bounds are checked before anything is inserted.
	assert.Empty(t, store.Subscriptions)
	assert.Empty(t, store.Users)
	assert.Empty(t, store.WatchHistory)
}

func TestLoadRejectsOutOfRangeContentReference(t *testing.T) {
	store := memory.NewSeedStore()
	fx := testFixture()
	fx.Reviews[0].ContentID = 4 // only 3 content rows

	err := newTestLoader(store).Load(context.Background(), fx)

	var refErr *domain.ReferenceOutOfRangeError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "reviews", refErr.Entity)
	assert.Equal(t, "content_id", refErr.Field)
}

func TestLoadRejectsZeroPlaceholder(t *testing.T) {
	store := memory.NewSeedStore()
	fx := testFixture()
	fx.Payments[0].UserID = 0 // placeholders are 1-based

	err := newTestLoader(store).Load(context.Background(), fx)

	var refErr *domain.ReferenceOutOfRangeError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "paymenthistory", refErr.Entity)
}

func TestLoadRejectsUsersWithoutSubscriptions(t *testing.T) {
	store := memory.NewSeedStore()
	fx := testFixture()
	fx.Subscriptions = nil

	err := newTestLoader(store).Load(context.Background(), fx)

	var refErr *domain.ReferenceOutOfRangeError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "users", refErr.Entity)
	assert.Empty(t, store.Users)
}

func TestLoadEmptyFixture(t *testing.T) {
	store := memory.NewSeedStore()
	err := newTestLoader(store).Load(context.Background(), &domain.Fixture{})
	require.NoError(t, err)
	assert.Empty(t, store.Subscriptions)
}

func TestLoadFileParsesFixtureJSON(t *testing.T) {
	store := memory.NewSeedStore()
	path := filepath.Join(t.TempDir(), "dataset.json")
	fixture := `{
		"subscriptions": [{"name": "Basic"}],
		"users": [{"name": "Ana", "email": "ana@example.com"}],
		"content": [{"title": "Deep Water", "genre": "Drama", "rating": 8.1}],
		"watchhistory": [{"user_id": 1, "content_id": 1, "watched_on": "2024-09-10T20:00:00Z", "progress": 0.8}],
		"reviews": [],
		"paymenthistory": [{"user_id": 1, "amount": 9.99, "method": "card", "payment_date": "2024-09-01T00:00:00Z"}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	err := newTestLoader(store).LoadFile(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, store.WatchHistory, 1)
	assert.Equal(t, int64(200), store.WatchHistory[0].UserID)
	assert.Equal(t, 0.8, store.WatchHistory[0].Progress)
	require.Len(t, store.Payments, 1)
	assert.Equal(t, "card", store.Payments[0].Method)
}

func TestLoadFileMissingFile(t *testing.T) {
	err := newTestLoader(memory.NewSeedStore()).LoadFile(context.Background(), "does-not-exist.json")
	require.Error(t, err)
}

func TestLoadStopsOnGroupFailure(t *testing.T) {
	store := memory.NewSeedStore()
	store.FailTable = "content"

	err := newTestLoader(store).Load(context.Background(), testFixture())
	require.Error(t, err)

	// Earlier groups committed, the failed group and everything after did not.
	assert.Len(t, store.Subscriptions, 2)
	assert.Len(t, store.Users, 4)
	assert.Empty(t, store.Content)
	assert.Empty(t, store.WatchHistory)
	assert.Empty(t, store.Reviews)
	assert.Empty(t, store.Payments)
}
