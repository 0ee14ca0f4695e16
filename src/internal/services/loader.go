package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/streampulse/streampulse/src/internal/domain"
	"github.com/streampulse/streampulse/src/internal/ports"
)

// BulkLoader seeds the store from a fixture in dependency order:
// subscriptions, then users, then content, then the three leaf groups.
// Fixture references are 1-based positions into the sibling arrays; they are
// rewritten to the store-assigned IDs captured from the parent inserts.
type BulkLoader struct {
	store ports.SeedStore
	log   zerolog.Logger
}

func NewBulkLoader(store ports.SeedStore, log zerolog.Logger) *BulkLoader {
	return &BulkLoader{store: store, log: log}
}

// LoadFile reads a JSON fixture from disk and loads it.
func (l *BulkLoader) LoadFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", path, err)
	}

	var fx domain.Fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return l.Load(ctx, &fx)
}

// Load validates every placeholder up front, then inserts group by group.
// Validation runs before any insert: an FK violation inside a group would
// abort that group's transaction, so bad references must never reach the
// store. The fixture's reference fields are rewritten in place.
func (l *BulkLoader) Load(ctx context.Context, fx *domain.Fixture) error {
	if err := validateReferences(fx); err != nil {
		return err
	}

	subscriptionIDs, err := l.store.InsertSubscriptions(ctx, fx.Subscriptions)
	if err != nil {
		return fmt.Errorf("load subscriptions: %w", err)
	}
	l.log.Info().Int("rows", len(subscriptionIDs)).Msg("Inserted subscriptions")

	// Fan users out over the subscriptions by position. Wraps around when
	// there are fewer subscriptions than users.
	for i := range fx.Users {
		fx.Users[i].SubscriptionID = subscriptionIDs[i%len(subscriptionIDs)]
	}
	userIDs, err := l.store.InsertUsers(ctx, fx.Users)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	l.log.Info().Int("rows", len(userIDs)).Msg("Inserted users")

	contentIDs, err := l.store.InsertContent(ctx, fx.Content)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	l.log.Info().Int("rows", len(contentIDs)).Msg("Inserted content")

	for i := range fx.WatchHistory {
		fx.WatchHistory[i].UserID = userIDs[fx.WatchHistory[i].UserID-1]
		fx.WatchHistory[i].ContentID = contentIDs[fx.WatchHistory[i].ContentID-1]
	}
	for i := range fx.Reviews {
		fx.Reviews[i].UserID = userIDs[fx.Reviews[i].UserID-1]
		fx.Reviews[i].ContentID = contentIDs[fx.Reviews[i].ContentID-1]
	}
	for i := range fx.Payments {
		fx.Payments[i].UserID = userIDs[fx.Payments[i].UserID-1]
	}

	// No cross-dependency between the three leaf groups; order is arbitrary.
	if _, err := l.store.InsertWatchHistory(ctx, fx.WatchHistory); err != nil {
		return fmt.Errorf("load watchhistory: %w", err)
	}
	l.log.Info().Int("rows", len(fx.WatchHistory)).Msg("Inserted watch history")

	if _, err := l.store.InsertReviews(ctx, fx.Reviews); err != nil {
		return fmt.Errorf("load reviews: %w", err)
	}
	l.log.Info().Int("rows", len(fx.Reviews)).Msg("Inserted reviews")

	if _, err := l.store.InsertPayments(ctx, fx.Payments); err != nil {
		return fmt.Errorf("load paymenthistory: %w", err)
	}
	l.log.Info().Int("rows", len(fx.Payments)).Msg("Inserted payment history")

	return nil
}

func validateReferences(fx *domain.Fixture) error {
	if len(fx.Users) > 0 && len(fx.Subscriptions) == 0 {
		return &domain.ReferenceOutOfRangeError{
			Entity: "users", Field: "subscription_id", Row: 0, Index: 1, Available: 0,
		}
	}

	checkRef := func(entity, field string, row int, idx int64, available int) error {
		if idx < 1 || int(idx) > available {
			return &domain.ReferenceOutOfRangeError{
				Entity: entity, Field: field, Row: row, Index: idx, Available: available,
			}
		}
		return nil
	}

	for i, w := range fx.WatchHistory {
		if err := checkRef("watchhistory", "user_id", i, w.UserID, len(fx.Users)); err != nil {
			return err
		}
		if err := checkRef("watchhistory", "content_id", i, w.ContentID, len(fx.Content)); err != nil {
			return err
		}
	}
	for i, r := range fx.Reviews {
		if err := checkRef("reviews", "user_id", i, r.UserID, len(fx.Users)); err != nil {
			return err
		}
		if err := checkRef("reviews", "content_id", i, r.ContentID, len(fx.Content)); err != nil {
			return err
		}
	}
	for i, p := range fx.Payments {
		if err := checkRef("paymenthistory", "user_id", i, p.UserID, len(fx.Users)); err != nil {
			return err
		}
	}
	return nil
}
