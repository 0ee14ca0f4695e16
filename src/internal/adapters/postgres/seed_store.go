package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/streampulse/streampulse/src/internal/domain"
)

type PostgresSeedStore struct {
	db *sql.DB
}

func NewSeedStore(db *sql.DB) *PostgresSeedStore {
	return &PostgresSeedStore{db: db}
}

func (s *PostgresSeedStore) InitSchema() error {
	// Parent tables first so the FK references resolve.
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS subscriptions (
			subscription_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS users (
			user_id SERIAL PRIMARY KEY,
			subscription_id INT NOT NULL REFERENCES subscriptions(subscription_id),
			name TEXT,
			email TEXT
		);
		CREATE TABLE IF NOT EXISTS content (
			content_id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			genre TEXT,
			rating NUMERIC(3,1)
		);
		CREATE TABLE IF NOT EXISTS watchhistory (
			watch_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(user_id),
			content_id INT NOT NULL REFERENCES content(content_id),
			watched_on TIMESTAMPTZ,
			progress NUMERIC(4,3)
		);
		CREATE TABLE IF NOT EXISTS reviews (
			review_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(user_id),
			content_id INT NOT NULL REFERENCES content(content_id),
			rating INT,
			review_text TEXT
		);
		CREATE TABLE IF NOT EXISTS paymenthistory (
			payment_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(user_id),
			amount NUMERIC(10,2),
			method TEXT,
			payment_date TIMESTAMPTZ
		);
	`)
	return err
}

// insertGroup runs fn once per row inside a single transaction and collects
// the RETURNING value of each insert. A failure on any row rolls the whole
// group back.
func (s *PostgresSeedStore) insertGroup(ctx context.Context, table string, n int, fn func(tx *sql.Tx, i int) (int64, error)) ([]int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin %s load: %w", table, err)
	}

	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		id, err := fn(tx, i)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit %s load: %w", table, err)
	}
	return ids, nil
}

func (s *PostgresSeedStore) InsertSubscriptions(ctx context.Context, rows []domain.SubscriptionSeed) ([]int64, error) {
	return s.insertGroup(ctx, "subscriptions", len(rows), func(tx *sql.Tx, i int) (int64, error) {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO subscriptions (name)
			VALUES ($1)
			RETURNING subscription_id
		`, rows[i].Name).Scan(&id)
		return id, err
	})
}

func (s *PostgresSeedStore) InsertUsers(ctx context.Context, rows []domain.UserSeed) ([]int64, error) {
	return s.insertGroup(ctx, "users", len(rows), func(tx *sql.Tx, i int) (int64, error) {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO users (subscription_id, name, email)
			VALUES ($1, $2, $3)
			RETURNING user_id
		`, rows[i].SubscriptionID, rows[i].Name, rows[i].Email).Scan(&id)
		return id, err
	})
}

func (s *PostgresSeedStore) InsertContent(ctx context.Context, rows []domain.ContentSeed) ([]int64, error) {
	return s.insertGroup(ctx, "content", len(rows), func(tx *sql.Tx, i int) (int64, error) {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO content (title, genre, rating)
			VALUES ($1, $2, $3)
			RETURNING content_id
		`, rows[i].Title, rows[i].Genre, rows[i].Rating).Scan(&id)
		return id, err
	})
}

func (s *PostgresSeedStore) InsertWatchHistory(ctx context.Context, rows []domain.WatchSeed) ([]int64, error) {
	return s.insertGroup(ctx, "watchhistory", len(rows), func(tx *sql.Tx, i int) (int64, error) {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO watchhistory (user_id, content_id, watched_on, progress)
			VALUES ($1, $2, $3, $4)
			RETURNING watch_id
		`, rows[i].UserID, rows[i].ContentID, rows[i].WatchedOn, rows[i].Progress).Scan(&id)
		return id, err
	})
}

func (s *PostgresSeedStore) InsertReviews(ctx context.Context, rows []domain.ReviewSeed) ([]int64, error) {
	return s.insertGroup(ctx, "reviews", len(rows), func(tx *sql.Tx, i int) (int64, error) {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO reviews (user_id, content_id, rating, review_text)
			VALUES ($1, $2, $3, $4)
			RETURNING review_id
		`, rows[i].UserID, rows[i].ContentID, rows[i].Rating, rows[i].ReviewText).Scan(&id)
		return id, err
	})
}

func (s *PostgresSeedStore) InsertPayments(ctx context.Context, rows []domain.PaymentSeed) ([]int64, error) {
	return s.insertGroup(ctx, "paymenthistory", len(rows), func(tx *sql.Tx, i int) (int64, error) {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO paymenthistory (user_id, amount, method, payment_date)
			VALUES ($1, $2, $3, $4)
			RETURNING payment_id
		`, rows[i].UserID, rows[i].Amount, rows[i].Method, rows[i].PaymentDate).Scan(&id)
		return id, err
	})
}
