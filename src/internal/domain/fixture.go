package domain

import "time"

// Fixture is the on-disk seed dataset. Cross-entity references are 1-based
// positions into the sibling arrays, not real IDs; the loader translates them
// to store-assigned surrogate IDs before the dependent rows are inserted.
type Fixture struct {
	Subscriptions []SubscriptionSeed `json:"subscriptions"`
	Users         []UserSeed         `json:"users"`
	Content       []ContentSeed      `json:"content"`
	WatchHistory  []WatchSeed        `json:"watchhistory"`
	Reviews       []ReviewSeed       `json:"reviews"`
	Payments      []PaymentSeed      `json:"paymenthistory"`
}

type SubscriptionSeed struct {
	Name string `json:"name"`
}

// UserSeed carries no subscription placeholder of its own: users are fanned
// out over the inserted subscriptions by position (i mod N).
type UserSeed struct {
	SubscriptionID int64  `json:"subscription_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
}

type ContentSeed struct {
	Title  string  `json:"title"`
	Genre  string  `json:"genre"`
	Rating float64 `json:"rating"`
}

type WatchSeed struct {
	UserID    int64     `json:"user_id"`
	ContentID int64     `json:"content_id"`
	WatchedOn time.Time `json:"watched_on"`
	Progress  float64   `json:"progress"`
}

type ReviewSeed struct {
	UserID     int64  `json:"user_id"`
	ContentID  int64  `json:"content_id"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

type PaymentSeed struct {
	UserID      int64     `json:"user_id"`
	Amount      float64   `json:"amount"`
	Method      string    `json:"method"`
	PaymentDate time.Time `json:"payment_date"`
}
