package domain

import "time"

// Bid statuses. New bids start pending until the organizers confirm the
// pledge with the bidder.
const (
	BidStatusPending   = "pending"
	BidStatusConfirmed = "confirmed"
)

// Bid is a recorded pledge for a lion. Bids are immutable once written.
//
// LionSlug is the canonical foreign key. The catalogue historically mixed
// name and slug references; all writes now normalize to slug and reads
// match on slug only.
type Bid struct {
	ID        string    `json:"id"`
	LionSlug  string    `json:"lion_slug"`
	Amount    int64     `json:"amount"`
	Bidder    string    `json:"bidder"`
	Contact   Contact   `json:"contact"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status,omitempty"`
}

// Contact holds how to reach a bidder about a winning pledge.
type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}
