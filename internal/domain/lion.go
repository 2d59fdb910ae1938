// Package domain contains the core business entities for the lion auction catalogue.
package domain

import (
	"time"

	"github.com/lionbidapp/lionbid-server/internal/timezone"
)

// Lion represents a decorated sculpture in the auction catalogue.
// Slug is the public identity; ID is the store key.
type Lion struct {
	ID              string     `json:"id"`
	Slug            string     `json:"slug"`
	Name            string     `json:"name"`
	House           string     `json:"house,omitempty"`
	Summary         string     `json:"summary"`
	CurrentBid      int64      `json:"current_bid"`
	BiddingStartsAt *time.Time `json:"bidding_starts_at,omitempty"` // nil = unbounded start
	BiddingEndsAt   *time.Time `json:"bidding_ends_at,omitempty"`   // nil = unbounded end
	ImageIDs        []string   `json:"image_ids,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (l *Lion) Touch() {
	l.UpdatedAt = time.Now().UTC()
}

// NormalizeWindow rewrites both window bounds to canonical UTC.
func (l *Lion) NormalizeWindow() {
	l.BiddingStartsAt = timezone.EnsureUTC(l.BiddingStartsAt)
	l.BiddingEndsAt = timezone.EnsureUTC(l.BiddingEndsAt)
}

// WindowOpen reports whether bidding is permitted at the reference time.
//
// A lion with no configured window is always open. Defined bounds are
// inclusive on both ends: start <= ref <= end is open. Pure - no store
// access, no clock access.
func (l *Lion) WindowOpen(ref time.Time) bool {
	ref = ref.UTC()

	if starts := timezone.EnsureUTC(l.BiddingStartsAt); starts != nil && ref.Before(*starts) {
		return false
	}
	if ends := timezone.EnsureUTC(l.BiddingEndsAt); ends != nil && ref.After(*ends) {
		return false
	}
	return true
}

// HasImages reports whether the lion has any image references.
func (l *Lion) HasImages() bool {
	return len(l.ImageIDs) > 0
}

// RemoveImageRef drops an image reference from the lion.
// Returns true if the reference was present.
func (l *Lion) RemoveImageRef(imageID string) bool {
	for i, ref := range l.ImageIDs {
		if ref == imageID {
			l.ImageIDs = append(l.ImageIDs[:i], l.ImageIDs[i+1:]...)
			return true
		}
	}
	return false
}
