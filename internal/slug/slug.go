// Package slug derives URL-safe unique identifiers for catalogue lions.
// The slug is the public identity of a lion; store keys stay internal.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Matches every maximal run of characters outside [a-z0-9].
var nonAlphanumericRunRe = regexp.MustCompile(`[^a-z0-9]+`)

// Resolver reports which lion, if any, currently holds a slug.
// Implemented by the store.
type Resolver interface {
	LionIDBySlug(ctx context.Context, slug string) (id string, ok bool, err error)
}

// Make converts a lion name to a slug candidate.
//
// Lowercases, replaces each maximal run of non-alphanumeric characters with
// a single hyphen, and trims leading/trailing hyphens. Names that normalize
// to nothing (all punctuation, emoji, etc.) get a random "lion-" fallback
// token so the result is never empty.
//
// Examples:
//
//	"Solstice Ember!!" → "solstice-ember"
//	"  Aurora  "       → "aurora"
//	"!!!"              → "lion-3f9a1c"
func Make(name string) string {
	s := strings.ToLower(name)
	s = nonAlphanumericRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return Fallback()
	}
	return s
}

// Fallback generates a random slug for lions whose name yields nothing
// usable. Six hex characters keeps it short enough for a URL while making
// collisions unrealistic at catalogue scale.
func Fallback() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return "lion-" + token
}

// EnsureUnique resolves a candidate slug against the catalogue, appending
// -1, -2, ... until no other lion holds it. A collision with excludeID
// (the lion currently being edited) is not a collision - re-saving a lion
// keeps its slug stable.
//
// The check is read-then-act with no store-level uniqueness constraint, so
// two concurrent creations can race to the same slug. Accepted for
// single-admin catalogue management.
func EnsureUnique(ctx context.Context, candidate, excludeID string, r Resolver) (string, error) {
	if candidate == "" {
		candidate = Fallback()
	}

	slug := candidate
	for counter := 1; ; counter++ {
		holderID, ok, err := r.LionIDBySlug(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("resolve slug %q: %w", slug, err)
		}
		if !ok || (excludeID != "" && holderID == excludeID) {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", candidate, counter)
	}
}
