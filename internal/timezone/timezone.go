// Package timezone normalizes bidding window instants to canonical UTC and
// derives the fixed display-zone projection used for presentation.
package timezone

import "time"

// displayOffsetHours is the fixed UTC+8 presentation offset.
// It is used only for display projections, never for comparisons.
const displayOffsetHours = 8

// DisplayZone is the fixed UTC+8 zone used for presentation.
var DisplayZone = time.FixedZone("UTC+8", displayOffsetHours*60*60)

// EnsureUTC returns the canonical UTC representation of an instant.
//
// Values without a real zone attached (stored naive, or parsed with a zero
// offset) are interpreted as already being UTC - a deliberate policy, not a
// conversion. Zone-aware values are converted. Absence propagates: nil in,
// nil out, never a default of "now".
func EnsureUTC(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	utc := value.UTC()
	return &utc
}

// ToDisplay projects an instant into the fixed UTC+8 display zone.
// The result represents the same instant; only the rendered offset changes.
func ToDisplay(value *time.Time) *time.Time {
	utc := EnsureUTC(value)
	if utc == nil {
		return nil
	}
	display := utc.In(DisplayZone)
	return &display
}
