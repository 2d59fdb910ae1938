package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(value string) *time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestWindowOpen_NoBoundsAlwaysOpen(t *testing.T) {
	lion := &Lion{Slug: "aurora"}

	references := []time.Time{
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Now(),
		time.Date(2100, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, ref := range references {
		assert.True(t, lion.WindowOpen(ref), "reference %s", ref)
	}
}

func TestWindowOpen_BoundedWindow(t *testing.T) {
	lion := &Lion{
		Slug:            "verve",
		BiddingStartsAt: ts("2026-02-13T09:00:00Z"),
		BiddingEndsAt:   ts("2026-03-05T21:00:00Z"),
	}

	tests := []struct {
		name string
		ref  string
		want bool
	}{
		{"before start", "2026-02-13T08:59:59Z", false},
		{"exact start is open", "2026-02-13T09:00:00Z", true},
		{"mid window", "2026-02-20T00:00:00Z", true},
		{"exact end is open", "2026-03-05T21:00:00Z", true},
		{"after end", "2026-03-05T21:00:01Z", false},
		{"day after end", "2026-03-06T00:00:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lion.WindowOpen(*ts(tt.ref)))
		})
	}
}

func TestWindowOpen_HalfBounded(t *testing.T) {
	startOnly := &Lion{BiddingStartsAt: ts("2026-02-13T09:00:00Z")}
	assert.False(t, startOnly.WindowOpen(*ts("2026-02-01T00:00:00Z")))
	assert.True(t, startOnly.WindowOpen(*ts("2030-01-01T00:00:00Z")))

	endOnly := &Lion{BiddingEndsAt: ts("2026-03-05T21:00:00Z")}
	assert.True(t, endOnly.WindowOpen(*ts("1999-01-01T00:00:00Z")))
	assert.False(t, endOnly.WindowOpen(*ts("2026-03-06T00:00:00Z")))
}

func TestWindowOpen_ReferenceZoneIrrelevant(t *testing.T) {
	lion := &Lion{
		BiddingStartsAt: ts("2026-02-13T09:00:00Z"),
		BiddingEndsAt:   ts("2026-03-05T21:00:00Z"),
	}

	// 2026-02-20T08:00+08:00 is 2026-02-20T00:00Z - inside the window.
	hkt := time.FixedZone("UTC+8", 8*60*60)
	ref := time.Date(2026, 2, 20, 8, 0, 0, 0, hkt)
	assert.True(t, lion.WindowOpen(ref))
}

func TestNormalizeWindow(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	start := time.Date(2026, 2, 13, 4, 0, 0, 0, est)
	lion := &Lion{BiddingStartsAt: &start}

	lion.NormalizeWindow()
	assert.Equal(t, time.UTC, lion.BiddingStartsAt.Location())
	assert.Equal(t, 9, lion.BiddingStartsAt.Hour())
	assert.Nil(t, lion.BiddingEndsAt)
}

func TestRemoveImageRef(t *testing.T) {
	lion := &Lion{ImageIDs: []string{"img-1", "img-2", "img-3"}}

	assert.True(t, lion.RemoveImageRef("img-2"))
	assert.Equal(t, []string{"img-1", "img-3"}, lion.ImageIDs)

	assert.False(t, lion.RemoveImageRef("img-9"))
	assert.Equal(t, []string{"img-1", "img-3"}, lion.ImageIDs)
}
