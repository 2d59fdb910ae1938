package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lionbidapp/lionbid-server/internal/errors"
)

func setupBidTest(t *testing.T) (*LionService, *BidService) {
	t.Helper()
	st := setupTestStore(t)
	return NewLionService(st, testLogger()), NewBidService(st, testLogger())
}

func validBid(slug string, amount int64) SubmitBidRequest {
	return SubmitBidRequest{
		LionSlug: slug,
		Amount:   amount,
		Bidder:   "Alex Bidder",
		Email:    "alex@example.com",
		Phone:    "+44 20 7946 0000",
	}
}

func TestBidService_Submit_RecordsBidAndRaisesCurrent(t *testing.T) {
	lions, bids := setupBidTest(t)
	ctx := context.Background()

	lion, err := lions.CreateLion(ctx, CreateLionRequest{Name: "Aurora", StartingBid: 9800})
	require.NoError(t, err)

	resp, err := bids.Submit(ctx, lion.Slug, validBid(lion.Slug, 9801))
	require.NoError(t, err)

	assert.Equal(t, int64(9801), resp.CurrentBid)
	assert.Equal(t, lion.Slug, resp.Bid.LionSlug)
	assert.NotEmpty(t, resp.Bid.ID)
	assert.Equal(t, time.UTC, resp.Bid.Timestamp.Location())

	refreshed, err := lions.GetLionBySlug(ctx, lion.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(9801), refreshed.CurrentBid)
}

func TestBidService_Submit_RejectsEqualAmount(t *testing.T) {
	lions, bids := setupBidTest(t)
	ctx := context.Background()

	lion, err := lions.CreateLion(ctx, CreateLionRequest{Name: "Aurora", StartingBid: 9800})
	require.NoError(t, err)

	_, err = bids.Submit(ctx, lion.Slug, validBid(lion.Slug, 9800))
	assert.ErrorIs(t, err, apperrors.ErrAmountTooLow)
}

func TestBidService_Submit_RejectsSlugMismatch(t *testing.T) {
	lions, bids := setupBidTest(t)
	ctx := context.Background()

	lion, err := lions.CreateLion(ctx, CreateLionRequest{Name: "Aurora"})
	require.NoError(t, err)
	other, err := lions.CreateLion(ctx, CreateLionRequest{Name: "Verve"})
	require.NoError(t, err)

	_, err = bids.Submit(ctx, lion.Slug, validBid(other.Slug, 100))
	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
}

func TestBidService_Submit_RejectsUnknownLion(t *testing.T) {
	_, bids := setupBidTest(t)

	_, err := bids.Submit(context.Background(), "no-such-lion", validBid("no-such-lion", 100))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBidService_Submit_WindowEnforcement(t *testing.T) {
	lions, bids := setupBidTest(t)
	ctx := context.Background()

	// Window entirely in the past.
	pastStart := time.Now().UTC().Add(-48 * time.Hour)
	pastEnd := time.Now().UTC().Add(-24 * time.Hour)
	closed, err := lions.CreateLion(ctx, CreateLionRequest{
		Name:            "Closed Lion",
		BiddingStartsAt: &pastStart,
		BiddingEndsAt:   &pastEnd,
	})
	require.NoError(t, err)

	_, err = bids.Submit(ctx, closed.Slug, validBid(closed.Slug, 20000))
	assert.ErrorIs(t, err, apperrors.ErrWindowClosed)

	// Window not yet opened.
	futureStart := time.Now().UTC().Add(24 * time.Hour)
	upcoming, err := lions.CreateLion(ctx, CreateLionRequest{
		Name:            "Upcoming Lion",
		BiddingStartsAt: &futureStart,
	})
	require.NoError(t, err)

	_, err = bids.Submit(ctx, upcoming.Slug, validBid(upcoming.Slug, 100))
	assert.ErrorIs(t, err, apperrors.ErrWindowClosed)

	// No window configured: always open.
	open, err := lions.CreateLion(ctx, CreateLionRequest{Name: "Open Lion"})
	require.NoError(t, err)

	_, err = bids.Submit(ctx, open.Slug, validBid(open.Slug, 100))
	assert.NoError(t, err)
}

func TestBidService_Submit_RejectionMutatesNothing(t *testing.T) {
	lions, bids := setupBidTest(t)
	ctx := context.Background()

	lion, err := lions.CreateLion(ctx, CreateLionRequest{Name: "Aurora", StartingBid: 9800})
	require.NoError(t, err)

	_, err = bids.Submit(ctx, lion.Slug, validBid(lion.Slug, 500))
	require.ErrorIs(t, err, apperrors.ErrAmountTooLow)

	refreshed, err := lions.GetLionBySlug(ctx, lion.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(9800), refreshed.CurrentBid)

	history, err := bids.BidsForLion(ctx, lion.Slug)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestBidService_Submit_RejectsInvalidShape(t *testing.T) {
	lions, bids := setupBidTest(t)
	ctx := context.Background()

	lion, err := lions.CreateLion(ctx, CreateLionRequest{Name: "Aurora"})
	require.NoError(t, err)

	req := validBid(lion.Slug, 100)
	req.Email = "not-an-email"
	_, err = bids.Submit(ctx, lion.Slug, req)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	req = validBid(lion.Slug, -10)
	_, err = bids.Submit(ctx, lion.Slug, req)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestBidService_BidsForLion_UnknownSlugIs404(t *testing.T) {
	_, bids := setupBidTest(t)

	_, err := bids.BidsForLion(context.Background(), "no-such-lion")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBidService_ExportCSV(t *testing.T) {
	lions, bids := setupBidTest(t)
	ctx := context.Background()

	lion, err := lions.CreateLion(ctx, CreateLionRequest{Name: "Aurora the Brave"})
	require.NoError(t, err)

	_, err = bids.Submit(ctx, lion.Slug, validBid(lion.Slug, 250))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, bids.ExportCSV(ctx, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"Lion", "Amount", "Bidder", "Email", "Phone", "Timestamp (UTC)"}, records[0])
	assert.Equal(t, "Aurora the Brave", records[1][0])
	assert.Equal(t, "250", records[1][1])
	assert.Equal(t, "Alex Bidder", records[1][2])

	// Timestamps are exported as RFC 3339 in UTC.
	ts, err := time.Parse(time.RFC3339, records[1][5])
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ts.Location())
}

func TestBidService_Dashboard(t *testing.T) {
	lions, bids := setupBidTest(t)
	ctx := context.Background()

	aurora, err := lions.CreateLion(ctx, CreateLionRequest{Name: "Aurora"})
	require.NoError(t, err)
	verve, err := lions.CreateLion(ctx, CreateLionRequest{Name: "Verve"})
	require.NoError(t, err)

	_, err = bids.Submit(ctx, aurora.Slug, validBid(aurora.Slug, 100))
	require.NoError(t, err)

	second := validBid(aurora.Slug, 300)
	second.Bidder = "Morgan Patron"
	second.Email = "morgan@example.com"
	_, err = bids.Submit(ctx, aurora.Slug, second)
	require.NoError(t, err)

	// Same bidder email, different capitalization: still one unique bidder.
	third := validBid(verve.Slug, 50)
	third.Email = "ALEX@example.com"
	_, err = bids.Submit(ctx, verve.Slug, third)
	require.NoError(t, err)

	stats, err := bids.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalLions)
	assert.Equal(t, 3, stats.TotalBids)
	assert.Equal(t, 2, stats.UniqueBidders)
	assert.Equal(t, int64(350), stats.TotalRaised)
	assert.Equal(t, int64(300), stats.HighestBid)
	assert.Equal(t, "Aurora", stats.HighestLion)
	assert.Equal(t, "Morgan Patron", stats.HighestBidder)

	// Per-lion rows follow catalogue order (name ascending).
	require.Len(t, stats.Lions, 2)

	auroraRow := stats.Lions[0]
	assert.Equal(t, "aurora", auroraRow.Slug)
	assert.Equal(t, "Aurora", auroraRow.Name)
	assert.Equal(t, 2, auroraRow.BidCount)
	assert.Equal(t, int64(300), auroraRow.CurrentBid)
	require.NotNil(t, auroraRow.LatestBidAt)

	verveRow := stats.Lions[1]
	assert.Equal(t, "verve", verveRow.Slug)
	assert.Equal(t, 1, verveRow.BidCount)
	assert.Equal(t, int64(50), verveRow.CurrentBid)
}

func TestSubmit_ThresholdFollowsAdminOverride(t *testing.T) {
	lions, bids := setupBidTest(t)
	ctx := context.Background()

	lion, err := lions.CreateLion(ctx, CreateLionRequest{Name: "Aurora", StartingBid: 500})
	require.NoError(t, err)

	// Admin lowers the current bid; the bid threshold follows it down.
	override := int64(40)
	_, err = lions.UpdateLion(ctx, lion.ID, UpdateLionRequest{CurrentBid: &override})
	require.NoError(t, err)

	resp, err := bids.Submit(ctx, lion.Slug, validBid(lion.Slug, 41))
	require.NoError(t, err)
	assert.Equal(t, int64(41), resp.CurrentBid)
}

func TestBidService_Dashboard_LionWithoutBids(t *testing.T) {
	lions, bids := setupBidTest(t)
	ctx := context.Background()

	_, err := lions.CreateLion(ctx, CreateLionRequest{Name: "Ember", StartingBid: 75})
	require.NoError(t, err)

	stats, err := bids.Dashboard(ctx)
	require.NoError(t, err)

	require.Len(t, stats.Lions, 1)
	row := stats.Lions[0]
	assert.Equal(t, 0, row.BidCount)
	assert.Equal(t, int64(75), row.CurrentBid)
	assert.Nil(t, row.LatestBidAt)
}
