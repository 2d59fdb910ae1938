package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lionbidapp/lionbid-server/internal/domain"
	apperrors "github.com/lionbidapp/lionbid-server/internal/errors"
	"github.com/lionbidapp/lionbid-server/internal/id"
	"github.com/lionbidapp/lionbid-server/internal/store"
)

// BidService validates and records bids against catalogue entries.
type BidService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewBidService creates a new bid service.
func NewBidService(store *store.Store, logger *slog.Logger) *BidService {
	return &BidService{
		store:  store,
		logger: logger,
	}
}

// SubmitBidRequest contains a bid submission from a lion's page.
// LionSlug echoes the page the form was rendered on; a mismatch with
// the page slug marks the submission as stale or tampered.
type SubmitBidRequest struct {
	LionSlug string `json:"lion_slug" validate:"required"`
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	Bidder   string `json:"bidder" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=40"`
}

// SubmitBidResponse reports the recorded bid and the lion's new
// current amount.
type SubmitBidResponse struct {
	Bid        *domain.Bid `json:"bid"`
	CurrentBid int64       `json:"current_bid"`
}

// Submit validates a bid in order: submission integrity, then the
// bidding window, then the amount. The first failing check decides the
// rejection, and a rejected bid never mutates the store. The amount
// check is repeated inside the store's conditional write, so a
// concurrent raise between validation and write is also rejected.
func (s *BidService) Submit(ctx context.Context, pageSlug string, req SubmitBidRequest) (*SubmitBidResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if req.LionSlug != pageSlug {
		return nil, apperrors.Integrity("bid does not match this lion")
	}

	lion, err := s.store.GetLionBySlug(ctx, pageSlug)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if !lion.WindowOpen(now) {
		return nil, apperrors.WindowClosed("bidding is closed for this lion")
	}

	if req.Amount <= lion.CurrentBid {
		return nil, apperrors.AmountTooLow(fmt.Sprintf("bid must be greater than the current bid of %d", lion.CurrentBid))
	}

	bidID, err := id.Generate("bid")
	if err != nil {
		return nil, fmt.Errorf("generate bid ID: %w", err)
	}

	bid := &domain.Bid{
		ID:       bidID,
		LionSlug: lion.Slug,
		Amount:   req.Amount,
		Bidder:   req.Bidder,
		Contact: domain.Contact{
			Email: req.Email,
			Phone: req.Phone,
		},
		Timestamp: now,
		Status:    domain.BidStatusPending,
	}

	if err := s.store.RecordBid(ctx, bid); err != nil {
		return nil, err
	}

	return &SubmitBidResponse{
		Bid:        bid,
		CurrentBid: bid.Amount,
	}, nil
}

// BidsForLion returns the bid history for a lion, newest first.
func (s *BidService) BidsForLion(ctx context.Context, lionSlug string) ([]*domain.Bid, error) {
	// Surface unknown slugs as 404 rather than an empty history.
	if _, err := s.store.GetLionBySlug(ctx, lionSlug); err != nil {
		return nil, err
	}
	return s.store.ListBidsForLion(ctx, lionSlug)
}

// ExportCSV writes every recorded bid as CSV, newest first. Lion names
// are resolved from slugs; bids whose lion has since been renamed keep
// resolving because the slug moves with the lion.
func (s *BidService) ExportCSV(ctx context.Context, w io.Writer) error {
	bids, err := s.store.ListBids(ctx, 0)
	if err != nil {
		return err
	}

	lions, err := s.store.ListLions(ctx)
	if err != nil {
		return err
	}
	nameBySlug := make(map[string]string, len(lions))
	for _, lion := range lions {
		nameBySlug[lion.Slug] = lion.Name
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Lion", "Amount", "Bidder", "Email", "Phone", "Timestamp (UTC)"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, bid := range bids {
		name := nameBySlug[bid.LionSlug]
		if name == "" {
			name = bid.LionSlug
		}
		record := []string{
			name,
			strconv.FormatInt(bid.Amount, 10),
			bid.Bidder,
			bid.Contact.Email,
			bid.Contact.Phone,
			bid.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// DashboardStats summarizes auction activity for the admin dashboard.
type DashboardStats struct {
	TotalLions    int              `json:"total_lions"`
	TotalBids     int              `json:"total_bids"`
	UniqueBidders int              `json:"unique_bidders"`
	TotalRaised   int64            `json:"total_raised"`
	HighestBid    int64            `json:"highest_bid"`
	HighestLion   string           `json:"highest_lion,omitempty"`
	HighestBidder string           `json:"highest_bidder,omitempty"`
	Lions         []LionBidSummary `json:"lions"`
}

// LionBidSummary is the per-lion row on the admin dashboard.
type LionBidSummary struct {
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	CurrentBid  int64      `json:"current_bid"`
	BidCount    int        `json:"bid_count"`
	LatestBidAt *time.Time `json:"latest_bid_at,omitempty"`
}

// Dashboard computes auction-wide statistics. TotalRaised sums each
// lion's current bid, which is what the event would collect if the
// auction closed now.
func (s *BidService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	lions, err := s.store.ListLions(ctx)
	if err != nil {
		return nil, err
	}
	bids, err := s.store.ListBids(ctx, 0)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalLions: len(lions),
		TotalBids:  len(bids),
	}

	nameBySlug := make(map[string]string, len(lions))
	summaryBySlug := make(map[string]*LionBidSummary, len(lions))
	stats.Lions = make([]LionBidSummary, 0, len(lions))
	for _, lion := range lions {
		nameBySlug[lion.Slug] = lion.Name
		stats.TotalRaised += lion.CurrentBid
		stats.Lions = append(stats.Lions, LionBidSummary{
			Slug:       lion.Slug,
			Name:       lion.Name,
			CurrentBid: lion.CurrentBid,
		})
		summaryBySlug[lion.Slug] = &stats.Lions[len(stats.Lions)-1]
	}

	bidders := make(map[string]struct{})
	for _, bid := range bids {
		bidders[strings.ToLower(bid.Contact.Email)] = struct{}{}

		if summary, ok := summaryBySlug[bid.LionSlug]; ok {
			summary.BidCount++
			if summary.LatestBidAt == nil || bid.Timestamp.After(*summary.LatestBidAt) {
				t := bid.Timestamp
				summary.LatestBidAt = &t
			}
		}

		if bid.Amount > stats.HighestBid {
			stats.HighestBid = bid.Amount
			stats.HighestBidder = bid.Bidder
			if name := nameBySlug[bid.LionSlug]; name != "" {
				stats.HighestLion = name
			} else {
				stats.HighestLion = bid.LionSlug
			}
		}
	}
	stats.UniqueBidders = len(bidders)

	return stats, nil
}
