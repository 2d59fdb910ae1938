package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lionbidapp/lionbid-server/internal/service"
)

func (s *Server) registerLionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLions",
		Method:      http.MethodGet,
		Path:        "/api/v1/lions",
		Summary:     "List lions",
		Description: "Returns the full catalogue sorted by name",
		Tags:        []string{"Catalogue"},
	}, s.handleListLions)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLion",
		Method:      http.MethodGet,
		Path:        "/api/v1/lions/{slug}",
		Summary:     "Get lion",
		Description: "Returns a single catalogue entry by slug",
		Tags:        []string{"Catalogue"},
	}, s.handleGetLion)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLionBids",
		Method:      http.MethodGet,
		Path:        "/api/v1/lions/{slug}/bids",
		Summary:     "List lion bids",
		Description: "Returns the bid history for a lion, newest first. Bidder contact details are withheld.",
		Tags:        []string{"Bids"},
	}, s.handleListLionBids)

	huma.Register(s.api, huma.Operation{
		OperationID: "listHighlights",
		Method:      http.MethodGet,
		Path:        "/api/v1/highlights",
		Summary:     "List highlights",
		Description: "Returns the top lions by current bid",
		Tags:        []string{"Catalogue"},
	}, s.handleListHighlights)
}

// === DTOs ===

// ListLionsOutput wraps the catalogue listing for Huma.
type ListLionsOutput struct {
	Body ListLionsResponse
}

// ListLionsResponse contains the public catalogue.
type ListLionsResponse struct {
	Lions []service.LionView `json:"lions" doc:"Catalogue entries"`
}

// GetLionInput contains parameters for fetching one lion.
type GetLionInput struct {
	Slug string `path:"slug" doc:"Lion slug"`
}

// LionOutput wraps a single catalogue entry for Huma.
type LionOutput struct {
	Body service.LionView
}

// ListLionBidsInput contains parameters for a lion's bid history.
type ListLionBidsInput struct {
	Slug string `path:"slug" doc:"Lion slug"`
}

// PublicBid is a bid with contact details stripped for public display.
type PublicBid struct {
	Amount    int64     `json:"amount" doc:"Bid amount"`
	Bidder    string    `json:"bidder" doc:"Bidder display name"`
	Timestamp time.Time `json:"timestamp" doc:"When the bid was recorded (UTC)"`
}

// ListLionBidsOutput wraps a lion's bid history for Huma.
type ListLionBidsOutput struct {
	Body ListLionBidsResponse
}

// ListLionBidsResponse contains a lion's bid history.
type ListLionBidsResponse struct {
	Bids []PublicBid `json:"bids" doc:"Bids, newest first"`
}

// ListHighlightsInput contains parameters for the highlights listing.
type ListHighlightsInput struct {
	Limit int `query:"limit" default:"5" minimum:"1" maximum:"50" doc:"Maximum entries to return"`
}

// === Handlers ===

func (s *Server) handleListLions(ctx context.Context, _ *struct{}) (*ListLionsOutput, error) {
	views, err := s.services.Lion.Catalogue(ctx)
	if err != nil {
		return nil, err
	}
	return &ListLionsOutput{Body: ListLionsResponse{Lions: views}}, nil
}

func (s *Server) handleGetLion(ctx context.Context, input *GetLionInput) (*LionOutput, error) {
	view, err := s.services.Lion.CatalogueEntry(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &LionOutput{Body: *view}, nil
}

func (s *Server) handleListLionBids(ctx context.Context, input *ListLionBidsInput) (*ListLionBidsOutput, error) {
	bids, err := s.services.Bid.BidsForLion(ctx, input.Slug)
	if err != nil {
		return nil, err
	}

	resp := make([]PublicBid, len(bids))
	for i, bid := range bids {
		resp[i] = PublicBid{
			Amount:    bid.Amount,
			Bidder:    bid.Bidder,
			Timestamp: bid.Timestamp,
		}
	}
	return &ListLionBidsOutput{Body: ListLionBidsResponse{Bids: resp}}, nil
}

func (s *Server) handleListHighlights(ctx context.Context, input *ListHighlightsInput) (*ListLionsOutput, error) {
	views, err := s.services.Lion.Highlights(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &ListLionsOutput{Body: ListLionsResponse{Lions: views}}, nil
}
