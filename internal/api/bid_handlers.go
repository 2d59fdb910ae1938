package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lionbidapp/lionbid-server/internal/service"
)

func (s *Server) registerBidRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "submitBid",
		Method:        http.MethodPost,
		Path:          "/api/v1/lions/{slug}/bids",
		Summary:       "Submit bid",
		Description:   "Records a bid against a lion if the window is open and the amount beats the current bid",
		Tags:          []string{"Bids"},
		DefaultStatus: http.StatusCreated,
	}, s.handleSubmitBid)
}

// === DTOs ===

// SubmitBidInput wraps a bid submission for Huma. The path slug names
// the page the bid came from; the body carries its own lion slug for
// integrity checking.
type SubmitBidInput struct {
	Slug string `path:"slug" doc:"Lion slug"`
	Body service.SubmitBidRequest
}

// SubmitBidOutput wraps the submission result for Huma.
type SubmitBidOutput struct {
	Body SubmitBidResponse
}

// SubmitBidResponse reports the accepted bid.
type SubmitBidResponse struct {
	BidID      string `json:"bid_id" doc:"Recorded bid ID"`
	LionSlug   string `json:"lion_slug" doc:"Lion the bid was recorded against"`
	CurrentBid int64  `json:"current_bid" doc:"The lion's new current bid"`
}

// === Handlers ===

func (s *Server) handleSubmitBid(ctx context.Context, input *SubmitBidInput) (*SubmitBidOutput, error) {
	resp, err := s.services.Bid.Submit(ctx, input.Slug, input.Body)
	if err != nil {
		return nil, err
	}

	return &SubmitBidOutput{
		Body: SubmitBidResponse{
			BidID:      resp.Bid.ID,
			LionSlug:   resp.Bid.LionSlug,
			CurrentBid: resp.CurrentBid,
		},
	}, nil
}
