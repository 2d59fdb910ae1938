package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
)

func (s *Server) registerImageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "uploadLionImage",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/lions/{id}/images",
		Summary:     "Upload lion image",
		Description: "Uploads a catalogue photo for a lion",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadLionImage)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteLionImage",
		Method:        http.MethodDelete,
		Path:          "/api/v1/admin/lions/{id}/images/{imageID}",
		Summary:       "Delete lion image",
		Description:   "Removes a catalogue photo from a lion",
		Tags:          []string{"Admin"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteLionImage)

	// Direct chi route for image streaming, bypassing the JSON envelope.
	s.router.Get("/api/v1/lions/{slug}/images/{imageID}", s.handleServeImage)
}

// === DTOs ===

// UploadLionImageInput wraps an image upload for Huma. The payload is
// the raw request body; the filename rides in a query parameter.
type UploadLionImageInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Lion ID"`
	Filename      string `query:"filename" required:"true" doc:"Original filename, used for type detection"`
	RawBody       []byte
}

// ImageResponse contains image metadata in API responses.
type ImageResponse struct {
	ID          string    `json:"id" doc:"Image ID"`
	LionID      string    `json:"lion_id" doc:"Owning lion ID"`
	Filename    string    `json:"filename" doc:"Sanitized filename"`
	ContentType string    `json:"content_type" doc:"MIME type"`
	Size        int64     `json:"size" doc:"Payload size in bytes"`
	UploadedAt  time.Time `json:"uploaded_at" doc:"Upload time (UTC)"`
}

// ImageOutput wraps an image response for Huma.
type ImageOutput struct {
	Body ImageResponse
}

// DeleteLionImageInput contains parameters for deleting an image.
type DeleteLionImageInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Lion ID"`
	ImageID       string `path:"imageID" doc:"Image ID"`
}

// DeleteLionImageOutput is the empty response for a deletion.
type DeleteLionImageOutput struct{}

// === Handlers ===

func (s *Server) handleUploadLionImage(ctx context.Context, input *UploadLionImageInput) (*ImageOutput, error) {
	if _, err := s.authenticateAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	img, err := s.services.Lion.UploadImage(ctx, input.ID, input.Filename, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &ImageOutput{
		Body: ImageResponse{
			ID:          img.ID,
			LionID:      img.LionID,
			Filename:    img.Filename,
			ContentType: img.ContentType,
			Size:        img.Size,
			UploadedAt:  img.UploadedAt,
		},
	}, nil
}

func (s *Server) handleDeleteLionImage(ctx context.Context, input *DeleteLionImageInput) (*DeleteLionImageOutput, error) {
	if _, err := s.authenticateAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Lion.DeleteImage(ctx, input.ID, input.ImageID); err != nil {
		return nil, err
	}

	return &DeleteLionImageOutput{}, nil
}

// handleServeImage streams an image payload with its stored content type.
func (s *Server) handleServeImage(w http.ResponseWriter, r *http.Request) {
	lionSlug := chi.URLParam(r, "slug")
	imageID := chi.URLParam(r, "imageID")

	lion, err := s.services.Lion.GetLionBySlug(r.Context(), lionSlug)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	img, payload, err := s.services.Lion.GetImage(r.Context(), imageID)
	if err != nil || img.LionID != lion.ID {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(payload)
}
