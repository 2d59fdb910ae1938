// Package service provides the business logic layer for the lion auction catalogue.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/lionbidapp/lionbid-server/internal/color"
	"github.com/lionbidapp/lionbid-server/internal/domain"
	apperrors "github.com/lionbidapp/lionbid-server/internal/errors"
	"github.com/lionbidapp/lionbid-server/internal/id"
	"github.com/lionbidapp/lionbid-server/internal/slug"
	"github.com/lionbidapp/lionbid-server/internal/store"
	"github.com/lionbidapp/lionbid-server/internal/timezone"
	"github.com/lionbidapp/lionbid-server/internal/validation"
)

// validate is a shared validator instance for request validation.
var validate = validation.New()

// allowedImageTypes maps accepted upload extensions to their MIME type.
var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// LionService orchestrates catalogue operations.
type LionService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewLionService creates a new lion service.
func NewLionService(store *store.Store, logger *slog.Logger) *LionService {
	return &LionService{
		store:  store,
		logger: logger,
	}
}

// CreateLionRequest contains the data for a new catalogue entry.
type CreateLionRequest struct {
	Name            string     `json:"name" validate:"required,max=200"`
	House           string     `json:"house,omitempty" validate:"max=200"`
	Summary         string     `json:"summary,omitempty" validate:"max=4000"`
	StartingBid     int64      `json:"starting_bid,omitempty" validate:"gte=0"`
	BiddingStartsAt *time.Time `json:"bidding_starts_at,omitempty"`
	BiddingEndsAt   *time.Time `json:"bidding_ends_at,omitempty"`
}

// UpdateLionRequest contains partial updates for an existing entry.
// Nil pointer fields are left unchanged. The Clear flags remove a
// window bound entirely, which the pointer fields cannot express.
// CurrentBid is the administrative override: it may move the amount in
// either direction, unlike the bid path which only raises it.
type UpdateLionRequest struct {
	Name                 *string    `json:"name,omitempty" validate:"omitempty,max=200"`
	House                *string    `json:"house,omitempty" validate:"omitempty,max=200"`
	Summary              *string    `json:"summary,omitempty" validate:"omitempty,max=4000"`
	CurrentBid           *int64     `json:"current_bid,omitempty" validate:"omitempty,gte=0"`
	BiddingStartsAt      *time.Time `json:"bidding_starts_at,omitempty"`
	BiddingEndsAt        *time.Time `json:"bidding_ends_at,omitempty"`
	ClearBiddingStartsAt bool       `json:"clear_bidding_starts_at,omitempty"`
	ClearBiddingEndsAt   bool       `json:"clear_bidding_ends_at,omitempty"`
}

// LionView is the public projection of a catalogue entry. Window bounds
// are carried twice: canonical UTC for machines and the fixed event
// timezone for page display.
type LionView struct {
	ID                     string     `json:"id"`
	Slug                   string     `json:"slug"`
	Name                   string     `json:"name"`
	House                  string     `json:"house,omitempty"`
	Summary                string     `json:"summary"`
	CurrentBid             int64      `json:"current_bid"`
	BiddingStartsAt        *time.Time `json:"bidding_starts_at,omitempty"`
	BiddingEndsAt          *time.Time `json:"bidding_ends_at,omitempty"`
	BiddingStartsAtDisplay *time.Time `json:"bidding_starts_at_display,omitempty"`
	BiddingEndsAtDisplay   *time.Time `json:"bidding_ends_at_display,omitempty"`
	BiddingOpen            bool       `json:"bidding_open"`
	AccentColor            string     `json:"accent_color"`
	ImageIDs               []string   `json:"image_ids,omitempty"`
}

// NewLionView projects a lion for public consumption, evaluating the
// bidding window at the given reference time.
func NewLionView(lion *domain.Lion, ref time.Time) LionView {
	return LionView{
		ID:                     lion.ID,
		Slug:                   lion.Slug,
		Name:                   lion.Name,
		House:                  lion.House,
		Summary:                lion.Summary,
		CurrentBid:             lion.CurrentBid,
		BiddingStartsAt:        timezone.EnsureUTC(lion.BiddingStartsAt),
		BiddingEndsAt:          timezone.EnsureUTC(lion.BiddingEndsAt),
		BiddingStartsAtDisplay: timezone.ToDisplay(lion.BiddingStartsAt),
		BiddingEndsAtDisplay:   timezone.ToDisplay(lion.BiddingEndsAt),
		BiddingOpen:            lion.WindowOpen(ref),
		AccentColor:            color.ForLion(lion.ID),
		ImageIDs:               lion.ImageIDs,
	}
}

// CreateLion validates and persists a new catalogue entry, allocating a
// unique slug from the name.
func (s *LionService) CreateLion(ctx context.Context, req CreateLionRequest) (*domain.Lion, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	lionID, err := id.Generate("lion")
	if err != nil {
		return nil, fmt.Errorf("generate lion ID: %w", err)
	}

	candidate := slug.Make(req.Name)
	unique, err := slug.EnsureUnique(ctx, candidate, "", s.store)
	if err != nil {
		return nil, fmt.Errorf("allocate slug: %w", err)
	}

	now := time.Now().UTC()
	lion := &domain.Lion{
		ID:              lionID,
		Slug:            unique,
		Name:            req.Name,
		House:           req.House,
		Summary:         req.Summary,
		CurrentBid:      req.StartingBid,
		BiddingStartsAt: req.BiddingStartsAt,
		BiddingEndsAt:   req.BiddingEndsAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	lion.NormalizeWindow()

	if err := s.store.CreateLion(ctx, lion); err != nil {
		return nil, err
	}

	s.logger.Info("lion created",
		"lion_id", lion.ID,
		"slug", lion.Slug,
		"name", lion.Name,
	)

	return lion, nil
}

// UpdateLion applies a partial update. A name change reallocates the
// slug, keeping it unique against every other lion.
func (s *LionService) UpdateLion(ctx context.Context, lionID string, req UpdateLionRequest) (*domain.Lion, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	lion, err := s.store.GetLion(ctx, lionID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != lion.Name {
		lion.Name = *req.Name

		candidate := slug.Make(lion.Name)
		unique, err := slug.EnsureUnique(ctx, candidate, lion.ID, s.store)
		if err != nil {
			return nil, fmt.Errorf("reallocate slug: %w", err)
		}
		lion.Slug = unique
	}
	if req.House != nil {
		lion.House = *req.House
	}
	if req.Summary != nil {
		lion.Summary = *req.Summary
	}
	if req.CurrentBid != nil {
		lion.CurrentBid = *req.CurrentBid
	}
	if req.BiddingStartsAt != nil {
		lion.BiddingStartsAt = req.BiddingStartsAt
	}
	if req.BiddingEndsAt != nil {
		lion.BiddingEndsAt = req.BiddingEndsAt
	}
	if req.ClearBiddingStartsAt {
		lion.BiddingStartsAt = nil
	}
	if req.ClearBiddingEndsAt {
		lion.BiddingEndsAt = nil
	}

	lion.NormalizeWindow()
	lion.Touch()

	if err := s.store.UpdateLion(ctx, lion); err != nil {
		return nil, err
	}

	s.logger.Info("lion updated", "lion_id", lion.ID, "slug", lion.Slug)

	return lion, nil
}

// GetLion retrieves a lion by store ID.
func (s *LionService) GetLion(ctx context.Context, lionID string) (*domain.Lion, error) {
	return s.store.GetLion(ctx, lionID)
}

// GetLionBySlug retrieves a lion by its public slug.
func (s *LionService) GetLionBySlug(ctx context.Context, lionSlug string) (*domain.Lion, error) {
	return s.store.GetLionBySlug(ctx, lionSlug)
}

// Catalogue returns the public view of every lion, sorted by name.
func (s *LionService) Catalogue(ctx context.Context) ([]LionView, error) {
	lions, err := s.store.ListLions(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	views := make([]LionView, 0, len(lions))
	for _, lion := range lions {
		views = append(views, NewLionView(lion, now))
	}
	return views, nil
}

// CatalogueEntry returns the public view of a single lion by slug.
func (s *LionService) CatalogueEntry(ctx context.Context, lionSlug string) (*LionView, error) {
	lion, err := s.store.GetLionBySlug(ctx, lionSlug)
	if err != nil {
		return nil, err
	}
	view := NewLionView(lion, time.Now().UTC())
	return &view, nil
}

// Highlights returns the top lions by current bid, highest first.
func (s *LionService) Highlights(ctx context.Context, limit int) ([]LionView, error) {
	lions, err := s.store.ListLionsByCurrentBid(ctx, limit)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	views := make([]LionView, 0, len(lions))
	for _, lion := range lions {
		views = append(views, NewLionView(lion, now))
	}
	return views, nil
}

// UploadImage validates and stores a catalogue photo for a lion.
func (s *LionService) UploadImage(ctx context.Context, lionID, filename string, payload []byte) (*domain.LionImage, error) {
	if len(payload) == 0 {
		return nil, apperrors.Validation("image payload is empty")
	}

	// Strip any path components a client might send.
	filename = filepath.Base(filename)

	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		return nil, apperrors.Validationf("unsupported image type %q (accepted: jpg, jpeg, png, gif, webp)", ext)
	}

	imageID, err := id.Generate("img")
	if err != nil {
		return nil, fmt.Errorf("generate image ID: %w", err)
	}

	img := &domain.LionImage{
		ID:          imageID,
		LionID:      lionID,
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(payload)),
		UploadedAt:  time.Now().UTC(),
	}

	if err := s.store.PutImage(ctx, img, payload); err != nil {
		return nil, err
	}

	s.logger.Info("image uploaded",
		"image_id", img.ID,
		"lion_id", lionID,
		"filename", filename,
		"size", img.Size,
	)

	return img, nil
}

// GetImage returns an image's metadata and payload.
func (s *LionService) GetImage(ctx context.Context, imageID string) (*domain.LionImage, []byte, error) {
	img, err := s.store.GetImage(ctx, imageID)
	if err != nil {
		return nil, nil, err
	}
	payload, err := s.store.GetImagePayload(ctx, imageID)
	if err != nil {
		return nil, nil, err
	}
	return img, payload, nil
}

// DeleteImage removes a photo from a lion's catalogue entry.
func (s *LionService) DeleteImage(ctx context.Context, lionID, imageID string) error {
	if err := s.store.DeleteImage(ctx, lionID, imageID); err != nil {
		return err
	}

	s.logger.Info("image deleted", "image_id", imageID, "lion_id", lionID)
	return nil
}
