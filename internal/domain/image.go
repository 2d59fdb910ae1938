package domain

import "time"

// LionImage is the metadata record for an uploaded catalogue photo.
// The binary payload lives in the store's blob sub-store under the same ID.
// Each image is owned by exactly one lion.
type LionImage struct {
	ID          string    `json:"id"`
	LionID      string    `json:"lion_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
