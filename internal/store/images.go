package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/lionbidapp/lionbid-server/internal/domain"
)

const (
	imagePrefix = "img:"
	blobPrefix  = "blob:"
)

// Image blob sub-store. Metadata records live under img:{id}; binary
// payloads under blob:{id}. Both are written together with the owning
// lion's reference list so a crash cannot leave an orphan blob.

// PutImage stores an image's metadata and payload and appends the
// reference to the owning lion, all in one transaction.
func (s *Store) PutImage(ctx context.Context, img *domain.LionImage, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lionKey := []byte(lionPrefix + img.LionID)

	err := s.db.Update(func(txn *badger.Txn) error {
		var lion domain.Lion
		if err := getInTxn(txn, lionKey, &lion); err != nil {
			return err
		}

		if err := setInTxn(txn, []byte(imagePrefix+img.ID), img); err != nil {
			return err
		}
		if err := txn.Set([]byte(blobPrefix+img.ID), payload); err != nil {
			return err
		}

		lion.ImageIDs = append(lion.ImageIDs, img.ID)
		return setInTxn(txn, lionKey, &lion)
	})
	if err != nil {
		return wrapStorage("put image", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "image stored",
			slog.String("id", img.ID),
			slog.String("lion_id", img.LionID),
			slog.String("filename", img.Filename),
			slog.Int64("size", img.Size),
		)
	}
	return nil
}

// GetImage retrieves an image's metadata record.
func (s *Store) GetImage(ctx context.Context, id string) (*domain.LionImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var img domain.LionImage
	if err := s.get([]byte(imagePrefix+id), &img); err != nil {
		return nil, wrapStorage("get image", err)
	}
	return &img, nil
}

// GetImagePayload retrieves an image's binary payload.
func (s *Store) GetImagePayload(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(blobPrefix + id))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, wrapStorage("get image payload", err)
	}
	return payload, nil
}

// ListImagesForLion returns the metadata records for a lion's images in
// the lion's reference order. References without a record are skipped.
func (s *Store) ListImagesForLion(ctx context.Context, lionID string) ([]*domain.LionImage, error) {
	lion, err := s.GetLion(ctx, lionID)
	if err != nil {
		return nil, err
	}

	images := make([]*domain.LionImage, 0, len(lion.ImageIDs))
	for _, imgID := range lion.ImageIDs {
		img, err := s.GetImage(ctx, imgID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// DeleteImage removes an image's metadata, payload, and the owning
// lion's reference in one transaction. Returns ErrNotFound if the image
// does not exist or belongs to a different lion.
func (s *Store) DeleteImage(ctx context.Context, lionID, imageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		var img domain.LionImage
		if err := getInTxn(txn, []byte(imagePrefix+imageID), &img); err != nil {
			return err
		}
		if img.LionID != lionID {
			return badger.ErrKeyNotFound
		}

		if err := txn.Delete([]byte(imagePrefix + imageID)); err != nil {
			return err
		}
		if err := txn.Delete([]byte(blobPrefix + imageID)); err != nil {
			return err
		}

		lionKey := []byte(lionPrefix + lionID)
		var lion domain.Lion
		if err := getInTxn(txn, lionKey, &lion); err != nil {
			return err
		}
		lion.RemoveImageRef(imageID)
		return setInTxn(txn, lionKey, &lion)
	})
	if err != nil {
		return wrapStorage("delete image", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "image deleted",
			slog.String("id", imageID),
			slog.String("lion_id", lionID),
		)
	}
	return nil
}
