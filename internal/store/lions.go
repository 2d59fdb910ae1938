package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/lionbidapp/lionbid-server/internal/domain"
	apperrors "github.com/lionbidapp/lionbid-server/internal/errors"
)

const (
	lionPrefix       = "lion:"
	lionBySlugPrefix = "idx:lions:slug:"
)

// Lion operations

// CreateLion creates a new lion and its slug index entry atomically.
func (s *Store) CreateLion(ctx context.Context, lion *domain.Lion) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(lionPrefix + lion.ID)
	slugKey := []byte(lionBySlugPrefix + lion.Slug)

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		// The slug allocator resolves collisions before we get here; an
		// occupied index entry means a concurrent create won the race.
		if _, err := txn.Get(slugKey); err == nil {
			return apperrors.AlreadyExists(fmt.Sprintf("slug %q already taken", lion.Slug))
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := setInTxn(txn, key, lion); err != nil {
			return err
		}
		return txn.Set(slugKey, []byte(lion.ID))
	})
	if err != nil {
		return wrapStorage("create lion", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "lion created",
			slog.String("id", lion.ID),
			slog.String("slug", lion.Slug),
			slog.String("name", lion.Name),
		)
	}
	return nil
}

// GetLion retrieves a lion by store ID.
func (s *Store) GetLion(ctx context.Context, id string) (*domain.Lion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var lion domain.Lion
	if err := s.get([]byte(lionPrefix+id), &lion); err != nil {
		return nil, wrapStorage("get lion", err)
	}
	return &lion, nil
}

// GetLionBySlug retrieves a lion by its public slug.
func (s *Store) GetLionBySlug(ctx context.Context, slug string) (*domain.Lion, error) {
	id, ok, err := s.LionIDBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.GetLion(ctx, id)
}

// LionIDBySlug reports which lion currently holds a slug.
// Implements the slug allocator's Resolver interface.
func (s *Store) LionIDBySlug(ctx context.Context, slug string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(lionBySlugPrefix + slug))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapStorage("resolve slug", err)
	}
	return id, true, nil
}

// UpdateLion persists an edited lion, moving its slug index entry if the
// slug changed.
func (s *Store) UpdateLion(ctx context.Context, lion *domain.Lion) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(lionPrefix + lion.ID)

	err := s.db.Update(func(txn *badger.Txn) error {
		var old domain.Lion
		if err := getInTxn(txn, key, &old); err != nil {
			return err
		}

		if old.Slug != lion.Slug {
			if err := txn.Delete([]byte(lionBySlugPrefix + old.Slug)); err != nil {
				return err
			}
			if err := txn.Set([]byte(lionBySlugPrefix+lion.Slug), []byte(lion.ID)); err != nil {
				return err
			}
		}

		return setInTxn(txn, key, lion)
	})
	if err != nil {
		return wrapStorage("update lion", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "lion updated",
			slog.String("id", lion.ID),
			slog.String("slug", lion.Slug),
		)
	}
	return nil
}

// ListLions returns all lions sorted by name.
func (s *Store) ListLions(ctx context.Context) ([]*domain.Lion, error) {
	lions, err := s.collectLions(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(lions, func(i, j int) bool {
		return lions[i].Name < lions[j].Name
	})
	return lions, nil
}

// ListLionsByCurrentBid returns lions sorted by current bid, highest
// first, optionally limited. limit <= 0 means no limit.
func (s *Store) ListLionsByCurrentBid(ctx context.Context, limit int) ([]*domain.Lion, error) {
	lions, err := s.collectLions(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(lions, func(i, j int) bool {
		return lions[i].CurrentBid > lions[j].CurrentBid
	})
	if limit > 0 && len(lions) > limit {
		lions = lions[:limit]
	}
	return lions, nil
}

// collectLions scans all lion documents. The catalogue is small (tens of
// sculptures), so a full scan per request is fine.
func (s *Store) collectLions(ctx context.Context) ([]*domain.Lion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var lions []*domain.Lion
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(lionPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(lionPrefix)); it.ValidForPrefix([]byte(lionPrefix)); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var lion domain.Lion
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &lion)
			})
			if err != nil {
				return err
			}
			lions = append(lions, &lion)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorage("list lions", err)
	}
	return lions, nil
}

// RecordBid inserts a bid and raises the lion's current bid in one
// transaction. The update is conditional: if another bid raised the
// stored amount past this one between validation and write, nothing is
// written and ErrAmountTooLow is returned. Rejections never mutate the
// store.
func (s *Store) RecordBid(ctx context.Context, bid *domain.Bid) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		idItem, err := txn.Get([]byte(lionBySlugPrefix + bid.LionSlug))
		if err != nil {
			return err
		}
		var lionID string
		if err := idItem.Value(func(val []byte) error {
			lionID = string(val)
			return nil
		}); err != nil {
			return err
		}

		lionKey := []byte(lionPrefix + lionID)
		var lion domain.Lion
		if err := getInTxn(txn, lionKey, &lion); err != nil {
			return err
		}

		if bid.Amount <= lion.CurrentBid {
			return apperrors.ErrAmountTooLow
		}

		if err := setInTxn(txn, []byte(bidPrefix+bid.ID), bid); err != nil {
			return err
		}

		lion.CurrentBid = bid.Amount
		return setInTxn(txn, lionKey, &lion)
	})
	if err != nil {
		return wrapStorage("record bid", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "bid recorded",
			slog.String("id", bid.ID),
			slog.String("lion_slug", bid.LionSlug),
			slog.Int64("amount", bid.Amount),
		)
	}
	return nil
}
