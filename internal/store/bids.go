package store

import (
	"context"
	"encoding/json/v2"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/lionbidapp/lionbid-server/internal/domain"
)

const bidPrefix = "bid:"

// Bid operations. Bids are written by RecordBid (lions.go) as part of the
// same transaction that raises the lion's current bid; this file only
// reads them back.

// GetBid retrieves a bid by ID.
func (s *Store) GetBid(ctx context.Context, id string) (*domain.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var bid domain.Bid
	if err := s.get([]byte(bidPrefix+id), &bid); err != nil {
		return nil, wrapStorage("get bid", err)
	}
	return &bid, nil
}

// ListBids returns all bids, newest first, optionally limited.
// limit <= 0 means no limit.
func (s *Store) ListBids(ctx context.Context, limit int) ([]*domain.Bid, error) {
	bids, err := s.collectBids(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(bids, func(i, j int) bool {
		return bids[i].Timestamp.After(bids[j].Timestamp)
	})
	if limit > 0 && len(bids) > limit {
		bids = bids[:limit]
	}
	return bids, nil
}

// ListBidsForLion returns the bids recorded against a lion's slug,
// newest first.
func (s *Store) ListBidsForLion(ctx context.Context, slug string) ([]*domain.Bid, error) {
	all, err := s.ListBids(ctx, 0)
	if err != nil {
		return nil, err
	}

	var bids []*domain.Bid
	for _, bid := range all {
		if bid.LionSlug == slug {
			bids = append(bids, bid)
		}
	}
	return bids, nil
}

func (s *Store) collectBids(ctx context.Context) ([]*domain.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var bids []*domain.Bid
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bidPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(bidPrefix)); it.ValidForPrefix([]byte(bidPrefix)); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var bid domain.Bid
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &bid)
			})
			if err != nil {
				return err
			}
			bids = append(bids, &bid)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorage("list bids", err)
	}
	return bids, nil
}
