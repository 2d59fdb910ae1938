// Package main provides a read-only inspection tool for the LionBid store.
//
// It walks the raw Badger keyspace and reports catalogue entries, bid
// volumes, image blobs, and any slug index entries that no longer point
// at a live lion.
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/lionbidapp/lionbid-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/LionBid/data/store")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Store Inspection ===")
	fmt.Println()

	lionsByID := map[string]*domain.Lion{}
	bidCounts := map[string]int{}
	var bidTotal int
	var imageCount, blobCount int
	slugIndex := map[string]string{}

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			switch {
			case strings.HasPrefix(key, "lion:"):
				var lion domain.Lion
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &lion)
				}); err != nil {
					return err
				}
				lionsByID[lion.ID] = &lion

			case strings.HasPrefix(key, "bid:"):
				var bid domain.Bid
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &bid)
				}); err != nil {
					return err
				}
				bidCounts[bid.LionSlug]++
				bidTotal++

			case strings.HasPrefix(key, "img:"):
				imageCount++

			case strings.HasPrefix(key, "blob:"):
				blobCount++

			case strings.HasPrefix(key, "idx:lions:slug:"):
				slug := key[len("idx:lions:slug:"):]
				if err := item.Value(func(val []byte) error {
					slugIndex[slug] = string(val)
					return nil
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Inspection failed: %v", err)
	}

	fmt.Printf("Lions: %d\n", len(lionsByID))
	for _, lion := range lionsByID {
		fmt.Printf("  %-24s slug=%-28s current=%-6d bids=%-3d images=%d\n",
			lion.Name, lion.Slug, lion.CurrentBid, bidCounts[lion.Slug], len(lion.ImageIDs))
	}
	fmt.Println()
	fmt.Printf("Bids: %d\n", bidTotal)
	fmt.Printf("Images: %d metadata, %d blobs\n", imageCount, blobCount)
	fmt.Printf("Slug index entries: %d\n", len(slugIndex))

	// Index entries pointing at missing lions indicate a broken write path.
	dangling := 0
	for slug, id := range slugIndex {
		if _, ok := lionsByID[id]; !ok {
			fmt.Printf("  DANGLING idx entry: %s -> %s\n", slug, id)
			dangling++
		}
	}
	if dangling == 0 {
		fmt.Println("Slug index is consistent.")
	}
}
