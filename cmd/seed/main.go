// Package main provides a tool to seed the database with demo auction data.
//
// It creates a handful of catalogue entries with open bidding windows and a
// spread of bids, useful for exercising the catalogue, highlights, and
// dashboard endpoints during development.
//
// Usage:
//
//	DB_PATH=~/LionBid/data/store go run ./cmd/seed
//	DB_PATH=~/LionBid/data/store go run ./cmd/seed --wipe-bids  # Re-bid from scratch
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/lionbidapp/lionbid-server/internal/service"
	"github.com/lionbidapp/lionbid-server/internal/store"
)

var wipeBids = flag.Bool("wipe-bids", false, "Ignore existing bids and start each lion at its current bid")

type demoLion struct {
	name        string
	house       string
	summary     string
	startingBid int64
}

type demoBidder struct {
	name  string
	email string
	phone string
}

var demoLions = []demoLion{
	{"Aurora the Brave", "House of Dawn", "Hand-painted in sunrise golds by the children of Ward 7.", 200},
	{"Verve", "Riverside Collective", "A mosaic of donated ticket stubs from thirty years of galas.", 350},
	{"Legacy", "The Founders Circle", "Bronze-leafed mane honouring the charity's first benefactors.", 500},
	{"Monsoon", "Harbour Trust", "Deep blues and silver rain, sealed in marine varnish.", 150},
	{"Ember", "Kiln & Co.", "Raku-fired ceramic panels, no two alike.", 275},
}

var demoBidders = []demoBidder{
	{"Morgan Patron", "morgan@example.org", "+44 20 7946 0000"},
	{"Alex Benefactor", "alex@example.org", ""},
	{"Sam Underwriter", "sam@example.org", "+1 555 0100"},
	{"Riley Donor", "riley@example.org", ""},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/LionBid/data/store")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	lions := service.NewLionService(s, quiet)
	bids := service.NewBidService(s, quiet)

	// Open window spanning the event weekend
	now := time.Now().UTC()
	starts := now.Add(-24 * time.Hour)
	ends := now.Add(72 * time.Hour)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, d := range demoLions {
		lion, err := lions.CreateLion(ctx, service.CreateLionRequest{
			Name:            d.name,
			House:           d.house,
			Summary:         d.summary,
			StartingBid:     d.startingBid,
			BiddingStartsAt: &starts,
			BiddingEndsAt:   &ends,
		})
		if err != nil {
			log.Printf("Skipping %q: %v", d.name, err)
			continue
		}
		fmt.Printf("Created %s (slug=%s, starting at %d)\n", lion.Name, lion.Slug, d.startingBid)

		if *wipeBids {
			continue
		}

		// Two to four escalating bids per lion
		amount := lion.CurrentBid
		for n := 2 + rng.Intn(3); n > 0; n-- {
			amount += 25 + int64(rng.Intn(4))*25
			b := demoBidders[rng.Intn(len(demoBidders))]

			resp, err := bids.Submit(ctx, lion.Slug, service.SubmitBidRequest{
				LionSlug: lion.Slug,
				Amount:   amount,
				Bidder:   b.name,
				Email:    b.email,
				Phone:    b.phone,
			})
			if err != nil {
				log.Printf("  bid of %d rejected: %v", amount, err)
				continue
			}
			fmt.Printf("  %s bid %d (current now %d)\n", b.name, amount, resp.CurrentBid)
		}
	}

	fmt.Println("\nDone.")
}
