package ranking

import (
	"cmp"
	"slices"
	"strings"
	"time"

	model "studiobid/internal/models"

	"github.com/samber/lo"
)

// SortMode selects the secondary ordering of the feed
type SortMode string

const (
	SortNewest  SortMode = "newest"
	SortEnding  SortMode = "ending"
	SortHighest SortMode = "highest"
)

// ParseSortMode maps the sort control value to a SortMode. Unknown values
// fall back to SortNewest.
func ParseSortMode(raw string) SortMode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ending", "ending-soon", "endingsoon", "endsat":
		return SortEnding
	case "highest", "highest-bid", "highestbid", "bids":
		return SortHighest
	default:
		return SortNewest
	}
}

// HighestBid returns the largest bid amount on listing, 0 when there are none
func HighestBid(listing model.Listing) int {
	if len(listing.Bids) == 0 {
		return 0
	}
	return lo.MaxBy(listing.Bids, func(a, b model.Bid) bool {
		return a.Amount > b.Amount
	}).Amount
}

// IsEnded reports whether the auction is over at now. A missing end time
// counts as ended.
func IsEnded(listing model.Listing, now time.Time) bool {
	return listing.EndsAt.IsZero() || !listing.EndsAt.After(now)
}

// ActiveOnly drops listings that have ended at now
func ActiveOnly(listings []model.Listing, now time.Time) []model.Listing {
	return lo.Filter(listings, func(l model.Listing, _ int) bool {
		return !IsEnded(l, now)
	})
}

// Comparator returns the ordering for mode. Ties fall through to the
// listing id so the order is total.
func Comparator(mode SortMode) func(a, b model.Listing) int {
	var primary func(a, b model.Listing) int
	switch mode {
	case SortEnding:
		primary = func(a, b model.Listing) int {
			return a.EndsAt.Compare(b.EndsAt)
		}
	case SortHighest:
		primary = func(a, b model.Listing) int {
			return cmp.Compare(HighestBid(b), HighestBid(a))
		}
	default:
		primary = func(a, b model.Listing) int {
			return b.Created.Compare(a.Created)
		}
	}
	return func(a, b model.Listing) int {
		if c := primary(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
}

// Rank drops ended listings and orders the rest. With a query the order is
// score descending, ties broken by the mode comparator; without one the
// comparator alone decides. The input slice is not modified.
func Rank(listings []model.Listing, rawQuery string, mode SortMode, now time.Time) []model.Listing {
	active := ActiveOnly(listings, now)
	query := NormalizeQuery(rawQuery)
	secondary := Comparator(mode)

	if query == "" {
		slices.SortStableFunc(active, secondary)
		return active
	}

	type scored struct {
		listing model.Listing
		score   int
	}
	items := lo.Map(active, func(l model.Listing, _ int) scored {
		return scored{listing: l, score: Score(l, query)}
	})
	slices.SortStableFunc(items, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return secondary(a.listing, b.listing)
	})
	return lo.Map(items, func(s scored, _ int) model.Listing { return s.listing })
}
